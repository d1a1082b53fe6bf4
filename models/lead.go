package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusPurchased LeadStatus = "purchased"
)

// Lead is a property request submitted through the public intake form.
// Contact fields are only exposed to users who purchased the lead.
// There is no status column: status is derived from purchase existence.
type Lead struct {
	ID             string         `json:"id" gorm:"primaryKey;size:36"`
	Mode           string         `json:"mode"` // "rent" or "buy"
	Type           string         `json:"type"`
	Bedrooms       string         `json:"bedrooms"`
	Area           string         `json:"area"`
	Budget         string         `json:"budget"`
	RentalDuration string         `json:"rental_duration"`
	Timing         string         `json:"timing"`
	Address        string         `json:"address"`
	Latitude       float64        `json:"lat"`
	Longitude      float64        `json:"lng"`
	ContactName    string         `json:"contact_name,omitempty"`
	ContactEmail   string         `json:"contact_email,omitempty"`
	ContactPhone   string         `json:"contact_phone,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Purchases []LeadPurchase `json:"purchases,omitempty"`
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// Status derives the lead state from its purchases.
func (l *Lead) Status() LeadStatus {
	if len(l.Purchases) > 0 {
		return LeadStatusPurchased
	}
	return LeadStatusNew
}

// LeadPurchase records a lead unlock. The composite unique index is the
// structural guard against a user buying the same lead twice.
type LeadPurchase struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_lead"`
	User        User      `json:"-"`
	LeadID      string    `json:"lead_id" gorm:"not null;size:36;uniqueIndex:idx_user_lead"`
	Lead        Lead      `json:"-"`
	CreditsPaid int       `json:"credits_paid" gorm:"not null"`
	CreatedAt   time.Time `json:"purchased_at"`
}

func (LeadPurchase) TableName() string {
	return "lead_purchases"
}
