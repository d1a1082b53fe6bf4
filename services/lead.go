package services

import (
	"errors"

	"github.com/ABAKHAR721/sakane-be/config"
	"github.com/ABAKHAR721/sakane-be/models"
	"github.com/ABAKHAR721/sakane-be/websocket"
	"gorm.io/gorm"
)

type LeadService struct{}

func NewLeadService() *LeadService {
	return &LeadService{}
}

type CreateLeadInput struct {
	Mode           string
	Type           string
	Bedrooms       string
	Area           string
	Budget         string
	RentalDuration string
	Timing         string
	Address        string
	Latitude       float64
	Longitude      float64
	ContactName    string
	ContactEmail   string
	ContactPhone   string
}

// CreateLead stores a property request submitted through the public form.
func (s *LeadService) CreateLead(input CreateLeadInput) (*models.Lead, error) {
	lead := models.Lead{
		Mode:           input.Mode,
		Type:           input.Type,
		Bedrooms:       input.Bedrooms,
		Area:           input.Area,
		Budget:         input.Budget,
		RentalDuration: input.RentalDuration,
		Timing:         input.Timing,
		Address:        input.Address,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		ContactName:    input.ContactName,
		ContactEmail:   input.ContactEmail,
		ContactPhone:   input.ContactPhone,
	}

	if err := config.DB.Create(&lead).Error; err != nil {
		return nil, err
	}

	if config.WSHub != nil {
		config.WSHub.BroadcastEvent(websocket.EventLeadCreated, websocket.LeadEvent{
			LeadID:  lead.ID,
			Mode:    lead.Mode,
			Type:    lead.Type,
			Address: lead.Address,
		})
	}

	return &lead, nil
}

// LeadSummary is the listing view: no contact details until purchased.
type LeadSummary struct {
	ID             string            `json:"id"`
	Mode           string            `json:"mode"`
	Type           string            `json:"type"`
	Bedrooms       string            `json:"bedrooms"`
	Area           string            `json:"area"`
	Budget         string            `json:"budget"`
	RentalDuration string            `json:"rental_duration"`
	Timing         string            `json:"timing"`
	Address        string            `json:"address"`
	Status         models.LeadStatus `json:"status"`
	PurchaseCount  int               `json:"purchase_count"`
	CreatedAt      string            `json:"created_at"`
}

// AvailableLeads returns leads the user has not purchased yet, contact
// details withheld.
func (s *LeadService) AvailableLeads(userID uint) ([]LeadSummary, error) {
	var leads []models.Lead
	err := config.DB.Preload("Purchases").
		Where("id NOT IN (?)", config.DB.Model(&models.LeadPurchase{}).
			Select("lead_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]LeadSummary, 0, len(leads))
	for i := range leads {
		summaries = append(summaries, summarize(&leads[i]))
	}
	return summaries, nil
}

func summarize(lead *models.Lead) LeadSummary {
	return LeadSummary{
		ID:             lead.ID,
		Mode:           lead.Mode,
		Type:           lead.Type,
		Bedrooms:       lead.Bedrooms,
		Area:           lead.Area,
		Budget:         lead.Budget,
		RentalDuration: lead.RentalDuration,
		Timing:         lead.Timing,
		Address:        lead.Address,
		Status:         lead.Status(),
		PurchaseCount:  len(lead.Purchases),
		CreatedAt:      lead.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// PurchasedLead is the unlocked view with contact details.
type PurchasedLead struct {
	models.Lead
	PurchaseID  uint   `json:"purchase_id"`
	PurchasedAt string `json:"purchased_at"`
	CreditsPaid int    `json:"credits_paid"`
}

// PurchasedLeads returns the leads the user unlocked, contact details
// included, most recent purchase first.
func (s *LeadService) PurchasedLeads(userID uint) ([]PurchasedLead, error) {
	var purchases []models.LeadPurchase
	err := config.DB.Preload("Lead").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}

	leads := make([]PurchasedLead, 0, len(purchases))
	for _, p := range purchases {
		leads = append(leads, PurchasedLead{
			Lead:        p.Lead,
			PurchaseID:  p.ID,
			PurchasedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			CreditsPaid: p.CreditsPaid,
		})
	}
	return leads, nil
}

// GetPurchasedLead returns one unlocked lead, only if this user owns it.
func (s *LeadService) GetPurchasedLead(userID uint, leadID string) (*PurchasedLead, error) {
	var purchase models.LeadPurchase
	err := config.DB.Preload("Lead").
		Where("user_id = ? AND lead_id = ?", userID, leadID).
		First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	return &PurchasedLead{
		Lead:        purchase.Lead,
		PurchaseID:  purchase.ID,
		PurchasedAt: purchase.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		CreditsPaid: purchase.CreditsPaid,
	}, nil
}

// AllLeads returns every lead with its purchases preloaded (admin view).
func (s *LeadService) AllLeads(limit int) ([]models.Lead, error) {
	query := config.DB.Preload("Purchases").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var leads []models.Lead
	err := query.Find(&leads).Error
	return leads, err
}
