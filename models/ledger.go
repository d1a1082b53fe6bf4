package models

import (
	"time"
)

type EntryKind string

const (
	KindPurchaseGrant   EntryKind = "purchase_grant"
	KindLeadDebit       EntryKind = "lead_debit"
	KindAdminAdjustment EntryKind = "admin_adjustment"
	KindSignupBonus     EntryKind = "signup_bonus"
)

// CreditLedgerEntry is append-only: no UpdatedAt, no soft delete.
// A user's balance is always the sum of their entries; corrections are
// new entries, never edits.
type CreditLedgerEntry struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	User        User      `json:"-"`
	Amount      int       `json:"amount" gorm:"not null"` // positive = credit, negative = debit
	Kind        EntryKind `json:"kind" gorm:"not null;index"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

func (CreditLedgerEntry) TableName() string {
	return "credit_ledger_entries"
}
