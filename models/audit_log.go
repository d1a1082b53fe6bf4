package models

import (
	"time"
)

// AuditLog mirrors every admin mutation. Append-only like the ledger.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	AdminID    uint      `json:"admin_id" gorm:"not null;index"`
	Admin      User      `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	Action     string    `json:"action" gorm:"not null"` // "user_created", "balance_set", ...
	TargetType string    `json:"target_type"`            // "user", "lead"
	TargetID   string    `json:"target_id"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
