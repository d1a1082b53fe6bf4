package services

import (
	"log"

	"github.com/ABAKHAR721/sakane-be/config"
	"github.com/ABAKHAR721/sakane-be/models"
)

type AuditService struct{}

func NewAuditService() *AuditService {
	return &AuditService{}
}

// Record appends an audit row for an admin action. Audit is a logging
// side-effect: a failed write is logged, never propagated, so it cannot
// roll back the action it mirrors.
func (s *AuditService) Record(adminID uint, action, targetType, targetID, details string) {
	entry := models.AuditLog{
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		log.Printf("[AUDIT] failed to record %s by admin %d: %v", action, adminID, err)
	}
}

func (s *AuditService) List(limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []models.AuditLog
	err := config.DB.Preload("Admin").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
