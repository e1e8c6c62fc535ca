package database

import (
	"context"
	"log/slog"

	"rental-backend/internal/models"

	"gorm.io/gorm"
)

// Audit writes the audit trail. Writes are best effort: a failed insert is
// logged and never fails the request that triggered it.
type Audit struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewAudit(db *gorm.DB, log *slog.Logger) *Audit {
	return &Audit{db: db, log: log}
}

func (a *Audit) Record(ctx context.Context, userID, entity, entityID, action, details string) {
	if a == nil || a.db == nil {
		return
	}
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := a.db.WithContext(ctx).Create(&record).Error; err != nil {
		a.log.Error("failed to write audit log", "entity", entity, "action", action, "error", err)
	}
}

// Recent returns the newest entries first.
func (a *Audit) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := a.db.WithContext(ctx).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
