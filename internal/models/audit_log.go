package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	// empty for anonymous actions (e.g. failed login)
	UserID string `gorm:"size:36;index" json:"userId,omitempty"`

	Entity   string `gorm:"size:50;not null" json:"entity"` // "user", "vehicle", "session"
	EntityID string `gorm:"size:36" json:"entityId,omitempty"`
	Action   string `gorm:"size:50;not null" json:"action"` // "create", "login", "logout" ...
	Details  string `gorm:"type:text" json:"details,omitempty"`
}
