package database

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an immutable record of one state-changing action. Rows are
// only ever inserted or deleted; there is no update path.
type AuditLog struct {
	ID              int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ActionType      string         `gorm:"size:50;not null;index" json:"action_type"`
	EntityType      string         `gorm:"size:50;not null;index" json:"entity_type"`
	EntityID        int64          `gorm:"not null;index" json:"entity_id"`
	EntityName      string         `gorm:"size:255" json:"entity_name"`
	PerformedByID   int64          `gorm:"not null" json:"performed_by_id"`
	PerformedByType string         `gorm:"size:20;not null" json:"performed_by_type"`
	PerformedByName string         `gorm:"size:255" json:"performed_by_name"`
	OldValues       datatypes.JSON `json:"old_values"`
	NewValues       datatypes.JSON `json:"new_values"`
	Description     string         `gorm:"type:text" json:"description"`
	IPAddress       string         `gorm:"size:50" json:"ip_address"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
}
