package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Change event actions. "stale" is emitted by the draw watcher when a
// pending draw has sat unapproved past the configured age.
const (
	ChangeActionCreated       = "created"
	ChangeActionUpdated       = "updated"
	ChangeActionDeleted       = "deleted"
	ChangeActionStatusChanged = "status_changed"
	ChangeActionStale         = "stale"
)

// ChangeEvent is one row of the append-only change feed. IDs are monotonic
// per table, so clients poll with the last ID they saw as a cursor.
type ChangeEvent struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	// ProjectID scopes the event for per-project polling. Nil for entities
	// that live outside a project, e.g. vendors and cost references.
	ProjectID *uuid.UUID `gorm:"type:uuid;index"`

	EntityType string `gorm:"type:varchar(40);not null;index"`
	EntityID   string `gorm:"type:varchar(60);not null"`
	Action     string `gorm:"type:varchar(20);not null"`

	// Payload carries the entity state after the change, or the identifiers
	// only for deletes.
	Payload datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (ChangeEvent) TableName() string {
	return "change_events"
}
