package tracking

import (
	"time"

	"github.com/google/uuid"
)

// EventHistory is an append-only audit row recording one field change on
// an event. Rows are written by direct field edits and by catalog
// operations that rewrite payloads (rename, merge, delete cleanup).
type EventHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Field     string    `gorm:"type:varchar(50);not null"`
	OldValue  string    `gorm:"type:text"`
	NewValue  string    `gorm:"type:text"`
	Author    string    `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (EventHistory) TableName() string {
	return "event_histories"
}

// NewEventHistory creates an audit row. Author is the caller-supplied
// identity of whoever triggered the change; there is no implicit system
// author.
func NewEventHistory(eventID uuid.UUID, field, oldValue, newValue, author string) *EventHistory {
	return &EventHistory{
		ID:        uuid.New(),
		EventID:   eventID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		Author:    author,
		CreatedAt: time.Now(),
	}
}
