package tracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
)

// EventStatus represents the implementation status of a tracked event
type EventStatus string

const (
	EventStatusToImplement EventStatus = "to_implement"
	EventStatusToTest      EventStatus = "to_test"
	EventStatusError       EventStatus = "error"
	EventStatusValidated   EventStatus = "validated"
)

// IsValid reports whether the status is one of the known values
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusToImplement, EventStatusToTest, EventStatusError, EventStatusValidated:
		return true
	}
	return false
}

// Event is a tracked analytics event documented on a page. Its property
// payload is stored denormalized as JSON text; the payload is the source
// of truth for what the event actually carries, while the product's
// catalog is a derived index over it. ProductID is denormalized from the
// owning page so product-wide payload scans stay a single query.
type Event struct {
	shared.ProductScopedEntity
	PageID     uuid.UUID   `gorm:"type:uuid;not null;index"`
	Name       string      `gorm:"type:varchar(200);not null"`
	Status     EventStatus `gorm:"type:varchar(20);not null;default:'to_implement'"`
	TestDate   *time.Time
	Properties string `gorm:"type:text;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "events"
}

// NewEvent creates a new event on a page
func NewEvent(productID, pageID uuid.UUID, name string) (*Event, error) {
	if err := validateEventName(name); err != nil {
		return nil, err
	}
	return &Event{
		ProductScopedEntity: shared.NewProductScopedEntity(productID),
		PageID:              pageID,
		Name:                name,
		Status:              EventStatusToImplement,
		Properties:          "{}",
	}, nil
}

// Rename changes the event name
func (e *Event) Rename(name string) error {
	if err := validateEventName(name); err != nil {
		return err
	}
	e.Name = name
	e.UpdatedAt = time.Now()
	return nil
}

// SetStatus changes the implementation status
func (e *Event) SetStatus(status EventStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown event status: "+string(status))
	}
	e.Status = status
	e.UpdatedAt = time.Now()
	return nil
}

// SetTestDate records when the event was last tested
func (e *Event) SetTestDate(testDate *time.Time) {
	e.TestDate = testDate
	e.UpdatedAt = time.Now()
}

// SetPayload replaces the stored property blob with the encoded payload
func (e *Event) SetPayload(payload *Payload) error {
	encoded, err := payload.Encode()
	if err != nil {
		return err
	}
	e.Properties = encoded
	e.UpdatedAt = time.Now()
	return nil
}

func validateEventName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Event name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Event name cannot exceed 200 characters")
	}
	return nil
}
