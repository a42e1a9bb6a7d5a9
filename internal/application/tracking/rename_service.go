package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// RenameService propagates catalog renames into every payload that
// references the renamed row. The catalog update and all payload
// rewrites happen in one transaction; key order inside each payload is
// preserved.
type RenameService struct {
	uow    tracking.UnitOfWork
	logger *zap.Logger
}

// NewRenameService creates a rename service
func NewRenameService(uow tracking.UnitOfWork, logger *zap.Logger) *RenameService {
	return &RenameService{uow: uow, logger: logger}
}

// RenameProperty renames a property and rewrites the matching key in
// every payload of the product, keeping each key at its original
// position. It returns the number of events whose payload changed.
// Renaming onto an existing property name is rejected.
func (s *RenameService) RenameProperty(ctx context.Context, productID, propertyID uuid.UUID, newName, author string) (int, error) {
	affected := 0
	err := s.uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
		property, err := repos.Properties.FindByID(ctx, propertyID)
		if err != nil {
			return err
		}
		if property.ProductID != productID {
			return shared.ErrNotFound
		}
		oldName := property.Name
		if oldName == newName {
			return nil
		}

		existing, err := repos.Properties.FindByName(ctx, productID, newName)
		if err != nil && err != shared.ErrNotFound {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("PROPERTY_EXISTS", "A property with this name already exists")
		}

		if err := property.Rename(newName); err != nil {
			return err
		}
		if err := repos.Properties.Save(ctx, property); err != nil {
			return err
		}

		events, err := repos.Events.FindAllForProduct(ctx, productID)
		if err != nil {
			return err
		}
		for i := range events {
			event := &events[i]
			payload, decErr := tracking.DecodePayload(event.Properties)
			if decErr != nil {
				s.logger.Warn("skipping event with malformed payload",
					zap.String("event_id", event.ID.String()),
					zap.Error(decErr))
				continue
			}
			value, ok := payload.Get(oldName)
			if !ok {
				continue
			}
			if !payload.RenameKey(oldName, newName) {
				// the payload already carries the new key; renaming
				// would clobber it, so the old pair is left in place
				s.logger.Warn("skipping event whose payload already has the target key",
					zap.String("event_id", event.ID.String()),
					zap.String("old_name", oldName),
					zap.String("new_name", newName))
				continue
			}
			if err := event.SetPayload(payload); err != nil {
				return err
			}
			if err := repos.Events.Save(ctx, event); err != nil {
				return err
			}
			if err := repos.Histories.Append(ctx, tracking.NewEventHistory(
				event.ID, "properties",
				singlePairJSON(oldName, value),
				singlePairJSON(newName, value),
				author,
			)); err != nil {
				return err
			}
			affected++
		}
		return nil
	})
	return affected, err
}

// RenameSuggestedValue renames a suggested value and rewrites every
// payload value that matches it, exactly or as a substring of a string
// value. When the new text collides with an existing row nothing is
// modified and the result carries a conflict describing the merge the
// caller can offer instead.
func (s *RenameService) RenameSuggestedValue(ctx context.Context, productID, valueID uuid.UUID, newValue, author string) (*RenameValueResult, error) {
	result := &RenameValueResult{}
	err := s.uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
		value, err := repos.SuggestedValues.FindByID(ctx, valueID)
		if err != nil {
			return err
		}
		if value.ProductID != productID {
			return shared.ErrNotFound
		}
		oldValue := value.Value
		if oldValue == newValue {
			resp := ToSuggestedValueResponse(value)
			result.Value = &resp
			return nil
		}

		existing, err := repos.SuggestedValues.FindByValue(ctx, productID, newValue)
		if err != nil && err != shared.ErrNotFound {
			return err
		}
		if existing != nil {
			result.Conflict = &ValueRenameConflict{
				ExistingID:    existing.ID,
				ExistingValue: existing.Value,
				KeepValueID:   existing.ID,
				RetireValueID: value.ID,
			}
			return nil
		}

		if err := value.SetValue(newValue); err != nil {
			return err
		}
		if err := repos.SuggestedValues.Save(ctx, value); err != nil {
			return err
		}

		events, err := repos.Events.FindAllForProduct(ctx, productID)
		if err != nil {
			return err
		}
		for i := range events {
			event := &events[i]
			payload, decErr := tracking.DecodePayload(event.Properties)
			if decErr != nil {
				s.logger.Warn("skipping event with malformed payload",
					zap.String("event_id", event.ID.String()),
					zap.Error(decErr))
				continue
			}
			before := event.Properties
			if payload.ReplaceValue(oldValue, newValue) == 0 {
				continue
			}
			if err := event.SetPayload(payload); err != nil {
				return err
			}
			if err := repos.Events.Save(ctx, event); err != nil {
				return err
			}
			if err := repos.Histories.Append(ctx, tracking.NewEventHistory(
				event.ID, "properties", before, event.Properties, author,
			)); err != nil {
				return err
			}
			result.AffectedEvents++
		}

		resp := ToSuggestedValueResponse(value)
		result.Value = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// singlePairJSON renders one key/value pair as a JSON object, matching
// the payload encoding for that pair.
func singlePairJSON(key string, value any) string {
	pair := tracking.NewPayload()
	pair.Set(key, value)
	encoded, err := pair.Encode()
	if err != nil {
		return "{}"
	}
	return encoded
}
