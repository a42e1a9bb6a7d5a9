package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// MergeService collapses one suggested value into another. Every
// association of the source is transferred to the target (dropping
// duplicates), payloads referencing the source text are rewritten to the
// target text, product defaults are repointed, and the source row is
// deleted. The whole merge is one transaction.
type MergeService struct {
	uow    tracking.UnitOfWork
	logger *zap.Logger
}

// NewMergeService creates a merge service
func NewMergeService(uow tracking.UnitOfWork, logger *zap.Logger) *MergeService {
	return &MergeService{uow: uow, logger: logger}
}

// MergeSuggestedValues merges the source value into the target value.
// Both must belong to the given product.
func (s *MergeService) MergeSuggestedValues(ctx context.Context, productID, sourceID, targetID uuid.UUID) (*MergeResult, error) {
	if sourceID == targetID {
		return nil, shared.NewDomainError("INVALID_MERGE", "Cannot merge a suggested value into itself")
	}

	result := &MergeResult{TransferredProperties: []string{}}
	err := s.uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
		source, err := repos.SuggestedValues.FindByID(ctx, sourceID)
		if err != nil {
			return err
		}
		target, err := repos.SuggestedValues.FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		if source.ProductID != target.ProductID {
			return shared.ErrCrossProduct
		}
		if source.ProductID != productID {
			return shared.ErrNotFound
		}

		associations, err := repos.PropertyValues.FindAllForSuggestedValue(ctx, sourceID)
		if err != nil {
			return err
		}
		for _, association := range associations {
			if err := repos.PropertyValues.CreateIfAbsent(ctx, tracking.NewPropertyValue(association.PropertyID, targetID)); err != nil {
				return err
			}
			property, err := repos.Properties.FindByID(ctx, association.PropertyID)
			if err != nil {
				return err
			}
			result.TransferredProperties = append(result.TransferredProperties, property.Name)
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
			if payload.ReplaceValue(source.Value, target.Value) == 0 {
				continue
			}
			if err := event.SetPayload(payload); err != nil {
				return err
			}
			if err := repos.Events.Save(ctx, event); err != nil {
				return err
			}
			result.AffectedEvents++
		}

		commons, err := repos.CommonProperties.FindAllForProduct(ctx, productID)
		if err != nil {
			return err
		}
		for i := range commons {
			common := &commons[i]
			if common.SuggestedValueID != sourceID {
				continue
			}
			common.SetValue(targetID)
			if err := repos.CommonProperties.Save(ctx, common); err != nil {
				return err
			}
		}

		if err := repos.PropertyValues.DeleteForSuggestedValue(ctx, sourceID); err != nil {
			return err
		}
		return repos.SuggestedValues.Delete(ctx, sourceID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
