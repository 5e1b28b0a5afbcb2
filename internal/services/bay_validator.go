package services

import (
	"context"

	"coffee-backend/internal/metrics"
	"coffee-backend/internal/models"
)

// BayOccupancy answers whether an active lot holds an entry bay.
type BayOccupancy interface {
	ActiveLotInBay(ctx context.Context, bay int, excludeID string) (bool, error)
}

// BayValidation is the outcome of an entry bay check. Message is empty when
// Valid is true.
type BayValidation struct {
	Valid   bool
	Message string
}

type BayValidator struct {
	Lots BayOccupancy
}

func NewBayValidator(lots BayOccupancy) *BayValidator {
	return &BayValidator{Lots: lots}
}

// Validate checks that bay is in range and not held by another active lot.
// excludeID is the lot being updated, or "" on create. Store failures are
// returned as errors, never as an invalid result.
func (v *BayValidator) Validate(ctx context.Context, bay *int, excludeID string) (BayValidation, error) {
	if bay == nil || *bay < models.MinBay || *bay > models.MaxBay {
		metrics.EntryBayRejections.Inc()
		return BayValidation{Message: models.BayRangeMessage}, nil
	}

	taken, err := v.Lots.ActiveLotInBay(ctx, *bay, excludeID)
	if err != nil {
		return BayValidation{}, err
	}
	if taken {
		metrics.EntryBayRejections.Inc()
		return BayValidation{Message: models.BayInUseMessage(*bay)}, nil
	}
	return BayValidation{Valid: true}, nil
}

// bayFromFields returns the entry bay, or nil when absent or null.
func bayFromFields(f models.LotFields) *int {
	n := f.Int(models.ColBocaEntrada)
	if n == nil {
		return nil
	}
	bay := int(*n)
	return &bay
}
