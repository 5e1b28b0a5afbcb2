package services

import (
	"context"

	"coffee-backend/internal/apperr"
	"coffee-backend/internal/metrics"
	"coffee-backend/internal/models"

	"github.com/google/uuid"
)

// LotRepository is implemented by repositories.CoffeeLotRepository and
// memory.LotStore.
type LotRepository interface {
	BayOccupancy
	Insert(ctx context.Context, f models.LotFields) (*models.CoffeeLot, error)
	Get(ctx context.Context, id string) (*models.CoffeeLot, error)
	List(ctx context.Context) ([]*models.CoffeeLot, error)
	Update(ctx context.Context, id string, f models.LotFields) error
	Delete(ctx context.Context, id string) error
}

type CoffeeLotService struct {
	Repo      LotRepository
	Validator *BayValidator
	Sync      *RegistrySync
}

func NewCoffeeLotService(repo LotRepository, sync *RegistrySync) *CoffeeLotService {
	return &CoffeeLotService{
		Repo:      repo,
		Validator: NewBayValidator(repo),
		Sync:      sync,
	}
}

// Create stores a new lot under a fresh id. Any client-supplied id is
// replaced and status defaults to active.
func (s *CoffeeLotService) Create(ctx context.Context, f models.LotFields) (*models.CoffeeLot, error) {
	if err := s.checkBay(ctx, bayFromFields(f), ""); err != nil {
		return nil, err
	}

	f = cloneFields(f)
	f[models.ColID] = uuid.NewString()
	if _, ok := f.String(models.ColStatus); !ok {
		f[models.ColStatus] = models.StatusActive
	}

	lot, err := s.Repo.Insert(ctx, f)
	if err != nil {
		return nil, err
	}
	metrics.CoffeeLotsWritten.WithLabelValues("create").Inc()

	s.Sync.AfterLotWrite(ctx, lot, f)
	return lot, nil
}

func (s *CoffeeLotService) Get(ctx context.Context, id string) (*models.CoffeeLot, error) {
	return s.Repo.Get(ctx, id)
}

func (s *CoffeeLotService) List(ctx context.Context) ([]*models.CoffeeLot, error) {
	return s.Repo.List(ctx)
}

// Update writes only the fields present in f. A supplied entry bay is fully
// validated; otherwise a lot that ends up active must still own its bay.
func (s *CoffeeLotService) Update(ctx context.Context, id string, f models.LotFields) (*models.CoffeeLot, error) {
	f = cloneFields(f)
	delete(f, models.ColID)
	if len(f) == 0 {
		return nil, apperr.Validation("no fields provided for update")
	}

	if f.Has(models.ColBocaEntrada) {
		if err := s.checkBay(ctx, bayFromFields(f), id); err != nil {
			return nil, err
		}
	} else {
		current, err := s.Repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		next := current.Clone()
		next.Apply(f)
		if next.IsActive() && next.BocaEntrada != nil {
			bay := int(*next.BocaEntrada)
			if err := s.checkBay(ctx, &bay, id); err != nil {
				return nil, err
			}
		}
	}

	if err := s.Repo.Update(ctx, id, f); err != nil {
		return nil, err
	}
	metrics.CoffeeLotsWritten.WithLabelValues("update").Inc()

	lot, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Sync.AfterLotWrite(ctx, lot, f)
	return lot, nil
}

func (s *CoffeeLotService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.CoffeeLotsWritten.WithLabelValues("delete").Inc()
	return nil
}

func (s *CoffeeLotService) checkBay(ctx context.Context, bay *int, excludeID string) error {
	result, err := s.Validator.Validate(ctx, bay, excludeID)
	if err != nil {
		return err
	}
	if !result.Valid {
		return apperr.Validation("%s", result.Message)
	}
	return nil
}

func cloneFields(f models.LotFields) models.LotFields {
	out := make(models.LotFields, len(f)+2)
	for k, v := range f {
		out[k] = v
	}
	return out
}
