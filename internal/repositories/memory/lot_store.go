// Package memory holds mutex-guarded in-memory stores with the same method
// sets and uniqueness rules as the PostgreSQL repositories.
package memory

import (
	"context"
	"sync"

	"coffee-backend/internal/apperr"
	"coffee-backend/internal/models"
)

type LotStore struct {
	mu    sync.RWMutex
	lots  map[string]*models.CoffeeLot
	order []string
}

func NewLotStore() *LotStore {
	return &LotStore{lots: make(map[string]*models.CoffeeLot)}
}

func (s *LotStore) Insert(_ context.Context, f models.LotFields) (*models.CoffeeLot, error) {
	id, _ := f.String(models.ColID)
	if id == "" {
		return nil, apperr.Validation("id is required")
	}

	lot := &models.CoffeeLot{ID: id}
	lot.Apply(f)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lots[id]; exists {
		return nil, apperr.Conflict("coffee lot %s already exists", id)
	}
	if err := s.checkBayLocked(lot); err != nil {
		return nil, err
	}
	s.lots[id] = lot
	s.order = append(s.order, id)
	return lot.Clone(), nil
}

func (s *LotStore) Get(_ context.Context, id string) (*models.CoffeeLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lot, ok := s.lots[id]
	if !ok {
		return nil, apperr.NotFound("coffee lot not found")
	}
	return lot.Clone(), nil
}

func (s *LotStore) List(_ context.Context) ([]*models.CoffeeLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lots := make([]*models.CoffeeLot, 0, len(s.order))
	for _, id := range s.order {
		lots = append(lots, s.lots[id].Clone())
	}
	return lots, nil
}

func (s *LotStore) Update(_ context.Context, id string, f models.LotFields) error {
	updatable := false
	for name := range f {
		if name != models.ColID {
			updatable = true
			break
		}
	}
	if !updatable {
		return apperr.Validation("no fields provided for update")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.lots[id]
	if !ok {
		return apperr.NotFound("coffee lot not found")
	}
	next := current.Clone()
	next.Apply(f)
	if err := s.checkBayLocked(next); err != nil {
		return err
	}
	s.lots[id] = next
	return nil
}

func (s *LotStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lots[id]; !ok {
		return apperr.NotFound("coffee lot not found")
	}
	delete(s.lots, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *LotStore) ActiveLotInBay(_ context.Context, bay int, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.occupiedLocked(int64(bay), excludeID), nil
}

// checkBayLocked mirrors the partial unique index on active entry bays.
func (s *LotStore) checkBayLocked(lot *models.CoffeeLot) error {
	if !lot.IsActive() || lot.BocaEntrada == nil {
		return nil
	}
	if s.occupiedLocked(*lot.BocaEntrada, lot.ID) {
		return apperr.Validation("%s", models.BayInUseMessage(int(*lot.BocaEntrada)))
	}
	return nil
}

func (s *LotStore) occupiedLocked(bay int64, excludeID string) bool {
	for id, lot := range s.lots {
		if id == excludeID || !lot.IsActive() || lot.BocaEntrada == nil {
			continue
		}
		if *lot.BocaEntrada == bay {
			return true
		}
	}
	return false
}
