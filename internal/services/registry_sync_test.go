package services

import (
	"context"
	"errors"
	"testing"

	"coffee-backend/internal/models"
	"coffee-backend/internal/repositories/memory"
)

// brokenStore fails every write.
type brokenStore struct {
	*memory.RegistryStore
}

func (brokenStore) InsertIfAbsent(context.Context, string, string) (bool, error) {
	return false, errors.New("disk full")
}

func TestAfterLotWriteSwallowsErrors(t *testing.T) {
	t.Parallel()

	sync := NewRegistrySync(
		NewProducerRegistry(brokenStore{memory.NewProducerStore()}),
		NewDriverRegistry(brokenStore{memory.NewDriverStore()}),
	)
	lot := &models.CoffeeLot{ID: "a"}

	// Must not panic or block
	sync.AfterLotWrite(context.Background(), lot, models.LotFields{
		models.ColNomeProdutor: "Maria",
		models.ColCaminhoneiro: "João",
	})
}

func TestAfterLotWriteSkipsUnwrittenAndNull(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	producers := NewProducerRegistry(memory.NewProducerStore())
	drivers := NewDriverRegistry(memory.NewDriverStore())
	sync := NewRegistrySync(producers, drivers)

	name := "Maria"
	lot := &models.CoffeeLot{ID: "a", NomeProdutor: &name}

	// Producer present on the lot but not written in this request.
	sync.AfterLotWrite(ctx, lot, models.LotFields{models.ColCaminhoneiro: nil, "safra": "2024"})

	if list, _ := producers.List(ctx); len(list) != 0 {
		t.Fatalf("producers = %+v", list)
	}
	if list, _ := drivers.List(ctx); len(list) != 0 {
		t.Fatalf("drivers = %+v", list)
	}
}
