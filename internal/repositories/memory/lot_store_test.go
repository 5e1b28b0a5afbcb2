package memory

import (
	"context"
	"testing"

	"coffee-backend/internal/apperr"
	"coffee-backend/internal/models"
)

func lotFields(id string, bay int64, status string) models.LotFields {
	return models.LotFields{
		models.ColID:          id,
		models.ColBocaEntrada: bay,
		models.ColStatus:      status,
	}
}

func TestLotStoreActiveBayUnique(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewLotStore()

	if _, err := s.Insert(ctx, lotFields("a", 3, "active")); err != nil {
		t.Fatalf("insert a: %v", err)
	}
	_, err := s.Insert(ctx, lotFields("b", 3, "active"))
	if !apperr.Is(err, apperr.KindValidation) || err.Error() != models.BayInUseMessage(3) {
		t.Fatalf("insert b err = %v", err)
	}
	if _, err := s.Insert(ctx, lotFields("c", 3, "closed")); err != nil {
		t.Fatalf("inactive lot may share a bay: %v", err)
	}

	taken, _ := s.ActiveLotInBay(ctx, 3, "")
	if !taken {
		t.Fatal("bay 3 should be taken")
	}
	taken, _ = s.ActiveLotInBay(ctx, 3, "a")
	if taken {
		t.Fatal("bay 3 should be free when excluding its holder")
	}

	// Re-activating c would take a's bay.
	err = s.Update(ctx, "c", models.LotFields{models.ColStatus: "active"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("update c err = %v", err)
	}
}

func TestLotStoreReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewLotStore()

	lot, _ := s.Insert(ctx, lotFields("a", 1, "active"))
	closed := "closed"
	lot.Status = &closed

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsActive() {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestLotStoreNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewLotStore()

	if _, err := s.Get(ctx, "x"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Get err = %v", err)
	}
	if err := s.Update(ctx, "x", models.LotFields{"safra": "2024"}); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Update err = %v", err)
	}
	if err := s.Delete(ctx, "x"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Delete err = %v", err)
	}
}

func TestLotStoreListKeepsInsertOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewLotStore()

	for i, id := range []string{"c", "a", "b"} {
		if _, err := s.Insert(ctx, lotFields(id, int64(i+1), "active")); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	lots, _ := s.List(ctx)
	if len(lots) != 2 || lots[0].ID != "c" || lots[1].ID != "b" {
		t.Fatalf("lots = %v", lots)
	}
}
