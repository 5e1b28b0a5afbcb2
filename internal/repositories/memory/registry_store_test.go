package memory

import (
	"context"
	"testing"

	"coffee-backend/internal/apperr"
)

func TestRegistryStoreNormalizedKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewProducerStore()

	added, err := s.InsertIfAbsent(ctx, "Maria", "Farm")
	if err != nil || !added {
		t.Fatalf("first insert added=%v err=%v", added, err)
	}
	added, _ = s.InsertIfAbsent(ctx, "  MARIA ", "farm ")
	if added {
		t.Fatal("normalized duplicate was inserted")
	}
	added, _ = s.InsertIfAbsent(ctx, "Maria", "")
	if !added {
		t.Fatal("different property should be a distinct producer")
	}

	if _, err := s.Insert(ctx, "maria", "FARM"); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("Insert err = %v", err)
	}
	if err := s.Delete(ctx, "mAria", "fArm"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "maria", "farm"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("second Delete err = %v", err)
	}
}

func TestDriverStoreIgnoresProperty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewDriverStore()

	e, err := s.Insert(ctx, "João", "ignored")
	if err != nil {
		t.Fatal(err)
	}
	if e.Property != "" || e.ID == "" {
		t.Fatalf("entry = %+v", e)
	}
	if added, _ := s.InsertIfAbsent(ctx, "joão", "other"); added {
		t.Fatal("drivers are unique by name alone")
	}
}

func TestRegistryStoreListSorted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewDriverStore()

	for _, n := range []string{"Zeca", "Ana", "Bruno"} {
		s.InsertIfAbsent(ctx, n, "")
	}
	list, _ := s.List(ctx)
	if len(list) != 3 || list[0].Name != "Ana" || list[1].Name != "Bruno" || list[2].Name != "Zeca" {
		t.Fatalf("list = %+v", list)
	}
}
