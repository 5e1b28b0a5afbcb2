package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"coffee-backend/internal/apperr"
	"coffee-backend/internal/models"
	"coffee-backend/internal/repositories/memory"
)

type fixture struct {
	lots      *CoffeeLotService
	producers *Registry
	drivers   *Registry
}

func newFixture() *fixture {
	producers := NewProducerRegistry(memory.NewProducerStore())
	drivers := NewDriverRegistry(memory.NewDriverStore())
	return &fixture{
		lots:      NewCoffeeLotService(memory.NewLotStore(), NewRegistrySync(producers, drivers)),
		producers: producers,
		drivers:   drivers,
	}
}

func parse(t *testing.T, body string) models.LotFields {
	t.Helper()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatal(err)
	}
	f, err := models.ParseLotFields(raw)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestCreateAssignsIDAndDefaultStatus(t *testing.T) {
	t.Parallel()
	f := newFixture()

	lot, err := f.lots.Create(context.Background(), parse(t, `{"id":"client","boca_entrada":2,"data_entrada":"2024-03-15"}`))
	if err != nil {
		t.Fatal(err)
	}
	if lot.ID == "" || lot.ID == "client" {
		t.Fatalf("id = %q", lot.ID)
	}
	if !lot.IsActive() {
		t.Fatalf("status = %v", lot.Status)
	}

	out, _ := json.Marshal(lot)
	if !bytes.Contains(out, []byte(`"data_entrada":"2024-03-15"`)) {
		t.Fatalf("date did not round trip: %s", out)
	}
	if !bytes.Contains(out, []byte(`"telefone":null`)) {
		t.Fatalf("absent fields must serialize as null: %s", out)
	}
}

func TestCreateNullStatusDefaultsActive(t *testing.T) {
	t.Parallel()
	f := newFixture()

	lot, err := f.lots.Create(context.Background(), parse(t, `{"boca_entrada":2,"status":null}`))
	if err != nil {
		t.Fatal(err)
	}
	if !lot.IsActive() {
		t.Fatalf("status = %v", lot.Status)
	}
}

func TestCreateRejectsBadBay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()

	for _, body := range []string{`{}`, `{"boca_entrada":null}`, `{"boca_entrada":0}`, `{"boca_entrada":9}`} {
		_, err := f.lots.Create(ctx, parse(t, body))
		if !apperr.Is(err, apperr.KindValidation) || err.Error() != models.BayRangeMessage {
			t.Errorf("%s: err = %v", body, err)
		}
	}

	if _, err := f.lots.Create(ctx, parse(t, `{"boca_entrada":4}`)); err != nil {
		t.Fatal(err)
	}
	_, err := f.lots.Create(ctx, parse(t, `{"boca_entrada":4}`))
	if !apperr.Is(err, apperr.KindValidation) || err.Error() != models.BayInUseMessage(4) {
		t.Fatalf("second lot in bay 4: err = %v", err)
	}

	// Occupancy is checked whatever the new lot's status.
	if _, err := f.lots.Create(ctx, parse(t, `{"boca_entrada":4,"status":"closed"}`)); err == nil {
		t.Fatal("bay validation applies to every create")
	}

	lots, _ := f.lots.List(ctx)
	if len(lots) != 1 {
		t.Fatalf("rejected creates wrote lots: %d", len(lots))
	}
}

func TestCreateRegistersProducerAndDriver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()

	body := `{"boca_entrada":1,"nome_produtor":" Maria ","nome_propriedade":"Sítio","caminhoneiro":"João"}`
	if _, err := f.lots.Create(ctx, parse(t, body)); err != nil {
		t.Fatal(err)
	}

	producers, _ := f.producers.List(ctx)
	if len(producers) != 1 || producers[0].Name != "Maria" || producers[0].Property != "Sítio" {
		t.Fatalf("producers = %+v", producers)
	}
	drivers, _ := f.drivers.List(ctx)
	if len(drivers) != 1 || drivers[0].Name != "João" {
		t.Fatalf("drivers = %+v", drivers)
	}
}

func TestUpdateStatusOnlyKeepsOtherFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()

	lot, err := f.lots.Create(ctx, parse(t, `{"boca_entrada":3,"safra":"2024","qtd_sacas":"40","data_entrada":"2024-03-15"}`))
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.lots.Update(ctx, lot.ID, parse(t, `{"status":"closed"}`))
	if err != nil {
		t.Fatal(err)
	}
	if updated.IsActive() || *updated.Status != "closed" {
		t.Fatalf("status = %v", updated.Status)
	}
	if *updated.Safra != "2024" || *updated.QtdSacas != 40 || *updated.BocaEntrada != 3 ||
		updated.DataEntrada.String() != "2024-03-15" {
		t.Fatalf("other fields changed: %+v", updated)
	}

	// The bay is now free for a new active lot.
	if _, err := f.lots.Create(ctx, parse(t, `{"boca_entrada":3}`)); err != nil {
		t.Fatalf("bay 3 should be free: %v", err)
	}
	// Re-activating the closed lot would steal it back.
	_, err = f.lots.Update(ctx, lot.ID, parse(t, `{"status":"active"}`))
	if !apperr.Is(err, apperr.KindValidation) || err.Error() != models.BayInUseMessage(3) {
		t.Fatalf("reactivate err = %v", err)
	}
}

func TestUpdateBayExcludesSelf(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()

	a, _ := f.lots.Create(ctx, parse(t, `{"boca_entrada":6}`))
	b, _ := f.lots.Create(ctx, parse(t, `{"boca_entrada":7}`))

	if _, err := f.lots.Update(ctx, a.ID, parse(t, `{"boca_entrada":6,"safra":"2025"}`)); err != nil {
		t.Fatalf("keeping own bay: %v", err)
	}
	_, err := f.lots.Update(ctx, b.ID, parse(t, `{"boca_entrada":6}`))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("taking a's bay: err = %v", err)
	}
	_, err = f.lots.Update(ctx, b.ID, parse(t, `{"boca_entrada":12}`))
	if !apperr.Is(err, apperr.KindValidation) || err.Error() != models.BayRangeMessage {
		t.Fatalf("out of range: err = %v", err)
	}
}

func TestUpdateErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()

	lot, _ := f.lots.Create(ctx, parse(t, `{"boca_entrada":1}`))

	if _, err := f.lots.Update(ctx, lot.ID, parse(t, `{"id":"x","unknown":1}`)); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("empty update err = %v", err)
	}
	if _, err := f.lots.Update(ctx, "missing", parse(t, `{"safra":"2024"}`)); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("missing lot err = %v", err)
	}
}

func TestUpdateRegistersDriverOnlyWhenWritten(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()

	lot, _ := f.lots.Create(ctx, parse(t, `{"boca_entrada":1}`))
	if _, err := f.lots.Update(ctx, lot.ID, parse(t, `{"caminhoneiro":"Pedro"}`)); err != nil {
		t.Fatal(err)
	}

	drivers, _ := f.drivers.List(ctx)
	producers, _ := f.producers.List(ctx)
	if len(drivers) != 1 || len(producers) != 0 {
		t.Fatalf("drivers=%+v producers=%+v", drivers, producers)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture()

	lot, _ := f.lots.Create(ctx, parse(t, `{"boca_entrada":1}`))
	if err := f.lots.Delete(ctx, lot.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.lots.Get(ctx, lot.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("get after delete err = %v", err)
	}
	if err := f.lots.Delete(ctx, lot.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}
