package models

import (
	"encoding/json"
	"testing"

	"coffee-backend/internal/apperr"
)

func decodeRaw(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return raw
}

func TestCoffeeLotColumnsOrder(t *testing.T) {
	t.Parallel()

	want := []string{
		"id", "lote_numero", "balanca", "caminhoneiro", "data_entrada",
		"qtd_lotes_veiculo", "boca_entrada", "situacao_cafe_veiculo", "safra",
		"nome_produtor", "nome_propriedade", "endereco", "telefone",
		"tipo_servico", "qtd_sacas", "peso_total_sacas_kg", "peso_total_bag_kg",
		"qtd_bags", "divisao_bags_kg", "peso_entrada_caminhao_kg", "fair_trade",
		"empresa", "status",
	}
	if len(CoffeeLotColumns) != len(want) {
		t.Fatalf("len(CoffeeLotColumns) = %d, want %d", len(CoffeeLotColumns), len(want))
	}
	var lot CoffeeLot
	for i, c := range CoffeeLotColumns {
		if c.Name != want[i] {
			t.Fatalf("column %d = %q, want %q", i, c.Name, want[i])
		}
		if lot.field(c.Name) == nil {
			t.Fatalf("column %q has no struct field", c.Name)
		}
	}
}

func TestParseLotFields(t *testing.T) {
	t.Parallel()

	raw := decodeRaw(t, `{
		"lote_numero": 1042,
		"data_entrada": "2024-03-15",
		"boca_entrada": "3",
		"peso_entrada_caminhao_kg": 15230.5,
		"fair_trade": true,
		"telefone": null,
		"unknown": "ignored"
	}`)

	fields, err := ParseLotFields(raw)
	if err != nil {
		t.Fatalf("ParseLotFields: %v", err)
	}
	if got, _ := fields.String("lote_numero"); got != "1042" {
		t.Fatalf("lote_numero = %q, want 1042", got)
	}
	if d, ok := fields[ColDataEntrada].(Date); !ok || d.String() != "2024-03-15" {
		t.Fatalf("data_entrada = %#v", fields[ColDataEntrada])
	}
	if bay := fields.Int(ColBocaEntrada); bay == nil || *bay != 3 {
		t.Fatalf("boca_entrada = %v, want 3", bay)
	}
	if got := fields["peso_entrada_caminhao_kg"]; got != 15230.5 {
		t.Fatalf("peso_entrada_caminhao_kg = %v", got)
	}
	if got, _ := fields.String("fair_trade"); got != "true" {
		t.Fatalf("fair_trade = %q", got)
	}
	if !fields.Has("telefone") || fields["telefone"] != nil {
		t.Fatalf("telefone should be present and null, got %#v", fields["telefone"])
	}
	if fields.Has("unknown") || fields.Has("status") {
		t.Fatalf("unexpected keys in %v", fields)
	}
}

func TestParseLotFieldsRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed date", body: `{"data_entrada": "15/03/2024"}`},
		{name: "impossible date", body: `{"data_entrada": "2024-02-30"}`},
		{name: "date as number", body: `{"data_entrada": 20240315}`},
		{name: "fractional bay", body: `{"boca_entrada": 2.5}`},
		{name: "bay as object", body: `{"boca_entrada": {"n": 1}}`},
		{name: "weight as text", body: `{"peso_total_bag_kg": "heavy"}`},
		{name: "text as bool", body: `{"safra": true}`},
		{name: "count beyond INTEGER", body: `{"qtd_sacas": 99999999999}`},
		{name: "negative beyond INTEGER", body: `{"qtd_bags": "-2147483649"}`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseLotFields(decodeRaw(t, tc.body))
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestParseLotFieldsEmptyDateIsNull(t *testing.T) {
	t.Parallel()

	fields, err := ParseLotFields(decodeRaw(t, `{"data_entrada": ""}`))
	if err != nil {
		t.Fatalf("ParseLotFields: %v", err)
	}
	if v, ok := fields[ColDataEntrada]; !ok || v != nil {
		t.Fatalf("data_entrada = %#v, want present null", v)
	}
}

func TestCoffeeLotJSONRoundTripKeepsDate(t *testing.T) {
	t.Parallel()

	fields, err := ParseLotFields(decodeRaw(t, `{"data_entrada": "2024-03-15", "qtd_sacas": 40}`))
	if err != nil {
		t.Fatalf("ParseLotFields: %v", err)
	}
	lot := &CoffeeLot{ID: "lot-1"}
	lot.Apply(fields)

	b, err := json.Marshal(lot)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["data_entrada"] != "2024-03-15" {
		t.Fatalf("data_entrada = %v, want 2024-03-15", out["data_entrada"])
	}
	if out["qtd_sacas"] != float64(40) {
		t.Fatalf("qtd_sacas = %v", out["qtd_sacas"])
	}
	if _, ok := out["empresa"]; !ok {
		t.Fatal("absent columns must still serialize as null")
	}
	if len(out) != len(CoffeeLotColumns) {
		t.Fatalf("serialized %d keys, want %d", len(out), len(CoffeeLotColumns))
	}
}

func TestApplyAndCloneAreIndependent(t *testing.T) {
	t.Parallel()

	lot := &CoffeeLot{ID: "lot-1"}
	lot.Apply(LotFields{"status": "active", "qtd_bags": int64(2), "id": "ignored"})
	if lot.ID != "lot-1" {
		t.Fatalf("Apply must not overwrite id, got %q", lot.ID)
	}

	clone := lot.Clone()
	clone.Apply(LotFields{"status": "closed"})
	if !lot.IsActive() {
		t.Fatal("mutating the clone changed the original")
	}
	if clone.QtdBags == nil || *clone.QtdBags != 2 {
		t.Fatalf("clone lost qtd_bags: %v", clone.QtdBags)
	}
}
