package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"coffee-backend/internal/apperr"
)

// ColumnKind is the storage/wire type of a coffee lot column.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInt
	KindFloat
	KindDate
	// KindFlag is stored as text but also accepts JSON booleans.
	KindFlag
)

// Column describes one coffee_lots column.
type Column struct {
	Name    string
	Kind    ColumnKind
	SQLType string
}

// CoffeeLotColumns is the fixed column order of coffee_lots. Table creation,
// INSERT, UPDATE and row scanning all walk this slice so positions never drift.
var CoffeeLotColumns = []Column{
	{Name: "id", Kind: KindText, SQLType: "VARCHAR(255) PRIMARY KEY"},
	{Name: "lote_numero", Kind: KindText, SQLType: "VARCHAR(255)"},
	{Name: "balanca", Kind: KindText, SQLType: "VARCHAR(255)"},
	{Name: "caminhoneiro", Kind: KindText, SQLType: "VARCHAR(255)"},
	{Name: "data_entrada", Kind: KindDate, SQLType: "DATE"},
	{Name: "qtd_lotes_veiculo", Kind: KindInt, SQLType: "INTEGER"},
	{Name: "boca_entrada", Kind: KindInt, SQLType: "INTEGER"},
	{Name: "situacao_cafe_veiculo", Kind: KindText, SQLType: "VARCHAR(255)"},
	{Name: "safra", Kind: KindText, SQLType: "VARCHAR(255)"},
	{Name: "nome_produtor", Kind: KindText, SQLType: "VARCHAR(255)"},
	{Name: "nome_propriedade", Kind: KindText, SQLType: "VARCHAR(255)"},
	{Name: "endereco", Kind: KindText, SQLType: "VARCHAR(255)"},
	{Name: "telefone", Kind: KindText, SQLType: "VARCHAR(255)"},
	{Name: "tipo_servico", Kind: KindText, SQLType: "VARCHAR(255)"},
	{Name: "qtd_sacas", Kind: KindInt, SQLType: "INTEGER"},
	{Name: "peso_total_sacas_kg", Kind: KindFloat, SQLType: "DOUBLE PRECISION"},
	{Name: "peso_total_bag_kg", Kind: KindFloat, SQLType: "DOUBLE PRECISION"},
	{Name: "qtd_bags", Kind: KindInt, SQLType: "INTEGER"},
	{Name: "divisao_bags_kg", Kind: KindFloat, SQLType: "DOUBLE PRECISION"},
	{Name: "peso_entrada_caminhao_kg", Kind: KindFloat, SQLType: "DOUBLE PRECISION"},
	{Name: "fair_trade", Kind: KindFlag, SQLType: "VARCHAR(255)"},
	{Name: "empresa", Kind: KindText, SQLType: "VARCHAR(255)"},
	{Name: "status", Kind: KindText, SQLType: "VARCHAR(50) DEFAULT 'active'"},
}

// Column names used by business rules.
const (
	ColID              = "id"
	ColCaminhoneiro    = "caminhoneiro"
	ColDataEntrada     = "data_entrada"
	ColBocaEntrada     = "boca_entrada"
	ColNomeProdutor    = "nome_produtor"
	ColNomePropriedade = "nome_propriedade"
	ColStatus          = "status"
)

// StatusActive is the only status subject to entry bay exclusivity.
const StatusActive = "active"

// CoffeeLot is one intake record.
type CoffeeLot struct {
	ID                    string   `json:"id"`
	LoteNumero            *string  `json:"lote_numero"`
	Balanca               *string  `json:"balanca"`
	Caminhoneiro          *string  `json:"caminhoneiro"`
	DataEntrada           *Date    `json:"data_entrada"`
	QtdLotesVeiculo       *int64   `json:"qtd_lotes_veiculo"`
	BocaEntrada           *int64   `json:"boca_entrada"`
	SituacaoCafeVeiculo   *string  `json:"situacao_cafe_veiculo"`
	Safra                 *string  `json:"safra"`
	NomeProdutor          *string  `json:"nome_produtor"`
	NomePropriedade       *string  `json:"nome_propriedade"`
	Endereco              *string  `json:"endereco"`
	Telefone              *string  `json:"telefone"`
	TipoServico           *string  `json:"tipo_servico"`
	QtdSacas              *int64   `json:"qtd_sacas"`
	PesoTotalSacasKg      *float64 `json:"peso_total_sacas_kg"`
	PesoTotalBagKg        *float64 `json:"peso_total_bag_kg"`
	QtdBags               *int64   `json:"qtd_bags"`
	DivisaoBagsKg         *float64 `json:"divisao_bags_kg"`
	PesoEntradaCaminhaoKg *float64 `json:"peso_entrada_caminhao_kg"`
	FairTrade             *string  `json:"fair_trade"`
	Empresa               *string  `json:"empresa"`
	Status                *string  `json:"status"`
}

// IsActive reports whether the lot holds its entry bay exclusively.
func (l *CoffeeLot) IsActive() bool {
	return l.Status != nil && *l.Status == StatusActive
}

// ScanTargets returns pointers to every field in CoffeeLotColumns order.
func (l *CoffeeLot) ScanTargets() []any {
	targets := make([]any, len(CoffeeLotColumns))
	for i, c := range CoffeeLotColumns {
		targets[i] = l.field(c.Name)
	}
	return targets
}

func (l *CoffeeLot) field(name string) any {
	switch name {
	case "id":
		return &l.ID
	case "lote_numero":
		return &l.LoteNumero
	case "balanca":
		return &l.Balanca
	case "caminhoneiro":
		return &l.Caminhoneiro
	case "data_entrada":
		return &l.DataEntrada
	case "qtd_lotes_veiculo":
		return &l.QtdLotesVeiculo
	case "boca_entrada":
		return &l.BocaEntrada
	case "situacao_cafe_veiculo":
		return &l.SituacaoCafeVeiculo
	case "safra":
		return &l.Safra
	case "nome_produtor":
		return &l.NomeProdutor
	case "nome_propriedade":
		return &l.NomePropriedade
	case "endereco":
		return &l.Endereco
	case "telefone":
		return &l.Telefone
	case "tipo_servico":
		return &l.TipoServico
	case "qtd_sacas":
		return &l.QtdSacas
	case "peso_total_sacas_kg":
		return &l.PesoTotalSacasKg
	case "peso_total_bag_kg":
		return &l.PesoTotalBagKg
	case "qtd_bags":
		return &l.QtdBags
	case "divisao_bags_kg":
		return &l.DivisaoBagsKg
	case "peso_entrada_caminhao_kg":
		return &l.PesoEntradaCaminhaoKg
	case "fair_trade":
		return &l.FairTrade
	case "empresa":
		return &l.Empresa
	case "status":
		return &l.Status
	}
	return nil
}

// Apply copies the present values of f onto l. The id column is never applied.
func (l *CoffeeLot) Apply(f LotFields) {
	for _, c := range CoffeeLotColumns {
		v, ok := f[c.Name]
		if !ok || c.Name == ColID {
			continue
		}
		switch p := l.field(c.Name).(type) {
		case **string:
			if s, ok := v.(string); ok {
				*p = &s
			} else {
				*p = nil
			}
		case **int64:
			if n, ok := v.(int64); ok {
				*p = &n
			} else {
				*p = nil
			}
		case **float64:
			if n, ok := v.(float64); ok {
				*p = &n
			} else {
				*p = nil
			}
		case **Date:
			if d, ok := v.(Date); ok {
				*p = &d
			} else {
				*p = nil
			}
		}
	}
}

// Clone returns a deep copy of l.
func (l *CoffeeLot) Clone() *CoffeeLot {
	out := &CoffeeLot{ID: l.ID}
	out.Apply(l.Fields())
	return out
}

// Fields returns every non-id column of l as LotFields.
func (l *CoffeeLot) Fields() LotFields {
	f := make(LotFields, len(CoffeeLotColumns))
	for _, c := range CoffeeLotColumns {
		if c.Name == ColID {
			continue
		}
		switch p := l.field(c.Name).(type) {
		case **string:
			f[c.Name] = derefAny(*p)
		case **int64:
			f[c.Name] = derefAny(*p)
		case **float64:
			f[c.Name] = derefAny(*p)
		case **Date:
			f[c.Name] = derefAny(*p)
		}
	}
	return f
}

func derefAny[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// LotFields holds typed column values keyed by column name. Values are
// string, int64, float64, Date or nil (SQL NULL). Absent keys are not written.
type LotFields map[string]any

// Has reports whether the column is present (possibly as null).
func (f LotFields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// String returns the text value of a column; ok is false when absent or null.
func (f LotFields) String(name string) (string, bool) {
	s, ok := f[name].(string)
	return s, ok
}

// Int returns the integer value of a column; nil when absent or null.
func (f LotFields) Int(name string) *int64 {
	n, ok := f[name].(int64)
	if !ok {
		return nil
	}
	return &n
}

// Args returns the values for the given columns, in order.
func (f LotFields) Args(cols []Column) []any {
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = f[c.Name]
	}
	return args
}

// ParseLotFields converts a decoded JSON object into typed LotFields. Only
// known columns present in raw are returned; unknown keys are ignored.
func ParseLotFields(raw map[string]json.RawMessage) (LotFields, error) {
	fields := make(LotFields, len(raw))
	for _, c := range CoffeeLotColumns {
		msg, ok := raw[c.Name]
		if !ok {
			continue
		}
		v, err := parseColumn(c, msg)
		if err != nil {
			return nil, err
		}
		fields[c.Name] = v
	}
	return fields, nil
}

func parseColumn(c Column, msg json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, apperr.Validation("invalid value for %s", c.Name)
	}
	if v == nil {
		return nil, nil
	}

	switch c.Kind {
	case KindText:
		switch t := v.(type) {
		case string:
			return t, nil
		case json.Number:
			return t.String(), nil
		}
		return nil, apperr.Validation("%s must be a string", c.Name)

	case KindFlag:
		switch t := v.(type) {
		case string:
			return t, nil
		case bool:
			return strconv.FormatBool(t), nil
		case json.Number:
			return t.String(), nil
		}
		return nil, apperr.Validation("%s must be a string or boolean", c.Name)

	case KindInt:
		s, ok := numberText(v)
		if !ok {
			return nil, apperr.Validation("%s must be an integer", c.Name)
		}
		if s == "" {
			return nil, nil
		}
		// Columns are INTEGER
		n, err := strconv.ParseInt(s, 10, 32)
		if errors.Is(err, strconv.ErrRange) {
			return nil, apperr.Validation("%s is out of range", c.Name)
		}
		if err != nil {
			return nil, apperr.Validation("%s must be an integer", c.Name)
		}
		return n, nil

	case KindFloat:
		s, ok := numberText(v)
		if !ok {
			return nil, apperr.Validation("%s must be a number", c.Name)
		}
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, apperr.Validation("%s must be a number", c.Name)
		}
		return n, nil

	case KindDate:
		s, ok := v.(string)
		if !ok {
			return nil, apperr.Validation("invalid date format for %s, use YYYY-MM-DD", c.Name)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		d, err := ParseDate(s)
		if err != nil {
			return nil, apperr.Validation("invalid date format for %s, use YYYY-MM-DD", c.Name)
		}
		return d, nil
	}
	return nil, apperr.Validation("unsupported column %s", c.Name)
}

// numberText accepts JSON numbers and numeric strings (HTML forms send both).
func numberText(v any) (string, bool) {
	switch t := v.(type) {
	case json.Number:
		return t.String(), true
	case string:
		return strings.TrimSpace(t), true
	}
	return "", false
}

// Entry bay bounds.
const (
	MinBay = 1
	MaxBay = 8
)

// BayRangeMessage is returned when a bay number is missing or out of range.
var BayRangeMessage = fmt.Sprintf("entry bay must be between %d and %d", MinBay, MaxBay)

// BayTakenMessage is used when the held bay number is not known.
const BayTakenMessage = "entry bay is already in use by an active lot"

// BayInUseMessage is returned when an active lot already holds the bay.
func BayInUseMessage(bay int) string {
	return fmt.Sprintf("entry bay %d is already in use by an active lot", bay)
}
