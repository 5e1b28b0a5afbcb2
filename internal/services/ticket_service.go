package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"coffee-backend/internal/models"
	"coffee-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// TicketService renders the intake ticket handed to the driver at the scale.
type TicketService struct {
	Lots     LotRepository
	Facility string
}

func NewTicketService(lots LotRepository, facility string) *TicketService {
	return &TicketService{Lots: lots, Facility: facility}
}

// Ticket returns the PDF ticket for a lot.
func (s *TicketService) Ticket(ctx context.Context, id string) ([]byte, error) {
	lot, err := s.Lots.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(lot)
}

func (s *TicketService) render(lot *models.CoffeeLot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, tr(s.Facility), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, tr("Ticket de Entrada de Café"), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Emitido: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	section := func(title string, rows [][2]string) {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, tr(title), "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 11)
		for _, row := range rows {
			pdf.CellFormat(70, 7, tr(row[0]), "LB", 0, "L", false, 0, "")
			pdf.CellFormat(120, 7, tr(row[1]), "RB", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	section("Lote", [][2]string{
		{"Lote", text(lot.LoteNumero)},
		{"Data de entrada", dateText(lot.DataEntrada)},
		{"Boca de entrada", intText(lot.BocaEntrada)},
		{"Safra", text(lot.Safra)},
		{"Status", text(lot.Status)},
	})
	section("Produtor", [][2]string{
		{"Produtor", text(lot.NomeProdutor)},
		{"Propriedade", text(lot.NomePropriedade)},
		{"Endereço", text(lot.Endereco)},
		{"Telefone", text(lot.Telefone)},
		{"Fair trade", text(lot.FairTrade)},
	})
	section("Veículo", [][2]string{
		{"Caminhoneiro", text(lot.Caminhoneiro)},
		{"Balança", text(lot.Balanca)},
		{"Lotes no veículo", intText(lot.QtdLotesVeiculo)},
		{"Situação do café", text(lot.SituacaoCafeVeiculo)},
		{"Peso de entrada (kg)", floatText(lot.PesoEntradaCaminhaoKg)},
	})
	section("Pesagem", [][2]string{
		{"Sacas", intText(lot.QtdSacas)},
		{"Peso total sacas (kg)", floatText(lot.PesoTotalSacasKg)},
		{"Bags", intText(lot.QtdBags)},
		{"Peso total bags (kg)", floatText(lot.PesoTotalBagKg)},
		{"Divisão bags (kg)", floatText(lot.DivisaoBagsKg)},
	})

	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(190, 5, "ID: "+lot.ID, "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket: %w", err)
	}
	return buf.Bytes(), nil
}

func text(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func intText(n *int64) string {
	if n == nil {
		return "-"
	}
	return strconv.FormatInt(*n, 10)
}

func floatText(n *float64) string {
	if n == nil {
		return "-"
	}
	return strconv.FormatFloat(*n, 'f', 2, 64)
}

func dateText(d *models.Date) string {
	if d == nil {
		return "-"
	}
	return d.Format(timeutil.DayLayout)
}
