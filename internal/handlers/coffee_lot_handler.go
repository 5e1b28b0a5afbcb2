package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"coffee-backend/internal/apperr"
	"coffee-backend/internal/models"
	"coffee-backend/internal/services"
	"coffee-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type CoffeeLotHandler struct {
	Service *services.CoffeeLotService
	Tickets *services.TicketService
}

func NewCoffeeLotHandler(s *services.CoffeeLotService, tickets *services.TicketService) *CoffeeLotHandler {
	return &CoffeeLotHandler{Service: s, Tickets: tickets}
}

func (h *CoffeeLotHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.Service.List(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, lots)
}

func (h *CoffeeLotHandler) GetLot(w http.ResponseWriter, r *http.Request) {
	lot, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, lot)
}

func (h *CoffeeLotHandler) CreateLot(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeLotFields(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	lot, err := h.Service.Create(r.Context(), fields)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, lot)
}

func (h *CoffeeLotHandler) UpdateLot(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeLotFields(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	lot, err := h.Service.Update(r.Context(), mux.Vars(r)["id"], fields)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, lot)
}

func (h *CoffeeLotHandler) DeleteLot(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LotTicket serves the printable intake ticket.
func (h *CoffeeLotHandler) LotTicket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	pdf, err := h.Tickets.Ticket(r.Context(), id)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="ticket-%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func decodeLotFields(r *http.Request) (models.LotFields, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, apperr.Validation("invalid request body")
	}
	return models.ParseLotFields(raw)
}
