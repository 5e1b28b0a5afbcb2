package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"coffee-backend/internal/apperr"
	"coffee-backend/internal/models"
	"coffee-backend/internal/services"
	"coffee-backend/pkg/utils"
)

// maxUploadBytes caps spreadsheet imports.
const maxUploadBytes = 10 << 20

// RegistryHandler serves one lookup registry. Producers carry a property;
// drivers do not, and their wire form omits it.
type RegistryHandler struct {
	Registry    *services.Registry
	HasProperty bool
}

func NewProducerHandler(r *services.Registry) *RegistryHandler {
	return &RegistryHandler{Registry: r, HasProperty: true}
}

func NewDriverHandler(r *services.Registry) *RegistryHandler {
	return &RegistryHandler{Registry: r}
}

func (h *RegistryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Registry.List(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = h.wire(e)
	}
	utils.JSON(w, http.StatusOK, out)
}

func (h *RegistryHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	entry, err := h.Registry.Create(r.Context(), req.NameValue(), req.PropertyValue())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, h.wire(entry))
}

func (h *RegistryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	if err := h.Registry.Delete(r.Context(), req.NameValue(), req.PropertyValue()); err != nil {
		utils.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import accepts a JSON array of {name, property} objects or a multipart
// .xlsx upload in the "file" field.
func (h *RegistryHandler) Import(w http.ResponseWriter, r *http.Request) {
	var (
		entries []models.RegistryRequest
		err     error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		entries, err = readUpload(w, r)
	} else {
		entries, err = decodeImportArray(r)
	}
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	summary, err := h.Registry.ImportBatch(r.Context(), entries)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"message":  fmt.Sprintf("import completed: %d added, %d already existed", summary.Added, summary.Existing),
		"added":    summary.Added,
		"existing": summary.Existing,
	})
}

func (h *RegistryHandler) decode(r *http.Request) (models.RegistryRequest, error) {
	var req models.RegistryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, apperr.Validation("invalid request body")
	}
	if !h.HasProperty {
		req.Property = nil
	}
	return req, nil
}

func (h *RegistryHandler) wire(e *models.RegistryEntry) any {
	if h.HasProperty {
		return models.Producer{ID: e.ID, Name: e.Name, Property: e.Property}
	}
	return models.Driver{ID: e.ID, Name: e.Name}
}

// decodeImportArray skips elements that are not objects or whose name is not
// a string.
func decodeImportArray(r *http.Request) ([]models.RegistryRequest, error) {
	const notArray = "request body must be a JSON array of objects with name and property"

	var items []json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		return nil, apperr.Validation(notArray)
	}
	// A null body decodes without error into a nil slice
	if items == nil {
		return nil, apperr.Validation(notArray)
	}

	entries := make([]models.RegistryRequest, 0, len(items))
	for _, item := range items {
		var e models.RegistryRequest
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readUpload(w http.ResponseWriter, r *http.Request) ([]models.RegistryRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, apperr.Validation("could not read uploaded file: %v", err)
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		return nil, apperr.Validation("only .xlsx files can be imported")
	}
	return services.ReadRegistrySheet(file)
}
