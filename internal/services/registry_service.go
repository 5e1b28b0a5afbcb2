package services

import (
	"context"
	"strings"

	"coffee-backend/internal/apperr"
	"coffee-backend/internal/metrics"
	"coffee-backend/internal/models"
)

// RegistryStore is implemented by repositories.RegistryRepository and
// memory.RegistryStore. Names and properties are passed trimmed.
type RegistryStore interface {
	InsertIfAbsent(ctx context.Context, name, property string) (bool, error)
	Exists(ctx context.Context, name, property string) (bool, error)
	Insert(ctx context.Context, name, property string) (*models.RegistryEntry, error)
	Delete(ctx context.Context, name, property string) error
	List(ctx context.Context) ([]*models.RegistryEntry, error)
}

// Registry is a lookup list of names (drivers) or name/property pairs
// (producers), unique by normalized key.
type Registry struct {
	Store RegistryStore
	Name  string
	Label string
}

func NewRegistry(store RegistryStore, name, label string) *Registry {
	return &Registry{Store: store, Name: name, Label: label}
}

func NewProducerRegistry(store RegistryStore) *Registry {
	return NewRegistry(store, "producers", "producer")
}

func NewDriverRegistry(store RegistryStore) *Registry {
	return NewRegistry(store, "drivers", "driver")
}

// UpsertIfAbsent adds the entry unless its normalized key exists. An empty
// name is a no-op. It reports whether a row was added.
func (r *Registry) UpsertIfAbsent(ctx context.Context, name, property string) (bool, error) {
	name, property = strings.TrimSpace(name), strings.TrimSpace(property)
	if name == "" {
		return false, nil
	}
	added, err := r.Store.InsertIfAbsent(ctx, name, property)
	if err != nil {
		return false, err
	}
	if added {
		metrics.RegistryInserts.WithLabelValues(r.Name).Inc()
	}
	return added, nil
}

// Create adds a new entry, failing with a conflict if it already exists.
func (r *Registry) Create(ctx context.Context, name, property string) (*models.RegistryEntry, error) {
	name, property = strings.TrimSpace(name), strings.TrimSpace(property)
	if name == "" {
		return nil, apperr.Validation("%s name is required", r.Label)
	}

	exists, err := r.Store.Exists(ctx, name, property)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("%s already exists", r.Label)
	}

	// A concurrent insert still surfaces as a conflict from the store.
	entry, err := r.Store.Insert(ctx, name, property)
	if err != nil {
		return nil, err
	}
	metrics.RegistryInserts.WithLabelValues(r.Name).Inc()
	return entry, nil
}

func (r *Registry) Delete(ctx context.Context, name, property string) error {
	name, property = strings.TrimSpace(name), strings.TrimSpace(property)
	if name == "" {
		return apperr.Validation("%s name is required", r.Label)
	}
	return r.Store.Delete(ctx, name, property)
}

func (r *Registry) List(ctx context.Context) ([]*models.RegistryEntry, error) {
	return r.Store.List(ctx)
}

// ImportBatch upserts every entry with a non-empty name. Entries without a
// name are counted in neither total.
func (r *Registry) ImportBatch(ctx context.Context, entries []models.RegistryRequest) (models.ImportSummary, error) {
	var summary models.ImportSummary
	for _, e := range entries {
		if strings.TrimSpace(e.NameValue()) == "" {
			continue
		}
		added, err := r.UpsertIfAbsent(ctx, e.NameValue(), e.PropertyValue())
		if err != nil {
			return summary, err
		}
		if added {
			summary.Added++
		} else {
			summary.Existing++
		}
	}
	return summary, nil
}
