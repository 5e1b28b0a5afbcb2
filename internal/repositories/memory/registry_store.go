package memory

import (
	"context"
	"sort"
	"sync"

	"coffee-backend/internal/apperr"
	"coffee-backend/internal/models"

	"github.com/google/uuid"
)

// RegistryStore keys entries by normalized name and, when hasProperty is set,
// normalized property.
type RegistryStore struct {
	mu          sync.RWMutex
	label       string
	hasProperty bool
	entries     map[string]*models.RegistryEntry
}

func NewRegistryStore(label string, hasProperty bool) *RegistryStore {
	return &RegistryStore{
		label:       label,
		hasProperty: hasProperty,
		entries:     make(map[string]*models.RegistryEntry),
	}
}

func NewProducerStore() *RegistryStore { return NewRegistryStore("producer", true) }
func NewDriverStore() *RegistryStore   { return NewRegistryStore("driver", false) }

func (s *RegistryStore) key(name, property string) string {
	if !s.hasProperty {
		return models.NormalizeKey(name)
	}
	return models.NormalizeKey(name) + "\x00" + models.NormalizeKey(property)
}

func (s *RegistryStore) InsertIfAbsent(_ context.Context, name, property string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.key(name, property)
	if _, ok := s.entries[k]; ok {
		return false, nil
	}
	s.entries[k] = s.newEntry(name, property)
	return true, nil
}

func (s *RegistryStore) Exists(_ context.Context, name, property string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[s.key(name, property)]
	return ok, nil
}

func (s *RegistryStore) Insert(_ context.Context, name, property string) (*models.RegistryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.key(name, property)
	if _, ok := s.entries[k]; ok {
		return nil, apperr.Conflict("%s already exists", s.label)
	}
	e := s.newEntry(name, property)
	s.entries[k] = e
	out := *e
	return &out, nil
}

func (s *RegistryStore) Delete(_ context.Context, name, property string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.key(name, property)
	if _, ok := s.entries[k]; !ok {
		return apperr.NotFound("%s not found", s.label)
	}
	delete(s.entries, k)
	return nil
}

func (s *RegistryStore) List(_ context.Context) ([]*models.RegistryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*models.RegistryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out := *e
		entries = append(entries, &out)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Property < entries[j].Property
	})
	return entries, nil
}

func (s *RegistryStore) newEntry(name, property string) *models.RegistryEntry {
	e := &models.RegistryEntry{ID: uuid.NewString(), Name: name}
	if s.hasProperty {
		e.Property = property
	}
	return e
}
