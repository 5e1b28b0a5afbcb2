package services

import (
	"context"
	"log"

	"coffee-backend/internal/models"
)

// RegistrySync feeds lot names into the producer and driver registries.
type RegistrySync struct {
	Producers *Registry
	Drivers   *Registry
}

func NewRegistrySync(producers, drivers *Registry) *RegistrySync {
	return &RegistrySync{Producers: producers, Drivers: drivers}
}

// AfterLotWrite registers the producer and driver named in the written
// fields. Failures are logged and never returned; the lot write has already
// succeeded.
func (s *RegistrySync) AfterLotWrite(ctx context.Context, lot *models.CoffeeLot, written models.LotFields) {
	if s == nil || lot == nil {
		return
	}

	if producer, ok := written.String(models.ColNomeProdutor); ok && s.Producers != nil {
		property := ""
		if lot.NomePropriedade != nil {
			property = *lot.NomePropriedade
		}
		if _, err := s.Producers.UpsertIfAbsent(ctx, producer, property); err != nil {
			log.Printf("[Registry] Failed to register producer %q: %v", producer, err)
		}
	}

	if driver, ok := written.String(models.ColCaminhoneiro); ok && s.Drivers != nil {
		if _, err := s.Drivers.UpsertIfAbsent(ctx, driver, ""); err != nil {
			log.Printf("[Registry] Failed to register driver %q: %v", driver, err)
		}
	}
}
