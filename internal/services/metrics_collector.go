package services

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"coffee-backend/internal/metrics"
	"coffee-backend/internal/models"
)

// MetricsCollector periodically publishes active lot and entry bay gauges.
type MetricsCollector struct {
	lots            LotRepository
	collectInterval time.Duration
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

func NewMetricsCollector(lots LotRepository, interval time.Duration) *MetricsCollector {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &MetricsCollector{
		lots:            lots,
		collectInterval: interval,
		stopChan:        make(chan struct{}),
	}
}

// Start collects once and then every interval until Stop.
func (c *MetricsCollector) Start() {
	log.Println("[MetricsCollector] Starting metrics collector...")

	// Collect immediately on start
	c.collect()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.collectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopChan:
				log.Println("[MetricsCollector] Stopping metrics collector...")
				return
			}
		}
	}()
}

func (c *MetricsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}

func (c *MetricsCollector) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lots, err := c.lots.List(ctx)
	if err != nil {
		log.Printf("[MetricsCollector] Failed to list lots: %v", err)
		return
	}

	active, occupied := bayOccupancy(lots)
	metrics.ActiveLots.Set(float64(active))
	for bay := models.MinBay; bay <= models.MaxBay; bay++ {
		v := 0.0
		if occupied[bay] {
			v = 1
		}
		metrics.EntryBayOccupied.WithLabelValues(strconv.Itoa(bay)).Set(v)
	}
}

// bayOccupancy counts active lots and marks the in-range bays they hold.
func bayOccupancy(lots []*models.CoffeeLot) (int, map[int]bool) {
	active := 0
	occupied := make(map[int]bool)
	for _, lot := range lots {
		if !lot.IsActive() {
			continue
		}
		active++
		if lot.BocaEntrada != nil {
			bay := int(*lot.BocaEntrada)
			if bay >= models.MinBay && bay <= models.MaxBay {
				occupied[bay] = true
			}
		}
	}
	return active, occupied
}
