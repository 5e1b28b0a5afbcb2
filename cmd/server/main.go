package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffee-backend/internal/config"
	"coffee-backend/internal/database"
	"coffee-backend/internal/db"
	"coffee-backend/internal/handlers"
	"coffee-backend/internal/health"
	h "coffee-backend/internal/http"
	"coffee-backend/internal/middleware"
	"coffee-backend/internal/repositories"
	"coffee-backend/internal/repositories/memory"
	"coffee-backend/internal/services"
	"coffee-backend/internal/timeutil"
)

// stores groups the repositories behind the selected store driver.
type stores struct {
	lots      services.LotRepository
	producers services.RegistryStore
	drivers   services.RegistryStore
	pinger    health.Pinger
	close     func()
}

func openPostgres(ctx context.Context, cfg *config.Config) stores {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("[DB] Failed to connect: %v", err)
	}

	if err := database.NewSchemaManager(pool).EnsureSchema(ctx); err != nil {
		pool.Close()
		log.Fatalf("[Schema] Failed to ensure schema: %v", err)
	}

	return stores{
		lots:      repositories.NewCoffeeLotRepository(pool),
		producers: repositories.NewRegistryRepository(pool, repositories.ProducersTable),
		drivers:   repositories.NewRegistryRepository(pool, repositories.DriversTable),
		pinger:    pool,
		close:     pool.Close,
	}
}

func openMemory() stores {
	log.Println("[Server] Using in-memory store, data is lost on exit")
	return stores{
		lots:      memory.NewLotStore(),
		producers: memory.NewProducerStore(),
		drivers:   memory.NewDriverStore(),
		close:     func() {},
	}
}

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	store := flag.String("store", "", "Store driver: postgres or memory (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *store != "" {
		cfg.Store.Driver = *store
	}
	timeutil.SetFacilityZone(cfg.Facility.Timezone)

	ctx := context.Background()

	var st stores
	switch cfg.Store.Driver {
	case config.StorePostgres:
		st = openPostgres(ctx, cfg)
	case config.StoreMemory:
		st = openMemory()
	default:
		log.Fatalf("[Config] Unknown store driver %q", cfg.Store.Driver)
	}
	defer st.close()

	// Services
	producers := services.NewProducerRegistry(st.producers)
	drivers := services.NewDriverRegistry(st.drivers)
	lotService := services.NewCoffeeLotService(st.lots, services.NewRegistrySync(producers, drivers))
	ticketService := services.NewTicketService(st.lots, cfg.Facility.Name)

	collector := services.NewMetricsCollector(st.lots, 30*time.Second)
	collector.Start()
	defer collector.Stop()

	// Handlers
	router := h.NewRouter(
		handlers.NewCoffeeLotHandler(lotService, ticketService),
		handlers.NewProducerHandler(producers),
		handlers.NewDriverHandler(drivers),
		handlers.NewHealthHandler(health.NewHealthChecker(st.pinger, cfg.Store.Driver)),
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.RequestLogging(corsMiddleware(router)))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		log.Printf("[Server] Running on %s (store: %s)", srv.Addr, cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[Server] Failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Server] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] Forced shutdown: %v", err)
	}
	log.Println("[Server] Stopped")
}
