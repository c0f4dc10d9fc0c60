package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"checkin-backend/internal/auth"
	"checkin-backend/internal/config"
	"checkin-backend/internal/database"
	"checkin-backend/internal/db"
	"checkin-backend/internal/events"
	"checkin-backend/internal/handlers"
	"checkin-backend/internal/health"
	h "checkin-backend/internal/http"
	"checkin-backend/internal/middleware"
	"checkin-backend/internal/repositories"
	"checkin-backend/internal/services"
	"checkin-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, migrations.FS)
	if err := migrator.Run(context.Background()); err != nil {
		log.Fatalf("[Main] Migrations failed: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg)
	store := repositories.NewRosterStore(pool)
	hub := events.NewHub()

	pinService := services.NewPinService(store.Persons)
	checkinService := services.NewCheckinService(store.Sessions, store.Persons, hub)
	importService := services.NewImportService(store.Families, pinService)
	syncService := services.NewSyncService(store, cfg.Sync.RetentionDays)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	corsMiddleware := middleware.NewCORS(cfg)

	routes := &h.Handlers{
		Auth:      handlers.NewAuthHandler(store.Organizations, jwtManager),
		Checkins:  handlers.NewCheckinHandler(checkinService),
		Families:  handlers.NewFamilyHandler(store.Families, store.Persons),
		Persons:   handlers.NewPersonHandler(store.Persons, store.Families, store.Rewards, pinService),
		Templates: handlers.NewTemplateHandler(store.Templates, store.Rooms),
		Rooms:     handlers.NewRoomHandler(store.Rooms),
		Rewards:   handlers.NewRewardHandler(store.Rewards),
		Import:    handlers.NewImportHandler(importService),
		Sync:      handlers.NewSyncHandler(syncService),
		Events:    handlers.NewEventsHandler(hub),
		Health:    handlers.NewHealthHandler(health.NewHealthChecker(pool)),
	}

	router := h.NewRouter(routes, authMiddleware)
	handler := corsMiddleware(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Main] Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("[Main] Server failed to start: %v", err)
	}
}
