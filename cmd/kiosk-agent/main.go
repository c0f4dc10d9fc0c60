package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"checkin-backend/internal/config"
	"checkin-backend/internal/localstore"
	"checkin-backend/internal/models"
)

// kiosk-agent keeps a site's local SQLite roster in sync with the central
// server so the kiosk keeps working through outages. It pulls a full snapshot
// on an interval and upserts it into the local store.

func main() {
	once := flag.Bool("once", false, "Run a single sync and exit")
	flag.Parse()

	cfg := config.Load()
	if cfg.Kiosk.ServerURL == "" || cfg.Kiosk.Token == "" {
		log.Fatal("[KioskAgent] kiosk.server_url and kiosk.token are required")
	}

	store, err := localstore.Open(cfg.Kiosk.LocalDBPath)
	if err != nil {
		log.Fatalf("[KioskAgent] Failed to open local store: %v", err)
	}
	defer store.Close()

	client := &http.Client{Timeout: 60 * time.Second}

	if err := syncOnce(cfg, client, store); err != nil {
		log.Printf("[KioskAgent] Sync failed: %v", err)
		if *once {
			log.Fatal("[KioskAgent] Exiting after failed sync")
		}
	}
	if *once {
		return
	}

	interval := time.Duration(cfg.Kiosk.SyncIntervalMin) * time.Minute
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[KioskAgent] Syncing every %s from %s", interval, cfg.Kiosk.ServerURL)
	for range ticker.C {
		if err := syncOnce(cfg, client, store); err != nil {
			log.Printf("[KioskAgent] Sync failed, keeping last good snapshot: %v", err)
		}
	}
}

func syncOnce(cfg *config.Config, client *http.Client, store *localstore.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	snapshot, err := fetchSnapshot(ctx, cfg, client)
	if err != nil {
		return err
	}

	result, err := store.ApplySnapshot(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}

	count, err := store.CountPersons(ctx, snapshot.OrgID)
	if err != nil {
		return err
	}
	log.Printf("[KioskAgent] Applied batch %s: %d rows, %d persons local",
		result.BatchID, result.RowsApplied, count)
	return nil
}

func fetchSnapshot(ctx context.Context, cfg *config.Config, client *http.Client) (*models.SyncSnapshot, error) {
	url := cfg.Kiosk.ServerURL + "/api/sync/snapshot"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.Kiosk.Token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, body)
	}

	var snapshot models.SyncSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, nil
}
