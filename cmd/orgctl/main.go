package main

import (
	"context"
	"flag"
	"log"

	"checkin-backend/internal/config"
	"checkin-backend/internal/database"
	"checkin-backend/internal/db"
	"checkin-backend/internal/models"
	"checkin-backend/internal/repositories"
	"checkin-backend/migrations"

	"golang.org/x/crypto/bcrypt"
)

// orgctl onboards organizations. Token issuance is self-service once an org
// exists; creating one is an operator action, so it lives in a CLI rather
// than an API endpoint.

func main() {
	name := flag.String("name", "", "Organization display name")
	slug := flag.String("slug", "", "URL-safe unique slug")
	secret := flag.String("secret", "", "API secret kiosks will authenticate with")
	flag.Parse()

	if *name == "" || *slug == "" || *secret == "" {
		log.Fatal("[OrgCtl] -name, -slug and -secret are all required")
	}

	cfg := config.Load()
	pool := db.Connect(cfg)
	defer pool.Close()

	ctx := context.Background()
	if err := database.NewMigrator(pool, migrations.FS).Run(ctx); err != nil {
		log.Fatalf("[OrgCtl] Migrations failed: %v", err)
	}

	orgs := repositories.NewOrganizationRepository(pool)
	if existing, err := orgs.GetBySlug(ctx, *slug); err != nil {
		log.Fatalf("[OrgCtl] Lookup failed: %v", err)
	} else if existing != nil {
		log.Fatalf("[OrgCtl] Organization %q already exists (id %d)", *slug, existing.ID)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*secret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[OrgCtl] Hashing secret failed: %v", err)
	}

	org := &models.Organization{
		Name:              *name,
		Slug:              *slug,
		SubscriptionState: "trial",
		APISecretHash:     string(hash),
	}
	if err := orgs.Create(ctx, org); err != nil {
		log.Fatalf("[OrgCtl] Create failed: %v", err)
	}
	log.Printf("[OrgCtl] Created organization %q (id %d) with preset rewards", org.Slug, org.ID)
}
