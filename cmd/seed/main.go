package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"branchdesk/internal/catalog"
	"branchdesk/internal/shared/config"
	"branchdesk/internal/shared/database"
)

func main() {
	fmt.Println("🌱 Starting BranchDesk Catalog Seeder...")

	cfg := config.Load()
	// Seeding always targets Postgres, whatever the server is configured for
	cfg.Database.Enabled = true
	cfg.Redis.Enabled = false

	// InitDB also runs the migrations
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	cat, err := catalog.EmbeddedCatalog()
	if err != nil {
		log.Fatalf("Failed to read embedded catalog: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("\n🌱 Seeding catalog...")
	if err := catalog.Seed(ctx, db.PostgreSQL, cat); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	for _, s := range cat.Screens {
		fmt.Printf("  🎟️  Screen %s (%s) ₹%d x %d seats\n", s.Code, s.Class, s.Price, s.Capacity)
	}
	for _, m := range cat.Movies {
		fmt.Printf("  🎬 %d. %s [%s] %d cast\n", m.ID, m.Title, m.Status, len(m.Cast))
	}

	// Read it back through the same path the server uses
	loaded, err := catalog.NewRepository(db.PostgreSQL).Load(ctx)
	if err != nil {
		log.Fatalf("Failed to read seeded catalog: %v", err)
	}
	fmt.Printf("\n✅ Catalog seeded: %d movies, %d screens\n", len(loaded.Movies), len(loaded.Screens))
	fmt.Println("\n🎉 Seeding completed! Start the server with CATALOG_SOURCE=postgres to use it.")
}
