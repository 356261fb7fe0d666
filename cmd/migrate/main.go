package main

import (
	"database/sql"
	"log"

	"agroskills-platform/config"
	"agroskills-platform/migrations"

	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DBUrl == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	applied, err := migrations.Apply(db)
	for _, v := range applied {
		log.Printf("applied %s", v)
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if len(applied) == 0 {
		log.Println("Schema is up to date")
	}
}
