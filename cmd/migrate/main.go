package main

import (
	"context"
	_ "embed"
	"flag"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

func main() {
	dsn := flag.String("dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, *dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	log.Println("Schema applied")
}
