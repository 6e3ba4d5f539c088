package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gharbas.org/internal/auth"
	"gharbas.org/internal/migrate"
)

func main() {
	log.SetFlags(0)
	var (
		dsn            = flag.String("dsn", os.Getenv("GHARBAS_PG_DSN"), "PostgreSQL DSN")
		migrationsPath = flag.String("migrations", "ops/migrations/sql", "Path to SQL migrations")
		seedsPath      = flag.String("seeds", "ops/migrations/seeds", "Path to SQL seeds")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or GHARBAS_PG_DSN")
	}
	if len(flag.Args()) == 0 {
		log.Fatal("usage: migrate [up|down|seed|status]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	mgr := migrate.NewManager(db, *migrationsPath, *seedsPath)

	switch flag.Arg(0) {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "seed":
		if err = mgr.Seed(ctx); err == nil {
			err = seedSuperadmin(ctx, db)
		}
	case "status":
		var history []string
		history, err = mgr.Status(ctx)
		if err == nil {
			for _, item := range history {
				fmt.Println(item)
			}
		}
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}

// seedSuperadmin provisions the bootstrap platform owner. The password
// is taken from the environment and hashed at seed time, never stored
// in a SQL file, so the seeded credential always works for first login.
func seedSuperadmin(ctx context.Context, db *sql.DB) error {
	username := os.Getenv("GHARBAS_ROOT_USER")
	if username == "" {
		username = "superadmin"
	}
	password := os.Getenv("GHARBAS_ROOT_PASSWORD")
	if password == "" {
		return fmt.Errorf("missing GHARBAS_ROOT_PASSWORD: required to seed the %s account", username)
	}

	svc, err := auth.NewService(auth.NewPGStore(db), "seed-only")
	if err != nil {
		return err
	}
	identity, created, err := svc.EnsureSuperadmin(ctx, username, password)
	if err != nil {
		return err
	}
	if created {
		log.Printf("seeded superadmin %q (id %s)", identity.Username, identity.ID)
	} else {
		log.Printf("superadmin %q already present, left untouched", identity.Username)
	}
	return nil
}
