package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"

	"mymarket-be/internal/config"
	"mymarket-be/internal/db"
	"mymarket-be/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
)

// migrator is the subset of *migrate.Migrate the runner drives.
type migrator interface {
	Up() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
}

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "up", "migration mode: up, down or version")
	flag.Parse()

	if err := validateMode(*mode); err != nil {
		log.Fatal(err)
	}

	cfg := config.LoadConfig()
	database, err := db.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer database.Close()

	m, err := newMigrator(database, cfg.DBName)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(m, *mode); err != nil {
		log.Fatal(err)
	}
}

func newMigrator(database *sql.DB, dbName string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(database, &postgres.Config{DatabaseName: dbName})
	if err != nil {
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

func validateMode(mode string) error {
	switch mode {
	case "up", "down", "version":
		return nil
	default:
		return fmt.Errorf("unknown mode: %s (use 'up', 'down' or 'version')", mode)
	}
}

func run(m migrator, mode string) error {
	if err := validateMode(mode); err != nil {
		return err
	}

	switch mode {
	case "up":
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Println("no new migrations to apply")
				return nil
			}
			return fmt.Errorf("could not run migrations: %w", err)
		}
		log.Println("all new migrations applied")

	case "down":
		// Roll back the latest migration only.
		if err := m.Steps(-1); err != nil {
			if errors.Is(err, migrate.ErrNoChange) || errors.Is(err, migrate.ErrNilVersion) {
				log.Println("no migrations to roll back")
				return nil
			}
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Println("rollback successful")
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Println("schema version: none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read schema version: %w", err)
	}
	log.Printf("schema version: %d (dirty=%t)", version, dirty)
	return nil
}
