package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"salesorders/internal/config"
)

func main() {
	var (
		command = flag.String("command", "up", "migration command: up, down, version, force")
		steps   = flag.Int("steps", 0, "steps for up/down, 0 means all")
		version = flag.Int("version", 0, "version for the force command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("open database failed: %v", err)
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		log.Fatalf("create migration driver failed: %v", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		migrationPath = "file://../../migrations"
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "postgres", driver)
	if err != nil {
		log.Fatalf("create migrate instance failed: %v", err)
	}

	switch *command {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
		report(err, "up")

	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
		report(err, "down")

	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("get version failed: %v", err)
		}
		fmt.Printf("current version: %d, dirty: %v\n", v, dirty)

	case "force":
		if *version == 0 {
			log.Fatal("force requires -version")
		}
		if err := m.Force(*version); err != nil {
			log.Fatalf("force failed: %v", err)
		}
		fmt.Printf("forced version to %d\n", *version)

	default:
		log.Fatalf("unknown command: %s", *command)
	}
}

func report(err error, direction string) {
	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("migration %s failed: %v", direction, err)
	}
	if err == migrate.ErrNoChange {
		fmt.Println("database already up to date")
		return
	}
	fmt.Printf("migration %s succeeded\n", direction)
}
