package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/kdimtricp/vlabel/internal/config"
	"github.com/kdimtricp/vlabel/internal/database"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a YAML config file")
		dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
		status     = flag.Bool("status", false, "Show migration status only")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	db, err := database.Open(database.Config{SQLitePath: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	migrator := database.NewMigrator(db.Conn())

	if !*status {
		fmt.Printf("Running migrations on %s...\n", cfg.DBPath)
		if err := migrator.Run(); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		fmt.Println("Migrations completed successfully!")
		return
	}

	if err := migrator.Initialize(); err != nil {
		log.Fatal("Failed to initialize migrator:", err)
	}

	applied, err := migrator.GetAppliedMigrations()
	if err != nil {
		log.Fatal("Failed to get applied migrations:", err)
	}

	migrations, err := migrator.LoadMigrations()
	if err != nil {
		log.Fatal("Failed to load migrations:", err)
	}

	fmt.Println("Migration Status:")
	fmt.Println("=================")
	for _, m := range migrations {
		state := "pending"
		if applied[m.Version] {
			state = "applied"
		}
		fmt.Printf("%s - %s [%s]\n", m.Version, m.Name, state)
	}
}
