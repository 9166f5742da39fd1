// Command import loads observances from a JSON file into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -json data/observances.json -db data/amlich.db
//
// The file looks like:
//
//	{
//	  "metadata": {"source": "family", "generated_at": "2024-02-10"},
//	  "observances": [
//	    {"name": "Giỗ ông nội", "calendar": "lunar", "month": 3, "day": 10},
//	    {"name": "Sinh nhật mẹ", "calendar": "solar", "month": 9, "day": 2}
//	  ]
//	}
//
// All observances are imported in a single transaction. With -skip-existing,
// duplicates are skipped instead of aborting the import.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/amlich-api/internal/database"
	"github.com/zapponejosh/amlich-api/internal/logger"
)

func main() {
	// Parse command line flags
	jsonPath := flag.String("json", "data/observances.json", "Path to observances JSON file")
	dbPath := flag.String("db", database.DefaultPath, "Path to SQLite database")
	skipExisting := flag.Bool("skip-existing", false, "Skip observances that already exist")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := "info"
	if *verbose {
		logLevel = "debug"
	}
	log := logger.New(os.Stdout, logLevel, "text")

	// Run import
	if err := run(*jsonPath, *dbPath, *skipExisting, log); err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("import complete")
}

func run(jsonPath, dbPath string, skipExisting bool, log *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and parse JSON
	// =========================================================================
	log.Info("reading JSON file", slog.String("path", jsonPath))

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("read JSON file: %w", err)
	}

	var importData database.ImportData
	if err := json.Unmarshal(data, &importData); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	log.Info("parsed JSON",
		slog.Int("observances", len(importData.Observances)),
		slog.String("source", importData.Metadata.Source),
		slog.String("generated_at", importData.Metadata.GeneratedAt),
	)

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	log.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Import data in a transaction
	// =========================================================================
	log.Info("starting import")

	var stats ImportStats
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		return importObservances(ctx, tx, importData.Observances, skipExisting, log, &stats)
	})
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	total, err := db.CountObservances(ctx)
	if err != nil {
		return fmt.Errorf("count observances: %w", err)
	}

	elapsed := time.Since(startTime)

	log.Info("import verified",
		slog.Int("total_observances", total),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Lunar observances:   %d\n", stats.Lunar)
	fmt.Printf("Solar observances:   %d\n", stats.Solar)
	fmt.Printf("Skipped duplicates:  %d\n", stats.Skipped)
	fmt.Printf("Total in database:   %d\n", total)
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// ImportStats tracks import statistics.
type ImportStats struct {
	Lunar   int
	Solar   int
	Skipped int
}

// importObservances inserts each observance, counting them by calendar.
func importObservances(ctx context.Context, tx *database.Tx, observances []database.Observance, skipExisting bool, log *slog.Logger, stats *ImportStats) error {
	for i := range observances {
		o := &observances[i]

		if err := tx.CreateObservance(ctx, o); err != nil {
			if skipExisting && errors.Is(err, database.ErrDuplicate) {
				log.Debug("skipping existing observance", slog.String("name", o.Name))
				stats.Skipped++
				continue
			}
			return fmt.Errorf("create observance %d (%s): %w", i+1, o.Name, err)
		}

		switch o.Calendar {
		case database.CalendarLunar:
			stats.Lunar++
		case database.CalendarSolar:
			stats.Solar++
		}
	}

	return nil
}
