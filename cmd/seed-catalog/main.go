package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stemsi/course-registration/internal/catalogio"
	"github.com/stemsi/course-registration/internal/config"
	"github.com/stemsi/course-registration/internal/database"
	"github.com/stemsi/course-registration/internal/logger"
	"github.com/stemsi/course-registration/internal/repository"
)

func main() {
	cfg := config.Load()

	file := flag.String("file", cfg.CatalogFile, "catalog file (.csv or .json); missing file seeds the built-in catalog")
	dryRun := flag.Bool("dry-run", false, "validate and print the catalog without writing to the database")
	export := flag.String("export", "", "also write the loaded catalog to this .csv or .json file")
	flag.Parse()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	catalog, usedDefault, err := catalogio.LoadOrDefault(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to load catalog")
	}

	source := *file
	if usedDefault {
		source = "built-in catalog"
	}
	fmt.Printf("=== Seeding %d Courses from %s ===\n", catalog.Len(), source)
	for _, c := range catalog.All() {
		fmt.Printf("  %-10s %-36s %d cr  %s\n", c.Code, c.Name, c.Credit, c.Schedule())
	}

	if *export != "" {
		if err := catalogio.SaveFile(*export, catalog.All()); err != nil {
			log.Fatal().Err(err).Str("file", *export).Msg("Failed to export catalog")
		}
		fmt.Printf("Exported catalog to %s\n", *export)
	}

	if *dryRun {
		fmt.Println("Dry run, database untouched.")
		return
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	courseRepo := repository.NewCourseRepository(pool)
	if err := courseRepo.Upsert(ctx, catalog.All()); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed courses")
	}

	total, err := courseRepo.Count(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Seeded, but counting courses failed:", err)
		return
	}
	fmt.Printf("\nSeed completed! Catalog now holds %d courses.\n", total)
}
