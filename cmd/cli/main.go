package main

import (
	"os"

	"github.com/stemsi/course-registration/internal/catalogio"
	"github.com/stemsi/course-registration/internal/config"
	"github.com/stemsi/course-registration/internal/enrollment"
	"github.com/stemsi/course-registration/internal/logger"
	"github.com/stemsi/course-registration/internal/store"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	// stdout belongs to the menu.
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// ─── Catalog ───────────────────────────────────────────────────────
	catalog, fromFile, err := catalogio.LoadOrDefault(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("Failed to load course catalog")
	}
	if !fromFile {
		log.Info().Str("file", cfg.CatalogFile).Msg("Catalog file not found, using built-in courses")
	}

	// ─── Student Records ───────────────────────────────────────────────
	students, err := store.Open(cfg.StudentDataFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.StudentDataFile).Msg("Failed to open student records")
	}
	log.Info().Int("students", students.Len()).Str("file", students.Path()).Msg("Student records loaded")

	width := 0
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	a := &app{
		engine:       enrollment.NewEngine(catalog),
		students:     students,
		matricPrefix: cfg.MatricPrefix,
		width:        width,
		in:           os.Stdin,
		out:          os.Stdout,
		log:          log,
	}
	if err := a.run(); err != nil {
		log.Fatal().Err(err).Msg("Failed to save student records")
	}
}
