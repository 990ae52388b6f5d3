package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/course-registration/internal/config"
	"github.com/stemsi/course-registration/internal/database"
	"github.com/stemsi/course-registration/internal/logger"
	"github.com/stemsi/course-registration/internal/model"
	"github.com/stemsi/course-registration/internal/repository"
	"github.com/stemsi/course-registration/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	// Hashing needs no Redis; sessions are never touched here.
	authService := service.NewAuthService(cfg, nil)
	studentService := service.NewStudentService(repository.NewStudentRepository(pool), authService, cfg.MatricPrefix)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Register New Student ===")

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')

	fmt.Printf("Enter Matric Number (starts with %s): ", cfg.MatricPrefix)
	matric, _ := reader.ReadString('\n')

	if _, _, err := service.CheckRegistration(name, matric, cfg.MatricPrefix); err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	student, err := studentService.Register(ctx, &model.RegisterStudentRequest{
		Name:     strings.TrimSpace(name),
		Matric:   strings.TrimSpace(matric),
		Password: password,
	})
	if errors.Is(err, repository.ErrDuplicateMatric) {
		fmt.Println("Error: a student with this matric number already exists")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create student")
	}

	fmt.Printf("\nSuccess! Student '%s' (%s) created with ID: %d\n", student.Name, student.Matric, student.ID)
}
