package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/sakec/hms-backend/internal/config"
	"github.com/sakec/hms-backend/internal/database"
	"github.com/sakec/hms-backend/internal/logger"
	"github.com/sakec/hms-backend/internal/repository"
	"github.com/sakec/hms-backend/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	tokens, err := service.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}
	authService := service.NewAuthService(
		repository.NewUserRepository(pool),
		service.NewPasswordHasher(cfg.BcryptCost),
		tokens,
		service.AuthOptions{StoreTimeout: cfg.StoreTimeout},
	)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	// Username
	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: Username is required")
		return
	}

	// Password
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
	admin, err := authService.CreateAdmin(ctx, username, password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEntity) {
			fmt.Printf("Error: username '%s' already exists\n", username)
			return
		}
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' created with ID: %s\n", admin.Username, admin.ID)
}
