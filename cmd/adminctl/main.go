package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/SAP-F-2025/learning-platform/internal/config"
	"github.com/SAP-F-2025/learning-platform/internal/events"
	"github.com/SAP-F-2025/learning-platform/internal/repositories/casdoor"
	"github.com/SAP-F-2025/learning-platform/internal/repositories/postgres"
	"github.com/SAP-F-2025/learning-platform/internal/services"
	"github.com/SAP-F-2025/learning-platform/internal/store"
	"github.com/SAP-F-2025/learning-platform/internal/validator"
	"github.com/SAP-F-2025/learning-platform/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Operator tooling logs human-readable text, warnings and up
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	casdoorConfig := casdoor.CasdoorConfig{
		Endpoint:         cfg.Casdoor.Endpoint,
		ClientID:         cfg.Casdoor.ClientID,
		ClientSecret:     cfg.Casdoor.ClientSecret,
		Certificate:      cfg.Casdoor.Cert,
		OrganizationName: cfg.Casdoor.Organization,
		ApplicationName:  cfg.Casdoor.Application,
	}
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:            db,
		CasdoorConfig: casdoorConfig,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	repo := repoManager.GetRepository()

	serviceManager := services.NewDefaultServiceManager(db, repo, logger, validator.NewValidator(), events.NoopPublisher{})
	ctx := context.Background()
	if err := serviceManager.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// The CLI drives the same stores the web client uses: session state,
	// the course cache and the route guard all behave identically here
	authProvider := casdoor.NewAuthCasdoor(casdoorConfig, &casdoor.MemoryTokenStore{})
	sessions := store.NewSessionStore(authProvider, services.NewProfileLoader(repo.User()), logger)
	backend := services.NewStoreBackend(serviceManager, func() string {
		if session := sessions.Session(); session != nil {
			return session.UserID
		}
		return ""
	})
	courses := store.NewCourseStore(backend, logger)
	guard := store.NewRouteGuard(sessions)

	if result := sessions.Initialize(ctx); !result.Success {
		logger.Warn("Session restore failed, continuing anonymously", "error", result.Err)
	}

	cli := &commandLine{
		sessions: sessions,
		courses:  courses,
		guard:    guard,
		admin:    serviceManager.UserAdmin(),
	}

	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
