package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "commonground-backend/internal/api/http"
	"commonground-backend/internal/config"
	"commonground-backend/internal/logger"
	"commonground-backend/internal/repository/postgres"
	"commonground-backend/internal/security"
	"commonground-backend/internal/service"
	"commonground-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Commonground Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	avatars, err := storage.NewLocalStorage(cfg.Storage.UploadsDir)
	if err != nil {
		log.Fatalf("Failed to initialize avatar storage: %v", err)
	}

	var emailSvc service.EmailService
	if cfg.SMTP.Host != "" {
		emailSvc = service.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		logger.Warn("SMTP not configured, email notifications disabled")
	}

	appSvc := service.NewApplicationService(
		store.TxManager,
		store.ApplicationRepository,
		store.UserRepository,
		store.CommunityRepository,
		store.MembershipRepository,
		store.ProfileRepository,
		emailSvc,
	)
	membershipSvc := service.NewMembershipService(store.TxManager, store.MembershipRepository, store.ProfileRepository)
	profileSvc := service.NewProfileService(store.TxManager, store.ProfileRepository, store.MembershipRepository)
	communitySvc := service.NewCommunityService(
		store.TxManager,
		store.CommunityRepository,
		store.UserRepository,
		store.MembershipRepository,
		store.ProfileRepository,
	)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)

	router := httpapi.NewRouter(httpapi.Services{
		Auth:       authSvc,
		Community:  communitySvc,
		App:        appSvc,
		Membership: membershipSvc,
		Profile:    profileSvc,
	}, avatars, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
