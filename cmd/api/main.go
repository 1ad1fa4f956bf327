package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/civictrust-api/internal/config"
	"github.com/civictrust-api/internal/domain"
	"github.com/civictrust-api/internal/infrastructure/dynamo"
	"github.com/civictrust-api/internal/infrastructure/google"
	jwtinfra "github.com/civictrust-api/internal/infrastructure/jwt"
	"github.com/civictrust-api/internal/infrastructure/memstore"
	s3infra "github.com/civictrust-api/internal/infrastructure/s3"
	"github.com/civictrust-api/internal/infrastructure/smtp"
	"github.com/civictrust-api/internal/infrastructure/sns"
	transporthttp "github.com/civictrust-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	deps := &transporthttp.Deps{}

	// State backend: DynamoDB when AWS credentials or an endpoint override
	// are present, otherwise an in-memory store with an optional S3 snapshot.
	var flush func()
	if cfg.DynamoEnabled() {
		dynamoClient := dynamo.NewClient(cfg)
		dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

		codeRepo := dynamo.NewCodeRepo(dynamoClient, cfg.DynamoTables.RedemptionCodes)
		if err := codeRepo.Seed(ctx, cfg.RedemptionCodes); err != nil {
			log.Fatalf("seed redemption codes: %v", err)
		}

		deps.OTPRepo = dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPs)
		deps.PointsRepo = dynamo.NewPointsRepo(dynamoClient, cfg.DynamoTables.PointsAccounts, cfg.DynamoTables.PointsEvents)
		deps.WalletRepo = dynamo.NewWalletRepo(dynamoClient, cfg.DynamoTables.WalletLinks)
		deps.CodeRepo = codeRepo
	} else {
		store := memstore.New()

		if cfg.SnapshotBucket != "" {
			snapshots := s3infra.NewSnapshotStore(s3infra.NewClient(cfg), cfg.SnapshotBucket, cfg.SnapshotKey)
			if data, err := snapshots.Load(ctx); err == nil {
				if err := store.Restore(data); err != nil {
					slog.Warn("snapshot restore failed, starting empty", "error", err)
				}
			} else if !errors.Is(err, domain.ErrNotFound) {
				slog.Warn("snapshot load failed, starting empty", "error", err)
			}
			flush = func() {
				data, err := store.Snapshot()
				if err == nil {
					err = snapshots.Save(context.Background(), data)
				}
				if err != nil {
					slog.Error("snapshot flush failed", "error", err)
				}
			}
		}

		if err := store.Codes().Seed(ctx, cfg.RedemptionCodes); err != nil {
			log.Fatalf("seed redemption codes: %v", err)
		}

		deps.OTPRepo = store.OTPs()
		deps.PointsRepo = store.Points()
		deps.WalletRepo = store.Wallets()
		deps.CodeRepo = store.Codes()
	}

	// JWT provider (optional — graceful fallback if keys are missing).
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		deps.JWTProvider = p
	} else {
		slog.Warn("JWT provider not available, responses carry no bearer", "error", err)
	}

	// SNS SMS sender, only when AWS is configured. Without it OTP codes are
	// echoed in-band for local demos.
	if cfg.DynamoEnabled() {
		if sender, err := sns.NewSender(cfg); err == nil {
			deps.SMSSender = sender
		} else {
			slog.Warn("SNS sender not available, running OTP in demo mode", "error", err)
		}
	} else {
		slog.Warn("AWS not configured, running OTP in demo mode")
	}

	if cfg.GoogleClientID != "" {
		deps.GoogleVerifier = google.NewVerifier(cfg.GoogleClientID)
	} else {
		slog.Warn("GOOGLE_CLIENT_ID not set, Google login disabled")
	}

	if cfg.ContactInbox != "" {
		deps.Mailer = smtp.NewMailer(cfg)
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	if flush != nil {
		flush()
	}
	log.Println("Server stopped")
}
