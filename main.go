package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/auth"
	"github.com/civicodehq/civicode-engine/pkg/config"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/handlers"
	"github.com/civicodehq/civicode-engine/pkg/llm"
	"github.com/civicodehq/civicode-engine/pkg/logging"
	"github.com/civicodehq/civicode-engine/pkg/mailer"
	"github.com/civicodehq/civicode-engine/pkg/middleware"
	"github.com/civicodehq/civicode-engine/pkg/push"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
	"github.com/civicodehq/civicode-engine/pkg/services"
	"github.com/civicodehq/civicode-engine/pkg/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

const migrationsPath = "migrations"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("db_host", cfg.Database.Host),
		zap.Bool("email_enabled", cfg.Email.Enabled),
		zap.Bool("push_configured", cfg.Push.IsConfigured()),
		zap.Bool("storage_configured", cfg.Storage.IsConfigured()),
		zap.Bool("digest_enabled", cfg.Digest.Enabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Migrations run over database/sql; the pool below uses pgx natively.
	migrateDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrateDB, migrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrateDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.ConnectionString(),
		MaxConnections:  cfg.Database.MaxConnections,
		MaxConnLifetime: time.Duration(cfg.Database.MaxConnLifetimeMinutes) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.Database.MaxConnIdleMinutes) * time.Minute,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	addressRepo := repositories.NewAddressRepository(db)
	analysisLogRepo := repositories.NewAnalysisLogRepository(db)
	attachmentRepo := repositories.NewAttachmentRepository(db)
	businessRepo := repositories.NewBusinessRepository(db)
	citationRepo := repositories.NewCitationRepository(db)
	codeRepo := repositories.NewCodeRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	inspectionRepo := repositories.NewInspectionRepository(db)
	licenseRepo := repositories.NewLicenseRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	permitRepo := repositories.NewPermitRepository(db)
	pushRepo := repositories.NewPushSubscriptionRepository(db)
	settingRepo := repositories.NewSettingRepository(db)
	statsRepo := repositories.NewStatsRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)
	userRepo := repositories.NewUserRepository(db)
	violationRepo := repositories.NewViolationRepository(db)

	// Infrastructure
	authService := auth.NewService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenExpireMinutes)*time.Minute)
	authMiddleware := auth.NewMiddleware(authService, logger)

	var store storage.BlobStore
	if cfg.Storage.IsConfigured() {
		store, err = storage.NewAzureBlobStore(storage.Config{
			AccountName: cfg.Storage.AccountName,
			AccountKey:  cfg.Storage.AccountKey,
			Container:   cfg.Storage.Container,
			SASTTL:      time.Duration(cfg.Storage.SASTTLMinutes) * time.Minute,
			SASSkew:     time.Duration(cfg.Storage.SASSkewMinutes) * time.Minute,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize blob storage", zap.Error(err))
		}
	} else {
		store = storage.NewDisabledStore(logger)
	}

	mail := mailer.NewSendGridMailer(mailer.Config{
		APIKey:  cfg.Email.APIKey,
		Enabled: cfg.Email.Enabled,
		From:    cfg.Email.From,
	}, logger)
	pusher := push.NewWebPushSender(push.Config{
		VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
		Subject:         cfg.Push.Subject,
	}, logger)
	assistantClient := llm.NewAssistantClient(llm.AssistantConfig{
		APIKey:       cfg.Assistant.APIKey,
		AssistantID:  cfg.Assistant.AssistantID,
		PollInterval: time.Duration(cfg.Assistant.PollIntervalMS) * time.Millisecond,
		Timeout:      time.Duration(cfg.Assistant.TimeoutSeconds) * time.Second,
	}, logger)
	visionClient := llm.NewVisionClient(llm.VisionConfig{
		APIKey: cfg.Vision.APIKey,
		Model:  cfg.Vision.Model,
	})
	broadcaster := services.NewBroadcaster(logger)

	// Services
	userService := services.NewUserService(userRepo, authService)
	violationService := services.NewViolationService(violationRepo, logger)
	commentService := services.NewCommentService(commentRepo, contactRepo, userRepo, notificationRepo, pushRepo, pusher, logger)
	photoService := services.NewPhotoService(attachmentRepo, store, logger)
	inspectionService := services.NewInspectionService(inspectionRepo, addressRepo, userRepo, mail, logger)
	businessService := services.NewBusinessService(businessRepo, addressRepo, logger)
	licenseService := services.NewLicenseService(licenseRepo, inspectionRepo, businessRepo, addressRepo, logger)
	permitService := services.NewPermitService(permitRepo, inspectionRepo)
	notificationService := services.NewNotificationService(notificationRepo, inspectionRepo, userRepo)
	settingsService := services.NewSettingsService(settingRepo, userRepo, broadcaster, logger)
	assistantService := services.NewAssistantService(assistantClient, settingsService)
	imageService := services.NewImageService(visionClient, analysisLogRepo, logger)
	digestService := services.NewDigestService(statsRepo, userRepo, mail, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewUserHandler(userService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewAddressHandler(addressRepo, commentService, violationService, inspectionService, logger).RegisterRoutes(mux)
	handlers.NewViolationHandler(violationService, citationRepo, logger).RegisterRoutes(mux)
	handlers.NewCitationHandler(citationRepo, logger).RegisterRoutes(mux)
	handlers.NewCodeHandler(codeRepo, logger).RegisterRoutes(mux)
	handlers.NewContactHandler(contactRepo, logger).RegisterRoutes(mux)
	handlers.NewCommentHandler(commentService, photoService, logger).RegisterRoutes(mux)
	handlers.NewBusinessHandler(businessService, logger).RegisterRoutes(mux)
	handlers.NewInspectionHandler(inspectionService, logger).RegisterRoutes(mux)
	handlers.NewLicenseHandler(licenseService, logger).RegisterRoutes(mux)
	handlers.NewPermitHandler(permitService, logger).RegisterRoutes(mux)
	handlers.NewNotificationHandler(notificationService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewPushHandler(pushRepo, pusher, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewSettingsHandler(settingsService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewAssistantHandler(assistantService, logger).RegisterRoutes(mux)
	handlers.NewImageHandler(imageService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewTemplateHandler(templateRepo, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewStatsHandler(statsRepo, logger).RegisterRoutes(mux)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(middleware.RequestLogger(logger)(mux))

	// Weekday digest job
	var digestCron *cron.Cron
	if cfg.Digest.Enabled {
		digestCron = cron.New()
		_, err := digestCron.AddFunc(cfg.Digest.CronSpec, func() {
			runCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := digestService.Run(runCtx); err != nil {
				logger.Error("Digest run failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Fatal("Invalid digest cron spec", zap.String("spec", cfg.Digest.CronSpec), zap.Error(err))
		}
		digestCron.Start()
		logger.Info("Digest job scheduled", zap.String("spec", cfg.Digest.CronSpec))
	}

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler: handler,
	}

	go func() {
		logger.Info("Starting civicode-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	if digestCron != nil {
		<-digestCron.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
