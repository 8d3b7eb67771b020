package app

import (
	"context"
	"time"

	"go-traindesk/internal/auditlog"
	"go-traindesk/internal/caller"
	"go-traindesk/internal/certificate"
	"go-traindesk/internal/config"
	"go-traindesk/internal/employee"
	"go-traindesk/internal/identity"
	"go-traindesk/internal/media"
	"go-traindesk/internal/messaging/kafka"
	"go-traindesk/internal/middleware"
	"go-traindesk/internal/rbac"
	"go-traindesk/internal/settings"
	"go-traindesk/internal/sop"
	"go-traindesk/internal/stats"
	"go-traindesk/internal/subscription"
	"go-traindesk/internal/training"
	"go-traindesk/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func registerModules(
	cfg *config.Config,
	router *gin.Engine,
	db *mongo.Database,
	rdb *redis.Client,
	logger *zap.Logger,
) (auditlog.Recorder, error) {
	// --- Repositories ---
	userRepo := user.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	sopRepo := sop.NewRepository(db)
	progressRepo := sop.NewProgressRepository(db)
	trainingRepo := training.NewRepository(db)
	subscriptionRepo := subscription.NewRepository(db)
	settingsRepo := settings.NewRepository(db)
	auditRepo := auditlog.NewRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := ensureIndexes(ctx,
		employeeRepo.EnsureIndexes,
		sopRepo.EnsureIndexes,
		progressRepo.EnsureIndexes,
		trainingRepo.EnsureIndexes,
		subscriptionRepo.EnsureIndexes,
	); err != nil {
		return nil, err
	}

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return nil, err
	}

	// --- Identity & Collaborators ---
	verifier := identity.NewFirebaseVerifier(cfg.Firebase.ProjectID, logger)
	idAdmin := identity.NewAdmin(cfg.Firebase.AdminAPIKey, logger)
	resolver := caller.NewResolver(
		employee.NewDirectory(employeeRepo),
		user.NewDirectory(userRepo),
		logger,
	)
	authMW := middleware.Auth(verifier, resolver)

	audit := auditlog.NewRecorder(auditRepo, logger)
	publisher := kafka.NewNoopPublisher()
	if cfg.Kafka.Enabled() {
		publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	}
	certGen := certificate.New(cfg.Certificate.RenderURL, logger)
	gateway := subscription.NewGateway(cfg.Payment.ClientID, cfg.Payment.ClientSecret)
	uploader := media.NewUploader(cfg.Media.KeyID, cfg.Media.Secret)

	// --- Services ---
	userService := user.NewService(userRepo, audit, logger)
	employeeService := employee.NewService(employeeRepo, idAdmin, publisher, audit, logger)
	sopService := sop.NewService(sopRepo, progressRepo, employeeRepo, certGen, publisher, audit, rdb, logger)
	trainingService := training.NewService(trainingRepo, employeeRepo, publisher, audit, logger)
	subscriptionService := subscription.NewService(subscriptionRepo, gateway, audit, logger)
	settingsService := settings.NewService(settingsRepo, audit, logger)
	statsService := stats.NewService(employeeRepo, trainingRepo, sopRepo, progressRepo, logger)

	// --- Handlers ---
	userHandler := user.NewHandler(userService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	sopHandler := sop.NewHandler(sopService)
	trainingHandler := training.NewHandler(trainingService)
	subscriptionHandler := subscription.NewHandler(subscriptionService)
	settingsHandler := settings.NewHandler(settingsService)
	statsHandler := stats.NewHandler(statsService)
	mediaHandler := media.NewHandler(uploader)
	auditHandler := auditlog.NewHandler(auditRepo)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		user.RegisterRoutes(api, userHandler, authMW)
		employee.RegisterRoutes(api, employeeHandler, authMW, rbacService, logger)
		sop.RegisterRoutes(api, sopHandler, authMW, rbacService, rdb, logger)
		training.RegisterRoutes(api, trainingHandler, authMW, rbacService, rdb, logger)
		subscription.RegisterRoutes(api, subscriptionHandler, authMW, rbacService, logger)
		settings.RegisterRoutes(api, settingsHandler, authMW, rbacService, logger)
		stats.RegisterRoutes(api, statsHandler, authMW, rbacService, logger)
		media.RegisterRoutes(api, mediaHandler, authMW, rbacService, logger)
		auditlog.RegisterRoutes(api, auditHandler, authMW, rbacService, logger)
	}

	return audit, nil
}
