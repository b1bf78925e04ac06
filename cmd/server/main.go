package main

import (
	"fmt"
	"log"

	"github.com/quangtran/folio-api/adapters/event"
	httpAdapter "github.com/quangtran/folio-api/adapters/http"
	"github.com/quangtran/folio-api/adapters/persistence"
	authUC "github.com/quangtran/folio-api/internal/application/usecase/auth"
	contactUC "github.com/quangtran/folio-api/internal/application/usecase/contact"
	portfolioUC "github.com/quangtran/folio-api/internal/application/usecase/portfolio"
	"github.com/quangtran/folio-api/internal/config"
	"github.com/quangtran/folio-api/pkg/auth"
	"github.com/quangtran/folio-api/pkg/logger"
)

func main() {
	fmt.Println("Start Folio API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	portfolioRepo := persistence.NewPostgresPortfolioRepo(dbPool, appLogger)
	contactRepo := persistence.NewPostgresContactRepo(dbPool, appLogger)
	documentCache := persistence.NewPortfolioCache(redisClient, cfg.Redis.CacheTTL, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	changePasswordUseCase := authUC.NewChangePasswordUseCase(userRepo, appLogger)

	getPortfolioUseCase := portfolioUC.NewGetPortfolioUseCase(portfolioRepo, documentCache)
	updateSectionUseCase := portfolioUC.NewUpdateSectionUseCase(portfolioRepo, documentCache, kafkaClient, appLogger)
	addItemUseCase := portfolioUC.NewAddItemUseCase(portfolioRepo, documentCache, kafkaClient, appLogger)
	updateItemUseCase := portfolioUC.NewUpdateItemUseCase(portfolioRepo, documentCache, kafkaClient, appLogger)
	deleteItemUseCase := portfolioUC.NewDeleteItemUseCase(portfolioRepo, documentCache, kafkaClient, appLogger)

	addCustomSectionUseCase := portfolioUC.NewAddCustomSectionUseCase(portfolioRepo, documentCache, kafkaClient, appLogger)
	deleteCustomSectionUseCase := portfolioUC.NewDeleteCustomSectionUseCase(portfolioRepo, documentCache, kafkaClient, appLogger)
	addEntryUseCase := portfolioUC.NewAddEntryUseCase(portfolioRepo, documentCache, kafkaClient, appLogger)
	updateEntryUseCase := portfolioUC.NewUpdateEntryUseCase(portfolioRepo, documentCache, kafkaClient, appLogger)
	deleteEntryUseCase := portfolioUC.NewDeleteEntryUseCase(portfolioRepo, documentCache, kafkaClient, appLogger)

	submitContactUseCase := contactUC.NewSubmitUseCase(contactRepo, kafkaClient, appLogger)
	listMessagesUseCase := contactUC.NewListMessagesUseCase(contactRepo)
	markReadUseCase := contactUC.NewMarkReadUseCase(contactRepo)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth: httpAdapter.NewAuthHandler(loginUseCase, changePasswordUseCase),
		Portfolio: httpAdapter.NewPortfolioHandler(
			getPortfolioUseCase,
			updateSectionUseCase,
			addItemUseCase,
			updateItemUseCase,
			deleteItemUseCase,
			appLogger,
		),
		CustomSection: httpAdapter.NewCustomSectionHandler(
			addCustomSectionUseCase,
			deleteCustomSectionUseCase,
			addEntryUseCase,
			updateEntryUseCase,
			deleteEntryUseCase,
			appLogger,
		),
		Contact: httpAdapter.NewContactHandler(
			submitContactUseCase,
			listMessagesUseCase,
			markReadUseCase,
			appLogger,
		),
	}

	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)
	router := httpAdapter.NewRouter(handlers, authMiddleware, appLogger)

	log.Printf("Server running on port %s", cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Cannot run server: %v", err)
	}
}
