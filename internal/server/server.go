package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"partforge/internal/config"
	"partforge/internal/database"
	custommiddleware "partforge/internal/middleware"
	"partforge/internal/pdf"
	"partforge/internal/repository"
	"partforge/internal/service"
	"partforge/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service) *Server {
	// Create router
	router := chi.NewRouter()

	isDevelopment := cfg.Server.Env == "development"

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, isDevelopment))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, db.Health(r.Context()))
	})

	// Redis backs the auth rate limiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Initialize repositories
	mongoDB := db.DB()
	userRepo := repository.NewUserRepository(mongoDB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(mongoDB)
	categoryRepo := repository.NewCategoryRepository(mongoDB)
	componentRepo := repository.NewComponentRepository(mongoDB)
	partnerRepo := repository.NewPartnerRepository(mongoDB)
	priceRepo := repository.NewPriceRepository(mongoDB)
	configurationRepo := repository.NewConfigurationRepository(mongoDB)

	// Initialize services
	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT)
	catalogService := service.NewCatalogService(categoryRepo, componentRepo, priceRepo, partnerRepo)
	pricingService := service.NewPricingService(partnerRepo, priceRepo, componentRepo, categoryRepo)
	configurationService := service.NewConfigurationService(configurationRepo, userRepo, componentRepo, pdf.NewRenderer())

	// Initialize handlers
	authHandler := transport.NewAuthHandler(userService, logger)
	categoryHandler := transport.NewCategoryHandler(catalogService, logger)
	componentHandler := transport.NewComponentHandler(catalogService, logger)
	partnerHandler := transport.NewPartnerHandler(pricingService, logger)
	priceHandler := transport.NewPriceHandler(pricingService, logger)
	configurationHandler := transport.NewConfigurationHandler(configurationService, logger)
	userHandler := transport.NewUserHandler(userService, logger)

	// Route middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)
	rateLimitMiddleware := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:auth",
	}, logger)

	// Register routes
	authHandler.RegisterRoutes(router, authMiddleware, rateLimitMiddleware)
	categoryHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	componentHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	partnerHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	priceHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	configurationHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	userHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(ctx); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
