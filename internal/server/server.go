package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"catalog-api/internal/config"
	custommiddleware "catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"
	"catalog-api/internal/transport"
	"catalog-api/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Stored images are served straight from the upload directory
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Upload.Dir)))
	router.Get("/uploads/*", fileServer.ServeHTTP)

	// Redis backs rate limiting on the unauthenticated user endpoints
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	uploads := upload.NewStore(cfg.Upload.Dir, "/uploads", cfg.Upload.MaxFileSize, cfg.Upload.MaxFiles)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subCategoryRepo := repository.NewSubCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Initialize services
	tokenExpiry := time.Duration(cfg.JWT.AccessExpiry) * time.Minute
	userService := service.NewUserService(userRepo, cfg.JWT.Secret, tokenExpiry, cfg.Admin.Secret)
	categoryService := service.NewCategoryService(categoryRepo)
	subCategoryService := service.NewSubCategoryService(subCategoryRepo, categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, subCategoryRepo)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, uploads, logger)
	subCategoryHandler := transport.NewSubCategoryHandler(subCategoryService, logger)
	productHandler := transport.NewProductHandler(productService, uploads, logger)

	// Route guards
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)
	authRateLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:auth",
	}, logger)

	// Register routes
	userHandler.RegisterRoutes(router, authMiddleware, authRateLimiter)
	categoryHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	subCategoryHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	productHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
