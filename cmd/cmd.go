package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"couple-space-backend/internal/cache"
	"couple-space-backend/internal/database"
	"couple-space-backend/internal/handlers"
	"couple-space-backend/internal/middleware"
	"couple-space-backend/internal/repository"
	"couple-space-backend/internal/services"
	"couple-space-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(configPath)
	},
}

// Run starts the API server and blocks until SIGINT or SIGTERM
func Run(path string) error {
	// Load configuration
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(cfg.Database); err != nil {
			return err
		}
		log.Info().Msg("Database migrations applied")
	}

	// Connect to database
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Optional Redis cache
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		redisCache, err = cache.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	}

	// Optional S3 photo storage
	var blobs services.BlobStore
	if cfg.Storage.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		blobs = s3Store
		log.Info().Str("bucket", cfg.Storage.S3Bucket).Msg("Photo storage on S3")
	}

	loc := cfg.App.Location()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	pairRepo := repository.NewPairRepository(db)
	letterRepo := repository.NewLetterRepository(db)
	moodRepo := repository.NewMoodRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, services.NewBcryptHasher(), cfg.JWT.Secret, cfg.JWT.TokenTTL())
	pairService := services.NewPairService(userRepo, pairRepo, loc)
	letterService := services.NewLetterService(letterRepo)
	moodService := services.NewMoodService(moodRepo)
	photoService := services.NewPhotoService(photoRepo, blobs)
	questionService := services.NewQuestionService(questionRepo, answerRepo, redisCache, loc)
	generator := services.NewAnniversaryGenerator(userRepo, notificationRepo, redisCache)
	notificationService := services.NewNotificationService(notificationRepo, generator, loc)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, pairService)
	coupleHandler := handlers.NewCoupleHandler(pairService)
	letterHandler := handlers.NewLetterHandler(letterService)
	moodHandler := handlers.NewMoodHandler(moodService)
	photoHandler := handlers.NewPhotoHandler(photoService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"postgres": db,
		"redis":    redisCache,
	})

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(corsMiddleware)

	r.Get("/healthz", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/auth/me", userHandler.Me)
			r.Post("/auth/link-partner", userHandler.LinkPartner)
			r.Get("/couple", coupleHandler.GetCouple)

			r.Get("/letters", letterHandler.GetLetters)
			r.Post("/letters", letterHandler.CreateLetter)
			r.Delete("/letters/{letter_id}", letterHandler.DeleteLetter)

			r.Get("/moods", moodHandler.GetMoods)
			r.Post("/moods", moodHandler.CreateMood)
			r.Get("/moods/latest", moodHandler.GetLatestMoods)

			r.Get("/photos", photoHandler.GetPhotos)
			r.Post("/photos", photoHandler.UploadPhoto)
			r.Delete("/photos/{photo_id}", photoHandler.DeletePhoto)

			r.Get("/questions/daily", questionHandler.GetDailyQuestion)
			r.Get("/questions/history", questionHandler.GetHistory)
			r.Post("/questions/answers", questionHandler.SubmitAnswer)
			r.Get("/questions/answers/{question_id}", questionHandler.GetAnswers)

			r.Get("/notifications", notificationHandler.GetNotifications)
			r.Put("/notifications/{notification_id}/read", notificationHandler.MarkRead)
			r.Get("/notifications/unread/count", notificationHandler.UnreadCount)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("timezone", loc.String()).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

// setupLogger configures zerolog logger
func setupLogger(level, format string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
