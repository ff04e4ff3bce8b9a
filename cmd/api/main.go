package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gracecourt/gracecourt-api/internal/config"
	"github.com/gracecourt/gracecourt-api/internal/domain/auth"
	"github.com/gracecourt/gracecourt-api/internal/domain/availability"
	"github.com/gracecourt/gracecourt-api/internal/domain/booking"
	"github.com/gracecourt/gracecourt-api/internal/domain/message"
	"github.com/gracecourt/gracecourt-api/internal/domain/notification"
	"github.com/gracecourt/gracecourt-api/internal/domain/property"
	"github.com/gracecourt/gracecourt-api/internal/domain/room"
	"github.com/gracecourt/gracecourt-api/internal/domain/testimonial"
	"github.com/gracecourt/gracecourt-api/internal/domain/user"
	"github.com/gracecourt/gracecourt-api/internal/middleware"
	"github.com/gracecourt/gracecourt-api/internal/pkg/database"
	"github.com/gracecourt/gracecourt-api/internal/pkg/imaging"
	"github.com/gracecourt/gracecourt-api/internal/pkg/jwt"
	"github.com/gracecourt/gracecourt-api/internal/pkg/logger"
	"github.com/gracecourt/gracecourt-api/internal/pkg/metrics"
	pkgresponse "github.com/gracecourt/gracecourt-api/internal/pkg/response"
	"github.com/gracecourt/gracecourt-api/internal/pkg/storage"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Gracecourt API")

	db, err := database.NewPostgres(database.PostgresConfig{
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if cfg.RunMigrations {
		if err := database.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	store, err := storage.New(storage.Config{
		Driver:      cfg.StorageDriver,
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3Bucket:    cfg.S3Bucket,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
		S3PublicURL: cfg.S3PublicURL,
		LocalPath:   cfg.LocalStoragePath,
		LocalURL:    cfg.LocalStorageURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)
	hub := notification.NewHub(redisClient)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)

	app := newApp(cfg, db, redisClient, store, jwtService, hub)

	if err := app.auth.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap admin account")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.router(cfg, jwtService, limiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &run.Group{}
	g.Add(func() error {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
	})

	g.Add(func() error {
		log.Info().Str("addr", metricsServer.Addr).Msg("Metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		if err := metricsServer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to stop metrics server")
		}
	})

	g.Add(func() error {
		return hub.Run(ctx)
	}, func(error) {
		cancel()
	})

	g.Add(func() error {
		limiter.Run(ctx)
		return nil
	}, func(error) {
		cancel()
	})

	g.Add(run.SignalHandler(context.Background(), syscall.SIGINT, syscall.SIGTERM))

	if err := g.Run(); err != nil {
		var sig run.SignalError
		if !errors.As(err, &sig) {
			log.Error().Err(err).Msg("Server exited with error")
			os.Exit(1)
		}
	}

	log.Info().Msg("Server exited properly")
}

type app struct {
	auth *auth.Service

	authHandler         *auth.Handler
	propertyHandler     *property.Handler
	roomHandler         *room.Handler
	availabilityHandler *availability.Handler
	bookingHandler      *booking.Handler
	testimonialHandler  *testimonial.Handler
	messageHandler      *message.Handler
	notificationHandler *notification.Handler
}

func newApp(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, store storage.Storage, jwtService *jwt.Service, hub *notification.Hub) *app {
	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	propertyRepo := property.NewRepository(db)
	roomRepo := room.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	testimonialRepo := testimonial.NewRepository(db)
	messageRepo := message.NewRepository(db)

	// ---------- Availability ----------
	// a nil client yields a nil cache, which every caller treats as disabled
	var searchCache *availability.Cache
	if redisClient != nil {
		searchCache = availability.NewCache(redisClient, cfg.SearchCacheTTL)
	}
	checker := availability.NewChecker(availability.NewBookingStore(db), propertyRepo)
	checker.SetCache(searchCache)

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService)

	propertyService := property.NewService(propertyRepo, store, imaging.NewProcessor(imaging.DefaultConfig()))
	propertyService.SetSearchInvalidator(searchCache)

	roomService := room.NewService(roomRepo, propertyRepo)

	bookingService := booking.NewService(bookingRepo, checker, propertyRepo, roomRepo)
	bookingService.SetSearchInvalidator(searchCache)
	bookingService.SetEventPublisher(hub)

	testimonialService := testimonial.NewService(testimonialRepo, hub)
	messageService := message.NewService(messageRepo, hub)

	return &app{
		auth: authService,

		authHandler:         auth.NewHandler(authService),
		propertyHandler:     property.NewHandler(propertyService),
		roomHandler:         room.NewHandler(roomService),
		availabilityHandler: availability.NewHandler(checker, roomRepo),
		bookingHandler:      booking.NewHandler(bookingService),
		testimonialHandler:  testimonial.NewHandler(testimonialService),
		messageHandler:      message.NewHandler(messageService),
		notificationHandler: notification.NewHandler(hub, jwtService, cfg.AllowedOrigins),
	}
}

func (a *app) router(cfg *config.Config, tokens middleware.TokenValidator, limiter *middleware.RateLimiter) http.Handler {
	authMiddleware := middleware.Auth(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	if cfg.StorageDriver == "local" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.LocalStoragePath))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/auth", a.authHandler.Routes(authMiddleware, limiter.Middleware))

		propertyRouter := a.propertyHandler.Routes(authMiddleware)
		propertyRouter.Get("/search", a.availabilityHandler.SearchProperties)
		propertyRouter.Mount("/{id}/rooms", a.roomHandler.PropertyRoutes(authMiddleware))
		r.Mount("/properties", propertyRouter)

		roomRouter := a.roomHandler.Routes(authMiddleware)
		roomRouter.Get("/{id}/availability", a.availabilityHandler.RoomAvailability)
		r.Mount("/rooms", roomRouter)

		r.Mount("/bookings", a.bookingHandler.Routes(authMiddleware, optionalAuth, limiter.Middleware))
		r.Mount("/testimonials", a.testimonialHandler.Routes(authMiddleware, limiter.Middleware))
		r.Mount("/messages", a.messageHandler.Routes(authMiddleware, limiter.Middleware))

		r.Get("/admin/ws", a.notificationHandler.ServeWS)
	})

	return r
}

func metricsMux() http.Handler {
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	return m
}
