package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"couple-space-backend/internal/config"
	"couple-space-backend/internal/handlers"
	"couple-space-backend/internal/middleware"
	"couple-space-backend/internal/repository"
	"couple-space-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	coupleRepo := repository.NewCoupleRepository(db)
	anniversaryRepo := repository.NewAnniversaryRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	wishItemRepo := repository.NewWishItemRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	// Initialize services
	wsHub := services.NewWSHub()
	userService := services.NewUserService(userRepo, cfg.JWT.Secret)
	coupleService := services.NewCoupleService(coupleRepo, userRepo)
	anniversaryService := services.NewAnniversaryService(anniversaryRepo)
	chatService := services.NewChatService(messageRepo, wsHub)
	wishlistService := services.NewWishlistService(wishItemRepo)
	photoService, err := services.NewPhotoService(
		photoRepo,
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create photo service")
	}
	pushService, err := services.NewPushService(
		cfg.APNs.CertPath,
		cfg.APNs.CertPassword,
		cfg.APNs.Topic,
		cfg.APNs.Production,
		anniversaryRepo,
		coupleRepo,
		userRepo,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push service")
	}

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	coupleHandler := handlers.NewCoupleHandler(coupleService, wsHub)
	anniversaryHandler := handlers.NewAnniversaryHandler(coupleService, anniversaryService)
	chatHandler := handlers.NewChatHandler(coupleService, chatService)
	photoHandler := handlers.NewPhotoHandler(coupleService, photoService)
	wishlistHandler := handlers.NewWishlistHandler(coupleService, wishlistService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService, coupleService, chatService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.CreateUser)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/users/me", userHandler.GetMe)
			r.Patch("/users/me", userHandler.UpdateMe)

			r.Post("/couples", coupleHandler.CreateCouple)
			r.Post("/couples/join", coupleHandler.JoinCouple)
			r.Get("/couples/me", coupleHandler.GetMyCouple)
			r.Get("/couples/partner", coupleHandler.GetPartner)

			r.Post("/anniversaries", anniversaryHandler.Create)
			r.Get("/anniversaries", anniversaryHandler.List)
			r.Get("/anniversaries/today", anniversaryHandler.Today)
			r.Get("/anniversaries/upcoming", anniversaryHandler.Upcoming)
			r.Get("/anniversaries/{id}", anniversaryHandler.Get)
			r.Patch("/anniversaries/{id}", anniversaryHandler.Update)
			r.Delete("/anniversaries/{id}", anniversaryHandler.Delete)

			r.Post("/messages", chatHandler.Send)
			r.Get("/messages", chatHandler.List)
			r.Post("/messages/{id}/reactions", chatHandler.React)
			r.Delete("/messages/{id}", chatHandler.Delete)

			r.Post("/photos/upload", photoHandler.Upload)
			r.Post("/photos/confirm", photoHandler.Confirm)
			r.Get("/photos", photoHandler.List)
			r.Delete("/photos/{id}", photoHandler.Delete)

			r.Post("/wishlist", wishlistHandler.Add)
			r.Get("/wishlist", wishlistHandler.List)
			r.Post("/wishlist/{id}/toggle", wishlistHandler.Toggle)
			r.Delete("/wishlist/{id}", wishlistHandler.Delete)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Reminder loop
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	if cfg.Reminders.Enabled && pushService.Enabled() {
		go pushService.ReminderLoop(loopCtx, cfg.Reminders.ScanInterval)
		log.Info().
			Dur("scan_interval", cfg.Reminders.ScanInterval).
			Msg("Anniversary reminder loop started")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stopLoop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

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
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
