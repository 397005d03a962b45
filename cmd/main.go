package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/autogen/autogen/internal/alerts"
	"github.com/autogen/autogen/internal/auth"
	"github.com/autogen/autogen/internal/config"
	"github.com/autogen/autogen/internal/db"
	"github.com/autogen/autogen/internal/handlers"
	"github.com/autogen/autogen/internal/middleware"
)

func main() {
	cfg := config.Load()

	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.WithError(err).Error("mongo disconnect failed")
		}
	}()
	logger.WithField("db", cfg.MongoDB).Info("connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	cars := &db.MongoCarCollection{Collection: database.Collection("cars")}
	garages := &db.MongoGarageCollection{Collection: database.Collection("garages")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)

	var publisher alerts.Publisher = alerts.NoopPublisher{}
	if cfg.MQTTBroker != "" {
		p, err := alerts.NewMQTTPublisher(cfg.MQTTBroker, "autogen-api", logger)
		if err != nil {
			logger.WithError(err).Warn("price alerts disabled: broker unreachable")
		} else {
			publisher = p
			defer p.Close()
			logger.WithField("broker", cfg.MQTTBroker).Info("price alert publisher connected")
		}
	}

	authMw := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	authHandler := handlers.NewAuthHandler(authService, users)
	carsHandler := handlers.NewCarsHandler(cars, users, publisher, logger)
	garageHandler := handlers.NewGarageHandler(garages, cars, logger)
	listingsHandler := handlers.NewListingsHandler()

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimiter.RateLimit(300, 60))

		r.Get("/health", handlers.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(authMw.RequireAuth)
				r.Get("/profile", authHandler.GetProfile)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Post("/password", authHandler.ChangePassword)
			})
		})

		r.Route("/cars", func(r chi.Router) {
			r.With(authMw.OptionalAuth).Get("/", carsHandler.List)
			r.With(authMw.OptionalAuth).Get("/{id}", carsHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authMw.RequireAuth)
				r.Post("/", carsHandler.Create)
				r.Put("/{id}", carsHandler.Update)
				r.Delete("/{id}", carsHandler.Delete)
			})
		})

		r.Route("/garage", func(r chi.Router) {
			r.Use(authMw.RequireAuth)
			r.Get("/", garageHandler.Get)
			r.Post("/saved", garageHandler.AddSaved)
			r.Delete("/saved/{carId}", garageHandler.RemoveSaved)
			r.Post("/watchlist", garageHandler.AddWatchlist)
			r.Delete("/watchlist/{carId}", garageHandler.RemoveWatchlist)
		})

		r.Route("/listings", func(r chi.Router) {
			r.Use(authMw.RequireAuth)
			r.Post("/scan", listingsHandler.Scan)
			r.Post("/generate", listingsHandler.Generate)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Info("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("graceful shutdown failed")
		}
	}
}
