package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/logger"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

const (
	connectTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(os.Stdout, cfg.Server.LogLevel)
	log.Info("configuration loaded", "file", config.FileName(), "driver", cfg.Database.Driver)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	app, cleanup, err := newApp(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	// --- Start HTTP Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info("starting server", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("error during fiber shutdown", "error", err)
	}
	cleanup()
	log.Info("server gracefully stopped")
}

// newApp opens the store and the optional event publisher and mounts every
// route. cleanup releases both and is safe to call once the app has stopped.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*fiber.App, func(), error) {
	// --- Initialize Store ---
	store, err := repositories.OpenStore(ctx, repositories.StoreOptions{
		Driver:           cfg.Database.Driver,
		ConnectionString: cfg.Database.ConnectionString,
		Database:         cfg.Database.Name,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	// --- Initialize RabbitMQ Client ---
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.EventsEnabled() {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{
			URL:   cfg.RabbitMQ.URL,
			Queue: cfg.RabbitMQ.Queue,
		}, log)
		if err != nil {
			// Events are best effort; the API keeps serving without them.
			log.Error("product events disabled", "error", err)
		} else {
			events = mqClient
		}
	}

	cleanup := func() {
		if mqClient != nil {
			if err := mqClient.Close(); err != nil {
				log.Error("failed to close RabbitMQ client", "error", err)
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}

	// --- Initialize Services ---
	productService := services.NewProductService(store.Products, events, log)
	categoryService := services.NewCategoryService(store.Categories)

	// --- Initialize Handlers ---
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	healthHandler := handlers.NewHealthHandler(store, log)

	// --- Initialize Fiber App ---
	app := handlers.NewFiberApp(log)
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	// --- API Routes ---
	api := app.Group("/api")
	productHandler.RegisterRoutes(api)
	categoryHandler.RegisterRoutes(api)
	healthHandler.RegisterRoutes(app)

	// --- Front-end ---
	handlers.RegisterFrontEnd(app, cfg.Server.StaticDir)

	return app, cleanup, nil
}
