package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dishagb/storefront/internal/config"
	h "github.com/dishagb/storefront/internal/http"
	"github.com/dishagb/storefront/internal/poller"
	"github.com/dishagb/storefront/internal/repository"
	"github.com/dishagb/storefront/internal/service"
	"github.com/dishagb/storefront/internal/storage"
	"github.com/dishagb/storefront/pkg/logger"
)

func main() {
	cfg := config.Load()
	logg := logger.New("storefront")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Local durable storage: redis when configured, files otherwise.
	var store storage.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		logg.Info("using redis storage", "addr", cfg.RedisAddr)
		store = storage.NewRedisStore(redisClient)
	} else {
		fileStore, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open file storage: %v", err)
		}
		logg.Info("using file storage", "dir", cfg.DataDir)
		store = fileStore
	}

	// Remote order backend is optional; without it every order lands in
	// the local fallback collection.
	var remote repository.OrderRepository
	if cfg.RemoteConfigured() {
		cred := cfg.PostgresCredentials()
		pg, err := repository.NewPostgresRepository(cred)
		if err != nil {
			log.Fatalf("Failed to connect to order backend: %v", err)
		}
		defer pg.Close()
		if err := pg.RunMigrations(cred); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		logg.Info("connected to order backend", "host", cfg.PostgresHost)
		remote = pg
	} else {
		logg.Warn("order backend not configured, orders will persist to local fallback only")
	}

	local := repository.NewLocalRepository(store, cfg.Namespace, logg)
	orders := repository.NewFailover(remote, local, logg)

	checkoutSvc := service.NewCheckout(orders, logg)
	adminSvc := service.NewAdmin(orders, logg)

	go poller.New(adminSvc, cfg.PollInterval, logg).Run(ctx)

	cartHandler := h.NewCartHandler(store, logg, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutSvc, store, logg, cfg.RequestTimeout)
	adminHandler := h.NewAdminHandler(adminSvc, logg, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{item_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{item_id}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.SubmitOrder)

		r.Route("/admin/orders", func(r chi.Router) {
			r.Use(h.AdminAuthMiddleware(cfg.AdminToken))
			r.Get("/", adminHandler.ListOrders)
			r.Post("/refresh", adminHandler.Refresh)
			r.Patch("/{order_id}/payment", adminHandler.UpdatePaymentStatus)
			r.Post("/{order_id}/complete", adminHandler.CompleteOrder)
		})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(r, "storefront"),
	}

	go func() {
		logg.Info("storefront listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	logg.Info("server exited")
}
