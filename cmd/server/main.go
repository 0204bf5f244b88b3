package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/victorazevedo0/loja-virtual/internal/catalog"
	"github.com/victorazevedo0/loja-virtual/internal/config"
	h "github.com/victorazevedo0/loja-virtual/internal/http"
	"github.com/victorazevedo0/loja-virtual/internal/repository"
	"github.com/victorazevedo0/loja-virtual/internal/service"
	"github.com/victorazevedo0/loja-virtual/pkg/logger"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		logger.New(logger.DefaultConfig()).Fatal("failed to read .env", "error", err)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.New(logger.DefaultConfig()).Fatal("invalid configuration", "error", err)
	}

	log := logger.New(cfg.Log)
	log.Info("storefront starting...", "port", cfg.HTTPPort)

	// Database setup
	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := repository.Open(startCtx, cfg.DatabaseURL, cfg.Pool, log)
	if err != nil {
		startCancel()
		log.Fatal("failed to connect to database", "error", err)
	}
	defer store.Close()

	if cfg.ResetDatabase {
		log.Warn("resetting database schema, all data will be dropped")
		err = store.ResetSchema(startCtx)
	} else {
		err = store.RunMigrations(startCtx)
	}
	startCancel()
	if err != nil {
		log.Fatal("failed to prepare database schema", "error", err)
	}
	log.Info("database migrations completed", "dialect", store.Dialect())

	// Services
	catalogClient := catalog.NewClient(catalog.Config{
		URL:     cfg.CatalogURL,
		Timeout: cfg.CatalogTimeout,
	}, log)
	orders := service.NewOrderService(store, log)
	products := service.NewProductService(store, catalogClient, log)

	webHandler, err := h.NewWebHandler(log)
	if err != nil {
		log.Fatal("failed to load templates", "error", err)
	}

	router := h.NewRouter(h.RouterConfig{
		Orders:         h.NewOrdersHandler(orders, cfg.RequestTimeout, cfg.MaxRequestBodySize, log),
		Products:       h.NewProductHandler(products, cfg.RequestTimeout, cfg.RequestTimeout, cfg.MaxRequestBodySize, log),
		Web:            webHandler,
		Health:         h.NewHealthHandler(store, log),
		RequestTimeout: cfg.RequestTimeout,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	store.LogStats()

	log.Info("server exited")
}
