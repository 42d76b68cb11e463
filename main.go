package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/real8co/real8-price-updater/apis"
	"github.com/real8co/real8-price-updater/cache"
	"github.com/real8co/real8-price-updater/catalog"
	"github.com/real8co/real8-price-updater/config"
	"github.com/real8co/real8-price-updater/handler"
	"github.com/real8co/real8-price-updater/horizon"
	"github.com/real8co/real8-price-updater/updater"
)

func main() {
	// load environment variables; a missing .env file is fine in production
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ no .env file found, using process environment")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := catalog.New(*cfg)
	if err != nil {
		log.Fatalf("failed to open product catalog: %v", err)
	}
	defer store.Close()

	snapshots, err := cache.New(*cfg)
	if err != nil {
		log.Fatalf("failed to connect price cache: %v", err)
	}
	defer snapshots.Close()

	source := horizon.NewClient(*cfg)
	rates := apis.NewCoinGecko(*cfg)

	u := updater.New(source, rates, snapshots, store, cfg.ProductID)
	sched := updater.NewScheduler(u, snapshots, cfg.Interval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	api := handler.NewServer(snapshots, cfg.ShowXLMPrice)
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.Handler(),
	}

	go func() {
		log.Printf("Starting server on %s", cfg.ListenAddr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("⏳ shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ server shutdown: %v", err)
	}

	if err := sched.Stop(shutdownCtx); err != nil {
		log.Printf("⚠️ scheduler shutdown: %v", err)
	}
}
