package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qipad/config"
	"qipad/internal/cache"
	"qipad/internal/database"
	"qipad/internal/job"
	"qipad/internal/mq"
	"qipad/internal/router"
	"qipad/internal/service"
	"qipad/pkg/cloudinary"
)

func main() {
	configPath := os.Getenv("QIPAD_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg := config.Load(configPath)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedSettings(db, &cfg.Business)

	redisClient, err := cache.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	var cloud cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.NewClient(cloudinary.Config{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
		})
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
	} else {
		log.Printf("[main] cloudinary not configured, uploads disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fcm, err := service.NewFCMClient(ctx, cfg.Firebase.ServiceAccountPath)
	if err != nil {
		log.Printf("[main] fcm disabled: %v", err)
		fcm = nil
	}

	engine, services := router.Setup(cfg, db, redisClient, cloud, fcm)

	producer, err := mq.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Printf("[main] kafka unavailable, outbox sender disabled: %v", err)
	} else {
		defer producer.Close()
		go job.NewOutboxSender(services.Outbox, producer, cfg.Business.MaxRetryCount).Run(ctx)
	}
	go job.NewPaymentExpirySweep(services.Payments).Run(ctx)
	go job.NewReferralExpirySweep(services.Referrals).Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown: %v", err)
	}
	log.Println("server stopped")
}
