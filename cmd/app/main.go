package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BloggingApp/bloghub/internal/config"
	"github.com/BloggingApp/bloghub/internal/handler"
	"github.com/BloggingApp/bloghub/internal/logger"
	"github.com/BloggingApp/bloghub/internal/metrics"
	"github.com/BloggingApp/bloghub/internal/rabbitmq"
	"github.com/BloggingApp/bloghub/internal/repository"
	"github.com/BloggingApp/bloghub/internal/server"
	"github.com/BloggingApp/bloghub/internal/service"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("BLOGHUB_CONFIG"))
	if err != nil {
		bootLogger, _ := zap.NewProduction()
		bootLogger.Sugar().Panicf("failed to load config: %s", err.Error())
	}

	log := logger.New(cfg.LogLevel, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	repos, closeRepos, err := repository.Connect(ctx, cfg, log)
	if err != nil {
		log.Sugar().Panicf("failed to connect to storage: %s", err.Error())
	}
	defer closeRepos()

	if err := repos.Migrate(ctx); err != nil {
		log.Sugar().Panicf("failed to migrate storage: %s", err.Error())
	}

	publisher := service.NopPublisher()
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.New(cfg.RabbitMQURL)
		if err != nil {
			log.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
		}
		defer mq.Close()
		publisher = mq
		log.Info("Successfully connected to RabbitMQ")
	} else {
		log.Warn("rabbitmq.url is empty, events are not published")
	}

	m := metrics.New()
	services := service.New(log, repos, publisher, m, service.Options{
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		CacheTTL:   cfg.CacheTTL,
		MaxRetries: cfg.MaxRetries,
	})
	handlers := handler.New(log, services, m, cfg.ClientOrigins)

	srv := server.New(config.ServerConfig{
		Port:           cfg.Port,
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	})
	go func() {
		if err := srv.Run(); err != nil {
			log.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	log.Sugar().Infof("Server started on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
}
