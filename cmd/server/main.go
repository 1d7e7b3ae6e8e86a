package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"omegashop/internal/agent"
	agentcontroller "omegashop/internal/agent/controller"
	"omegashop/internal/auth"
	authcontroller "omegashop/internal/auth/controller"
	"omegashop/internal/category"
	"omegashop/internal/chat"
	"omegashop/internal/commons"
	"omegashop/internal/config"
	"omegashop/internal/events"
	"omegashop/internal/identifier"
	"omegashop/internal/infrastructure/logger"
	"omegashop/internal/infrastructure/metrics"
	"omegashop/internal/infrastructure/mysql"
	"omegashop/internal/order"
	"omegashop/internal/product"
	"omegashop/internal/server"
	"omegashop/internal/user"
	"omegashop/internal/vendors"
)

func main() {
	cfg, err := commons.LoadConfig("internal/config/config.yaml")
	if err != nil {
		cfg, err = config.Load()
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	m := metrics.New(prometheus.DefaultRegisterer)

	var publisher events.Publisher
	if cfg.Kafka.Brokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		zapLogger.Info("kafka publisher enabled", zap.String("brokers", cfg.Kafka.Brokers))
	} else {
		publisher = events.NewMemoryBus()
		zapLogger.Info("no kafka brokers configured, events stay in-process")
	}

	registry := identifier.NewRegistry()
	generator := identifier.NewGenerator(registry, zapLogger)

	userModule := user.NewModule(db, zapLogger)
	productModule := product.NewModule(db, registry, generator, zapLogger)
	categoryModule := category.NewModule(db, registry, generator, zapLogger)
	vendorModule := vendor.NewModule(db, registry, generator, zapLogger)
	orderModule := order.NewModule(db, zapLogger, m)
	chatModule := chat.NewModule(db, publisher, cfg.Kafka.MessageTopic, zapLogger, m)

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	authService := auth.NewAuthService(userModule.Service, tokens, zapLogger)
	authController := authcontroller.NewAuthController(authService, zapLogger)

	groq := agent.NewGroqClient(cfg.Groq.APIKey)
	agentService := agent.NewAgentService(groq, cfg.Groq.Model, orderModule.Service, productModule.Service, zapLogger)
	agentController := agentcontroller.NewAgentController(agentService, zapLogger)

	router := server.NewRouter(server.Controllers{
		Auth:     authController,
		User:     userModule.Controller,
		Product:  productModule.Controller,
		Category: categoryModule.Controller,
		Vendor:   vendorModule.Controller,
		Order:    orderModule.Controller,
		Chat:     chatModule.Controller,
		Agent:    agentController,
	}, authService, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
