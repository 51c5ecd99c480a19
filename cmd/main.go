package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/bridge"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/command"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/config"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/handler"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/middleware"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/query"
	redisclient "github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/redis"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/repository"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Database connection
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Redis connection (broker transport + recent-view cache)
	redis, err := redisclient.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// CQRS: write repo, read repo
	writeRepo := repository.NewTransactionWriteRepository(db)
	readRepo := repository.NewTransactionReadRepository(db, redis.Client, log)

	// Command + Query services
	commandSvc := command.NewTransactionCommandService(writeRepo, readRepo)
	querySvc := query.NewTransactionQueryService(readRepo)

	// Broker request/reply bridge
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	topology := bridge.DefaultTopology(cfg.BridgeGroup)
	replies := bridge.NewReplyPublisher(redis.Client)
	queryBridge := bridge.New(redis.Client, topology, querySvc, replies, log)
	if err := queryBridge.Start(ctx); err != nil {
		log.Fatalf("Failed to start query bridge: %v", err)
	}

	transactionHandler := handler.NewTransactionHandler(commandSvc, querySvc)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware(log))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	transactionHandler.RegisterRoutes(router)

	log.WithField("port", cfg.Port).Info("transaction service starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
