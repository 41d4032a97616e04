package main

import (
	"context"
	"fmt"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/markov9/courier/internal/blob"
	"github.com/markov9/courier/internal/config"
	"github.com/markov9/courier/internal/database"
	postgresrepo "github.com/markov9/courier/internal/repository/postgres"
	"github.com/markov9/courier/internal/service"
	"github.com/markov9/courier/internal/transport/http/handlers"
	"github.com/markov9/courier/internal/transport/http/middleware"
	"github.com/markov9/courier/internal/transport/ws"
	"github.com/markov9/courier/internal/typing"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	if err := database.Migrate(context.Background(), pool); err != nil {
		logger.Fatal(err)
	}
	logger.Info("Connected to database")

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal(err)
	}
	defer rdb.Close()
	logger.Info("Connected to redis")

	blobs, err := blob.NewS3Store(blob.S3Config{
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		Bucket:          cfg.S3Bucket,
		ForcePathStyle:  cfg.S3ForcePathStyle,
	})
	if err != nil {
		logger.Fatal(err)
	}

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	friendRepo := postgresrepo.NewFriendshipRepo(pool)
	threadRepo := postgresrepo.NewThreadRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)
	guestRepo := postgresrepo.NewGuestMessageRepo(pool)

	ledger := typing.NewLedger(rdb, typing.DefaultTTL)

	// Services
	userService := service.NewUserService(userRepo)
	friendService := service.NewFriendshipService(friendRepo, userRepo, logger)
	threadService := service.NewThreadService(threadRepo, userRepo, logger)
	messageService := service.NewMessageService(messageRepo, threadRepo, blobs, ledger, logger)
	typingService := service.NewTypingService(ledger, threadRepo)
	guestService := service.NewGuestService(guestRepo)

	// WebSocket hub
	hub := ws.NewHub(logger)
	go hub.Run()

	notifier := ws.NewHubNotifier(hub, logger)
	friendService.SetNotifier(notifier)
	threadService.SetNotifier(notifier)
	messageService.SetNotifier(notifier)
	typingService.SetNotifier(notifier)

	// Handlers
	friendHandler := handlers.NewFriendHandler(friendService, logger)
	threadHandler := handlers.NewThreadHandler(threadService, logger)
	messageHandler := handlers.NewMessageHandler(messageService, logger)
	typingHandler := handlers.NewTypingHandler(typingService, logger)
	userHandler := handlers.NewUserHandler()
	webhookHandler := handlers.NewWebhookHandler(userService, logger)
	guestHandler := handlers.NewGuestHandler(guestService, logger)

	// Middleware
	auth := middleware.Auth(cfg.JWTSecret, userService)
	relay := middleware.RelayAuth(cfg.RelayToken)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	// Identity sync (event relay only)
	mux.Handle("POST /api/v1/webhooks/identity", relay(http.HandlerFunc(webhookHandler.HandleIdentityEvent)))

	// Legacy anonymous board (deprecated, no auth)
	mux.HandleFunc("GET /api/v1/guest/messages", guestHandler.List)
	mux.HandleFunc("POST /api/v1/guest/messages", guestHandler.Create)

	// Protected - Users
	mux.Handle("GET /api/v1/users/me", auth(http.HandlerFunc(userHandler.Get)))

	// Protected - Friends
	mux.Handle("POST /api/v1/friends", auth(http.HandlerFunc(friendHandler.Create)))
	mux.Handle("PATCH /api/v1/friends/{id}", auth(http.HandlerFunc(friendHandler.UpdateStatus)))
	mux.Handle("GET /api/v1/friends/pending", auth(http.HandlerFunc(friendHandler.ListPending)))
	mux.Handle("GET /api/v1/friends", auth(http.HandlerFunc(friendHandler.ListAccepted)))

	// Protected - Threads
	mux.Handle("POST /api/v1/threads", auth(http.HandlerFunc(threadHandler.Create)))
	mux.Handle("GET /api/v1/threads", auth(http.HandlerFunc(threadHandler.List)))
	mux.Handle("GET /api/v1/threads/{id}", auth(http.HandlerFunc(threadHandler.Get)))

	// Protected - Messages
	mux.Handle("GET /api/v1/threads/{id}/messages", auth(http.HandlerFunc(messageHandler.List)))
	mux.Handle("POST /api/v1/threads/{id}/messages", auth(http.HandlerFunc(messageHandler.Create)))
	mux.Handle("DELETE /api/v1/messages/{id}", auth(http.HandlerFunc(messageHandler.Remove)))
	mux.Handle("POST /api/v1/uploads", auth(http.HandlerFunc(messageHandler.GenerateUploadTarget)))

	// Protected - Typing indicators
	mux.Handle("POST /api/v1/threads/{id}/typing", auth(http.HandlerFunc(typingHandler.Upsert)))
	mux.Handle("GET /api/v1/threads/{id}/typing", auth(http.HandlerFunc(typingHandler.List)))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret, userService, threadRepo, typingService, logger))

	// Start server with CORS and request logging
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Infof("Starting server on %s", addr)
	logger.Fatal(http.ListenAndServe(addr, middleware.CORS(middleware.Logging(logger)(mux))))
}
