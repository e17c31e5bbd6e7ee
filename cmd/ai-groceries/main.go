package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantnexusai/ai-groceries/internal/ai"
	"github.com/quantnexusai/ai-groceries/internal/cart"
	"github.com/quantnexusai/ai-groceries/internal/catalog"
	"github.com/quantnexusai/ai-groceries/internal/checkout"
	"github.com/quantnexusai/ai-groceries/internal/config"
	"github.com/quantnexusai/ai-groceries/internal/db"
	"github.com/quantnexusai/ai-groceries/internal/events"
	"github.com/quantnexusai/ai-groceries/internal/httpapi"
	"github.com/quantnexusai/ai-groceries/internal/order"
	"github.com/quantnexusai/ai-groceries/internal/payments"
	"github.com/quantnexusai/ai-groceries/internal/upload"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[ai-groceries] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage. An empty DATABASE_URL runs the whole service on
	// in-memory fixtures.
	var (
		catalogRepo catalog.Repository
		orderRepo   order.Repository
	)
	if cfg.Demo() {
		logger.Println("no DATABASE_URL set, running in demo mode with fixture data")
		catalogRepo = catalog.NewFixtureRepository()
		orderRepo = order.NewMemoryRepository()
	} else {
		if err := db.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			logger.Fatalf("migrations: %v", err)
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		catalogRepo = catalog.NewPostgresRepository(pool)
		orderRepo = order.NewPostgresRepository(pool)
	}

	// Cart snapshots live in Redis when available, memory otherwise.
	var cartRepo cart.SnapshotRepository
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("connect redis: %v", err)
		}
		defer rdb.Close()
		cartRepo = cart.NewRedisRepository(rdb, logger)
	} else {
		logger.Println("no REDIS_ADDR set, cart snapshots are in-memory")
		cartRepo = cart.NewMemoryRepository(logger)
	}
	cartSvc := cart.NewService(cartRepo)

	// Order events. Publishing is optional infrastructure.
	var publisher payments.OrderCreatedPublisher
	if cfg.RabbitURL != "" {
		conn, err := events.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("connect rabbitmq: %v", err)
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatalf("open publisher channel: %v", err)
		}
		defer pub.Close()
		publisher = pub
	}

	// Payment provider. Nil client selects the offline checkout path.
	var paymentClient *payments.Client
	var sessionCreator checkout.SessionCreator
	if cfg.PaymentAPIKey != "" {
		paymentClient = payments.NewClient(cfg.PaymentBaseURL, cfg.PaymentAPIKey, cfg.UpstreamTimeout, logger)
		sessionCreator = paymentClient
	} else {
		logger.Println("no PAYMENT_API_KEY set, checkout confirms orders locally")
	}
	receiver := payments.NewReceiver(cfg.PaymentWebhookSecret, orderRepo, publisher, logger)

	// AI proxy.
	var completer ai.Completer
	if cfg.AIAPIKey != "" {
		completer = ai.NewAnthropicClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, cfg.UpstreamTimeout, logger)
	}
	aiSvc := ai.NewService(completer, logger)

	// Uploads fall back to placeholder URLs without object storage.
	var store upload.ObjectStore = upload.PlaceholderStore{}
	if cfg.StorageURL != "" {
		store = upload.NewBucketStore(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket, cfg.UpstreamTimeout)
	}
	uploadSvc := upload.NewService(store, logger)

	router := httpapi.NewRouter(httpapi.Handlers{
		Catalog:  httpapi.NewCatalogHandler(catalogRepo, logger),
		Cart:     httpapi.NewCartHandler(cartSvc, catalogRepo, logger),
		Checkout: httpapi.NewCheckoutHandler(checkout.NewOrchestrator(cartSvc, sessionCreator, logger), cfg.PublicBaseURL, logger),
		Payments: httpapi.NewPaymentsHandler(paymentClient, receiver, logger),
		AI:       httpapi.NewAIHandler(aiSvc, logger),
		Upload:   httpapi.NewUploadHandler(uploadSvc, logger),
		Orders:   httpapi.NewOrderHandler(orderRepo, logger),
	}, httpapi.RouterConfig{
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		AdminJWTSecret:   cfg.AdminJWTSecret,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Printf("ai-groceries listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	cancel()
}
