package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/devmojahid/restu-food-sub005/config"
	"github.com/devmojahid/restu-food-sub005/internal/api/catalogv1"
	"github.com/devmojahid/restu-food-sub005/internal/auth"
	"github.com/devmojahid/restu-food-sub005/internal/broker"
	"github.com/devmojahid/restu-food-sub005/internal/cache"
	"github.com/devmojahid/restu-food-sub005/internal/database"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/devmojahid/restu-food-sub005/internal/product"
	"github.com/devmojahid/restu-food-sub005/internal/search"
	"github.com/devmojahid/restu-food-sub005/internal/server"
	"github.com/devmojahid/restu-food-sub005/internal/tracing"

	attrH "github.com/devmojahid/restu-food-sub005/internal/attribute/handler"
	attrRepoPkg "github.com/devmojahid/restu-food-sub005/internal/attribute/repository"
	attrUCPkg "github.com/devmojahid/restu-food-sub005/internal/attribute/usecase"

	invH "github.com/devmojahid/restu-food-sub005/internal/inventory/handler"
	invListenerPkg "github.com/devmojahid/restu-food-sub005/internal/inventory/listener"
	invRepoPkg "github.com/devmojahid/restu-food-sub005/internal/inventory/repository"
	invUCPkg "github.com/devmojahid/restu-food-sub005/internal/inventory/usecase"

	prodH "github.com/devmojahid/restu-food-sub005/internal/product/handler"
	prodRepoPkg "github.com/devmojahid/restu-food-sub005/internal/product/repository"
	prodUCPkg "github.com/devmojahid/restu-food-sub005/internal/product/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Tracing
	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Could not initialize tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// 4. Connect to Database
	db, err := database.NewPostgres(&database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Server.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			appLogger.Fatal("Could not migrate database", zap.Error(err))
		}
	}

	// 5. Initialize Repositories
	attrRepo := attrRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)

	// 6. Initialize Redis
	var store cache.StoreLocker
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	switch {
	case err == nil:
		defer redisClient.Close()
		store = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	case cfg.IsDevelopment():
		appLogger.Warn("Redis unavailable, using in-process cache and locks", zap.Error(err))
		store = cache.NewMemory()
	default:
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}

	// 7. Initialize Elasticsearch
	var searcher product.Searcher
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch, search falls back to the database", zap.Error(err))
	} else {
		searcher = esClient
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 8. Initialize Kafka
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OrdersTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	kafkaProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.EventsTopic,
	})
	defer kafkaProducer.Close()
	appLogger.Info("Kafka configured",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("orders_topic", cfg.Kafka.OrdersTopic),
		zap.String("events_topic", cfg.Kafka.EventsTopic),
	)

	// 9. Initialize UseCases
	attrUC := attrUCPkg.NewAttributeUseCase(attrRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, attrRepo, store, searcher, kafkaProducer, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, store, appLogger, invUCPkg.WithStockObserver(prodUC))

	invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, invUC, appLogger)

	// 10. gRPC Server
	verifier := auth.NewVerifier(cfg.JWT.SecretKey)
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(verifier.UnaryServerInterceptor()))
	catalogv1.RegisterVariationServiceServer(grpcServer, prodH.NewVariationHandler(prodUC, appLogger))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(catalogv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	// 11. HTTP Server
	httpServer := &http.Server{
		Addr: listenAddr(cfg.Server.HTTPPort),
		Handler: server.NewRouter(server.RouterConfig{
			ServiceName: cfg.Tracing.ServiceName,
			Verifier:    verifier,
			Logger:      appLogger,
			Handlers: []server.Registrar{
				prodH.NewHTTPHandler(prodUC, appLogger),
				attrH.NewAttributeHandler(attrUC, appLogger),
				invH.NewInventoryHandler(invUC, appLogger),
			},
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return invListener.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		healthServer.Shutdown()

		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := httpServer.Shutdown(sctx)
		grpcServer.GracefulStop()
		return err
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
		return
	}
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
