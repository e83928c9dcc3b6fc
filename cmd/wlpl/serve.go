package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fekuna/wlpl-service/internal/product"
	"github.com/fekuna/wlpl-service/internal/product/lookup/openfoodfacts"
	"github.com/fekuna/wlpl-service/internal/server"
	"github.com/fekuna/wlpl-service/internal/support"
	"github.com/fekuna/wlpl-service/pkg/broker"
	"github.com/fekuna/wlpl-service/pkg/cache"
	"github.com/fekuna/wlpl-service/pkg/i18n"
	"github.com/fekuna/wlpl-service/pkg/search"
	"github.com/fekuna/wlpl-service/pkg/telemetry"
	"github.com/spf13/cobra"

	analyticsH "github.com/fekuna/wlpl-service/internal/analytics/handler"
	analyticsRepoPkg "github.com/fekuna/wlpl-service/internal/analytics/repository"
	analyticsUCPkg "github.com/fekuna/wlpl-service/internal/analytics/usecase"

	catH "github.com/fekuna/wlpl-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/wlpl-service/internal/category/repository"
	catUCPkg "github.com/fekuna/wlpl-service/internal/category/usecase"

	dashH "github.com/fekuna/wlpl-service/internal/dashboard/handler"
	dashRepoPkg "github.com/fekuna/wlpl-service/internal/dashboard/repository"
	dashUCPkg "github.com/fekuna/wlpl-service/internal/dashboard/usecase"

	decH "github.com/fekuna/wlpl-service/internal/decision/handler"
	decRepoPkg "github.com/fekuna/wlpl-service/internal/decision/repository"
	decUCPkg "github.com/fekuna/wlpl-service/internal/decision/usecase"

	"github.com/fekuna/wlpl-service/internal/order"
	orderH "github.com/fekuna/wlpl-service/internal/order/handler"
	orderRepoPkg "github.com/fekuna/wlpl-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/wlpl-service/internal/order/usecase"

	perkH "github.com/fekuna/wlpl-service/internal/perk/handler"
	perkRepoPkg "github.com/fekuna/wlpl-service/internal/perk/repository"
	perkUCPkg "github.com/fekuna/wlpl-service/internal/perk/usecase"

	prodH "github.com/fekuna/wlpl-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/wlpl-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/wlpl-service/internal/product/usecase"

	shopH "github.com/fekuna/wlpl-service/internal/shopping/handler"
	shopListenerPkg "github.com/fekuna/wlpl-service/internal/shopping/listener"
	shopRepoPkg "github.com/fekuna/wlpl-service/internal/shopping/repository"
	shopUCPkg "github.com/fekuna/wlpl-service/internal/shopping/usecase"

	supportH "github.com/fekuna/wlpl-service/internal/support/handler"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, gRPC health service and event listeners",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	// 1. Load Configuration
	cfg := loadConfig()

	// 1.5 Initialize i18n
	translator, err := i18n.New()
	if err != nil {
		return err
	}

	// 2. Initialize Logger
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	// 2.5 Initialize Tracing
	shutdownTracing, err := telemetry.Init(context.Background(), &telemetry.Config{
		ServiceName:  "wlpl-service",
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		appLogger.Fatal("Could not initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// 3. Connect to Database
	db, err := openPostgres(cfg)
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	shopRepo := shopRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	decRepo := decRepoPkg.NewPGRepository(db)
	perkRepo := perkRepoPkg.NewPGRepository(db)
	dashRepo := dashRepoPkg.NewPGRepository(db)
	analyticsRepo := analyticsRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5.5 Initialize Kafka
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.InventoryTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	kafkaProducer := broker.NewProducer(cfg.Kafka.Brokers)
	defer kafkaProducer.Close()
	appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.InventoryTopic))

	// 5.8 Initialize Elasticsearch
	var searcher product.Searcher
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (product search falls back to SQL)", zap.Error(err))
	} else {
		searcher = esClient
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	catalog, err := support.DefaultCatalog()
	if err != nil {
		appLogger.Fatal("Could not load FAQ catalog", zap.Error(err))
	}

	// 6. Initialize UseCases
	lookupClient := openfoodfacts.NewClient(cfg.Lookup.OpenFoodFactsURL, time.Duration(cfg.Lookup.TimeoutSeconds)*time.Second)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, searcher, lookupClient, appLogger)
	shopUC := shopUCPkg.NewShoppingUseCase(shopRepo, redisClient, prodUC, catUC, translator, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(
		orderRepo,
		shopUC,
		prodRepo,
		kafkaProducer,
		order.NewPricing(cfg.Order.ServiceFeeRate, cfg.Order.MinServiceFee, cfg.Order.DeliveryFee),
		orderUCPkg.Topics{Orders: cfg.Kafka.OrderTopic, Inventory: cfg.Kafka.InventoryTopic},
		appLogger,
	)
	decUC := decUCPkg.NewDecisionUseCase(decRepo, appLogger)
	perkUC := perkUCPkg.NewPerkUseCase(perkRepo, dashRepo, redisClient, kafkaProducer, cfg.Kafka.PerkTopic, appLogger)
	dashUC := dashUCPkg.NewDashboardUseCase(dashRepo, appLogger)
	analyticsUC := analyticsUCPkg.NewAnalyticsUseCase(analyticsRepo, decUC, perkRepo, appLogger)

	// 6.5 Initialize Listeners
	shopListener := shopListenerPkg.NewInventoryListener(kafkaConsumer, shopUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go shopListener.Start(ctx)

	// 7. Initialize Handlers
	router := server.NewRouter(&server.Handlers{
		Shopping:  shopH.NewShoppingHandler(shopUC, appLogger),
		Orders:    orderH.NewOrderHandler(orderUC, appLogger),
		Decisions: decH.NewDecisionHandler(decUC, appLogger),
		Perks:     perkH.NewPerkHandler(perkUC, appLogger),
		Products:  prodH.NewProductHandler(prodUC, appLogger),
		Category:  catH.NewCategoryHandler(catUC, appLogger),
		Analytics: analyticsH.NewAnalyticsHandler(analyticsUC, appLogger),
		Dashboard: dashH.NewDashboardHandler(dashUC, appLogger),
		Support:   supportH.NewSupportHandler(catalog),
	}, appLogger, cfg.IsDevelopment())

	// 8. Start HTTP Server
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.Server.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 9. Start gRPC Health Server
	lis, err := net.Listen("tcp", cfg.Server.GRPCPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", cfg.Server.GRPCPort), zap.Error(err))
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("port", cfg.Server.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
	return nil
}
