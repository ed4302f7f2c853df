package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-seller-cms/config"
	"github.com/fekuna/omnipos-seller-cms/internal/broker"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore/bus"
	docRepo "github.com/fekuna/omnipos-seller-cms/internal/docstore/repository"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore/rpc"
	"github.com/fekuna/omnipos-seller-cms/internal/intake"
	intakeListener "github.com/fekuna/omnipos-seller-cms/internal/intake/listener"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	"github.com/fekuna/omnipos-seller-cms/internal/preview"
	"github.com/fekuna/omnipos-seller-cms/internal/reqid"
	"github.com/fekuna/omnipos-seller-cms/internal/seller"
	"github.com/fekuna/omnipos-seller-cms/internal/seller/search"
	"github.com/fekuna/omnipos-seller-cms/internal/server"
	"github.com/fekuna/omnipos-seller-cms/internal/site"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"

	contentH "github.com/fekuna/omnipos-seller-cms/internal/content/handler"
	contentUCPkg "github.com/fekuna/omnipos-seller-cms/internal/content/usecase"

	homeH "github.com/fekuna/omnipos-seller-cms/internal/homepage/handler"
	homeUCPkg "github.com/fekuna/omnipos-seller-cms/internal/homepage/usecase"

	inqH "github.com/fekuna/omnipos-seller-cms/internal/inquiry/handler"
	inqUCPkg "github.com/fekuna/omnipos-seller-cms/internal/inquiry/usecase"

	navH "github.com/fekuna/omnipos-seller-cms/internal/navigation/handler"
	navUCPkg "github.com/fekuna/omnipos-seller-cms/internal/navigation/usecase"

	previewH "github.com/fekuna/omnipos-seller-cms/internal/preview/handler"

	sellerH "github.com/fekuna/omnipos-seller-cms/internal/seller/handler"
	sellerUCPkg "github.com/fekuna/omnipos-seller-cms/internal/seller/usecase"

	settingsH "github.com/fekuna/omnipos-seller-cms/internal/settings/handler"
	settingsRepoPkg "github.com/fekuna/omnipos-seller-cms/internal/settings/repository"
	settingsUCPkg "github.com/fekuna/omnipos-seller-cms/internal/settings/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 1.5 Initialize the message catalog
	notice.Init()
	for _, path := range cfg.Notice.Catalogs {
		if err := notice.Load(path); err != nil {
			log.Printf("Failed to load message catalog %s: %v", path, err)
		}
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Open the document store
	ids, err := docstore.NewIDGenerator(cfg.Store.NodeID)
	if err != nil {
		appLogger.Fatal("Could not create id generator", zap.Error(err))
	}

	var (
		store docstore.Store
		tree  *docstore.Tree
	)
	switch cfg.Store.Mode {
	case "remote":
		client, err := rpc.Dial(cfg.Store.RemoteAddr, ids, appLogger.With(zap.String("component", "docstore-client")))
		if err != nil {
			appLogger.Fatal("Could not dial remote document store", zap.Error(err))
		}
		defer client.Close()
		store = client
		appLogger.Info("Using remote document store", zap.String("addr", cfg.Store.RemoteAddr))

	case "postgres":
		db, err := docRepo.NewPostgres(ctx, &docRepo.Config{
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

		repo := docRepo.NewPGRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			appLogger.Fatal("Could not prepare documents table", zap.Error(err))
		}
		opts := []docstore.Option{docstore.WithPersister(repo), docstore.WithLogger(appLogger)}

		// 3.5 Change bus between instances sharing the database
		if cfg.Redis.Addr != "" {
			changeBus, err := bus.NewRedisBus(ctx, &bus.Config{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
				Channel:  cfg.Redis.Channel,
			}, appLogger)
			if err != nil {
				appLogger.Fatal("Could not connect to Redis", zap.Error(err))
			}
			defer changeBus.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
			opts = append(opts, docstore.WithBus(changeBus))
		}
		tree = docstore.NewTree(ids, opts...)

	case "memory":
		tree = docstore.NewTree(ids, docstore.WithLogger(appLogger))
		appLogger.Warn("Using in-memory document store; content is lost on restart")

	default:
		// Editors still start and report the store as not configured.
		appLogger.Error("Unknown store mode", zap.String("mode", cfg.Store.Mode))
	}
	if tree != nil {
		store = tree
		defer tree.Close()
		go func() {
			if err := tree.Run(ctx); err != nil && ctx.Err() == nil {
				appLogger.Error("Change bus stopped", zap.Error(err))
			}
		}()
	}

	// 4. Initialize the seller index
	var sellerIndex seller.Index
	if len(cfg.Elastic.Addresses) > 0 {
		idx, err := search.NewElasticIndex(cfg.Elastic, appLogger)
		if err == nil {
			err = idx.EnsureIndex(ctx)
		}
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (seller search runs in memory)", zap.Error(err))
		} else {
			sellerIndex = idx
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 5. Initialize UseCases
	navUC := navUCPkg.NewNavigationUseCase(store, appLogger)
	contentUC := contentUCPkg.NewContentUseCase(store, cfg.Editor, appLogger)
	homeUC := homeUCPkg.NewHomepageUseCase(store, appLogger)
	sellerUC := sellerUCPkg.NewSellerUseCase(store, sellerIndex, appLogger)
	inqUC := inqUCPkg.NewInquiryUseCase(store, appLogger)
	settingsUC := settingsUCPkg.NewSettingsUseCase(settingsRepoPkg.NewFileRepository(cfg.Settings.Dir), appLogger)

	editors := map[string]interface {
		Mount() error
		Close()
	}{
		"navigation": navUC,
		"content":    contentUC,
		"homepage":   homeUC,
		"sellers":    sellerUC,
		"inquiries":  inqUC,
	}
	for name, e := range editors {
		if err := e.Mount(); err != nil {
			appLogger.Error("Could not mount editor", zap.String("editor", name), zap.Error(err))
		}
		defer e.Close()
	}
	if err := settingsUC.Mount(ctx); err != nil {
		appLogger.Error("Could not load settings", zap.Error(err))
	}

	// 6. Public intake
	var submitter intake.Submitter = intake.NewDirect(inqUC, sellerUC)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaCfg := &broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic, GroupID: cfg.Kafka.GroupID}

		producer := broker.NewProducer(kafkaCfg)
		defer producer.Close()
		submitter = intake.NewPublisher(producer, appLogger)

		consumer := broker.NewConsumer(kafkaCfg)
		defer consumer.Close()
		listener := intakeListener.NewIntakeListener(consumer, inqUC, sellerUC, appLogger)
		go listener.Start(ctx)
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	publicSite, err := site.NewSite(store, cfg.Site.Name, submitter, appLogger)
	if err != nil {
		appLogger.Fatal("Could not load site templates", zap.Error(err))
	}
	if err := publicSite.Mount(); err != nil {
		appLogger.Error("Could not mount public site", zap.Error(err))
	}
	defer publicSite.Close()

	renderer, err := preview.NewRenderer(cfg.Site.PreviewOrigin)
	if err != nil {
		appLogger.Fatal("Invalid preview origin", zap.Error(err))
	}

	// 7. Initialize Handlers
	srv := server.New(appLogger)
	srv.Watch("navigation", navUC)
	srv.Watch("content", contentUC)
	srv.Watch("homepage", homeUC)
	srv.Watch("sellers", sellerUC)
	srv.Watch("inquiries", inqUC)
	srv.Mount(
		navH.NewNavigationHandler(navUC, appLogger),
		contentH.NewContentHandler(contentUC, appLogger),
		homeH.NewHomepageHandler(homeUC, appLogger),
		sellerH.NewSellerHandler(sellerUC, appLogger),
		inqH.NewInquiryHandler(inqUC, appLogger),
		settingsH.NewSettingsHandler(settingsUC, appLogger),
		previewH.NewPreviewHandler(renderer, navUC, appLogger),
		server.NewDashboardHandler(navUC, contentUC, settingsUC),
		publicSite,
	)

	httpServer := &http.Server{
		Addr:              withColon(cfg.Server.HTTPPort),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// 8. Start gRPC Server for peers in remote mode
	var grpcServer *grpc.Server
	if tree != nil {
		port := withColon(cfg.Server.GRPCPort)
		lis, err := net.Listen("tcp", port)
		if err != nil {
			log.Fatalf("failed to listen: %v", err)
		}

		grpcServer = grpc.NewServer(
			grpc.ChainUnaryInterceptor(reqid.UnaryInterceptor(), rpc.LoggingInterceptor(appLogger)),
		)
		rpc.RegisterDocumentServiceServer(grpcServer, rpc.NewDocumentHandler(tree, appLogger))

		healthServer := health.NewServer()
		healthServer.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(grpcServer, healthServer)

		reflection.Register(grpcServer)

		appLogger.Info("Starting gRPC server", zap.String("port", port))
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				appLogger.Fatal("failed to serve gRPC", zap.Error(err))
			}
		}()
	}

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	cancel()
	appLogger.Info("Server stopped")
}

func withColon(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
