package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"civicsight/internal/classify"
	"civicsight/internal/config"
	"civicsight/internal/database"
	"civicsight/internal/gemini"
	"civicsight/internal/logging"
	"civicsight/internal/reports"
	"civicsight/internal/server"
	"civicsight/internal/taxonomy"
)

const startupPingTimeout = 5 * time.Second

func main() {
	if err := config.Load(); err != nil {
		log.Println("no .env loaded:", err)
	}

	logger, err := logging.New(config.LogLevel())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(config.DatabaseURL(), config.DBMaxOpenConns())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Ping(ctx, db, startupPingTimeout); err != nil {
		logger.Warn("database not reachable at startup", zap.Error(err))
	}

	model, err := gemini.New(ctx, gemini.Options{
		APIKey:         config.GeminiAPIKey(),
		Model:          config.GeminiModel(),
		BaseURL:        config.GeminiBaseURL(),
		AttemptTimeout: config.InferenceTimeout(),
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	pipeline := classify.NewPipeline(
		taxonomy.NewLoader(taxonomy.NewStore(db), logger),
		classify.NewHTTPImageFetcher(config.ImageFetchTimeout(), config.MaxImageBytes),
		model,
		logger,
	)
	store := reports.NewService(reports.NewRepository(db), logger)

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(server.Deps{
		Classifier: pipeline,
		Reports:    store,
		Ready:      db.PingContext,
		Logger:     logger,
		CORSOrigin: config.CORSOrigin(),
	})

	logger.Info("civicsight starting",
		zap.String("addr", config.Addr()),
		zap.String("model", model.Model()))
	return server.Run(ctx, config.Addr(), router, logger)
}
