//	@title			File Gateway API
//	@version		1.0
//	@description	Authenticated upload, listing and presigned download links over S3-compatible storage.
//
//	@host		localhost:3000
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

//go:generate swag init -g cmd/api/main.go -d ../.. -o ../../docs/swagger --outputTypes go

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filedrop/gateway/internal/auth"
	"github.com/filedrop/gateway/internal/config"
	"github.com/filedrop/gateway/internal/files"
	"github.com/filedrop/gateway/internal/logging"
	"github.com/filedrop/gateway/internal/server"
	"github.com/filedrop/gateway/internal/storage"

	_ "github.com/filedrop/gateway/docs/swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Production: cfg.IsProduction(),
		Output:     os.Stdout,
	}).With(slog.String("env", cfg.AppEnv))
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := storage.NewObjectStore(initCtx, cfg.Storage)
	cancel()
	if err != nil {
		logger.Error("object storage init failed", slog.String("driver", cfg.Storage.Driver), slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("object storage ready",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("bucket", cfg.Storage.Bucket),
	)

	// Wire dependencies: store → service → handler
	authSvc := auth.NewService(cfg.Auth, logger)
	filesSvc := files.NewService(store, logger)

	router := server.NewRouter(server.Deps{
		Config:   cfg,
		Logger:   logger,
		Auth:     auth.NewHandler(authSvc),
		Files:    files.NewHandler(filesSvc),
		Verifier: authSvc,
	})

	srv := server.NewHTTPServer(cfg.Port, router)
	logger.Info("swagger UI available", slog.String("url", "http://localhost:"+cfg.Port+"/swagger/index.html"))

	if err := server.Run(ctx, srv, logger); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}
