package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/MetaGuard/pkg/config"
	"github.com/NeuralTrust/MetaGuard/pkg/dependency_container"
	infraLogger "github.com/NeuralTrust/MetaGuard/pkg/infra/logger"
	_ "github.com/NeuralTrust/MetaGuard/pkg/infra/migrations"
	"github.com/NeuralTrust/MetaGuard/pkg/server"
	"github.com/NeuralTrust/MetaGuard/pkg/server/router"
	"github.com/joho/godotenv"
)

// @title MetaGuard API
// @version 1.0
// @description Metadata privacy analysis and cleaning service
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Printf("metaguard: %v", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	if err := config.Load(configPath); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.GetConfig()

	logger, logCloser, err := infraLogger.New(infraLogger.Options{
		Component:  "api",
		Level:      cfg.Log.Level,
		Dir:        cfg.Log.Dir,
		FileOutput: cfg.Log.FileOutput,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := dependency_container.NewContainer(ctx, dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Error("failed to initialize dependencies")
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.WithError(err).Error("failed to release dependencies")
		}
	}()

	srv := server.NewAPIServer(server.APIServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewAPIRouter(container.Middlewares, container.HandlerTransport, cfg.Server.SwaggerFile),
		},
	})

	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Error("server stopped with error")
		return err
	}
	logger.Info("server gracefully stopped")
	return nil
}
