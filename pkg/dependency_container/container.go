package dependency_container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/auth"
	"github.com/NeuralTrust/MetaGuard/pkg/app/files"
	"github.com/NeuralTrust/MetaGuard/pkg/app/pipeline"
	"github.com/NeuralTrust/MetaGuard/pkg/app/quota"
	"github.com/NeuralTrust/MetaGuard/pkg/config"
	handlers "github.com/NeuralTrust/MetaGuard/pkg/handlers/http"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/google"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/cache"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/database"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/events"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/events/kafka"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/exiftool"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/fingerprint"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/httpx"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/prometheus"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/repository"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/NeuralTrust/MetaGuard/pkg/server/router"
	"github.com/NeuralTrust/MetaGuard/pkg/version"
	"github.com/sirupsen/logrus"
)

const eventWorkers = 2

var corsMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

type Container struct {
	DB               *database.DB
	Cache            cache.Client
	Extractor        *exiftool.Client
	Pipeline         pipeline.Pipeline
	Publisher        events.Publisher
	JWTManager       jwt.Manager
	AuthService      auth.Service
	GuestService     files.GuestService
	UserService      files.UserService
	HandlerTransport handlers.HandlerTransport
	Middlewares      router.Middlewares
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewContainer(ctx context.Context, di ContainerDI) (*Container, error) {
	cfg, logger := di.Cfg, di.Logger

	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	if cfg.Metrics.Enabled {
		metricsConfig := prometheus.DefaultMetricsConfig()
		metricsConfig.EnablePerRoute = cfg.Metrics.EnablePerPath
		prometheus.Initialize(metricsConfig)
	}

	db, err := connect(ctx, logger, "postgres", connectBackoff(), func(ctx context.Context) (*database.DB, error) {
		return database.NewDB(ctx, logger, &database.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			MigrateTimeout:  cfg.Database.MigrateTimeout,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cacheInstance, err := connect(ctx, logger, "redis", connectBackoff(), func(context.Context) (cache.Client, error) {
		return cache.NewClient(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		}, logger)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	extractor := exiftool.New(logger, exiftool.Config{
		Binary:          cfg.ExifTool.Binary,
		BreakerFailures: cfg.ExifTool.BreakerFailures,
		BreakerTimeout:  cfg.ExifTool.BreakerTimeout,
	})

	publisher, err := newPublisher(logger, cfg.Events)
	if err != nil {
		_ = cacheInstance.Close()
		_ = db.Close()
		return nil, err
	}
	publisher.StartWorkers(eventWorkers)

	observers := []pipeline.Observer{publisher}
	if cfg.Metrics.Enabled {
		observers = append(observers, prometheus.NewPipelineObserver())
	}
	p := pipeline.NewPipeline(logger, extractor, pipeline.Observers(observers...), pipeline.Config{
		TempDir: cfg.Pipeline.TempDir,
	})

	// repository
	userRepository := repository.NewUserRepository(db.DB)
	policyRepository := repository.NewPolicyRepository(db.DB)
	analysisRepository := repository.NewAnalysisRepository(db.DB)

	// identity
	jwtManager := jwt.NewJwtManager(jwt.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	verifier := google.NewVerifier(
		httpx.NewClient(
			httpx.WithTimeout(cfg.Google.Timeout),
			httpx.WithUserAgent(version.AppName+"/"+version.Version),
		),
		httpx.NewBreaker(httpx.BreakerConfig{
			Name:        "google-tokeninfo",
			Timeout:     30 * time.Second,
			MaxFailures: 5,
		}),
		cfg.Google.ClientID,
		cfg.Google.TokenInfoURL,
	)
	authService := auth.NewService(logger, userRepository, jwtManager, verifier, auth.Config{})

	// service
	guestQuota := quota.NewGuestQuota(logger, cacheInstance, quota.Limits{
		MaxUploads:  cfg.Guest.MaxUploads,
		MaxFileSize: cfg.Guest.MaxFileSize,
		Window:      cfg.Guest.Window,
	})
	guestService := files.NewGuestService(logger, p, guestQuota, cfg.Pipeline.Timeout)
	userService := files.NewUserService(logger, p, analysisRepository, policyRepository, cfg.Pipeline.Timeout)

	// middleware
	global := middleware.NewTransport(
		middleware.NewPanicRecoverMiddleware(logger),
		middleware.NewCORSMiddleware(cfg.Server.CORSOrigins, corsMethods, handlers.ExposedHeaders, "86400"),
	)
	if cfg.Metrics.Enabled {
		global.RegisterMiddleware(middleware.NewMetricsMiddleware())
	}
	middlewares := router.Middlewares{
		Global: global,
		Auth:   middleware.NewAuthMiddleware(logger, jwtManager),
		Guest:  middleware.NewGuestMiddleware(logger, jwtManager, fingerprint.NewMaker(cfg.Server.TrustProxyHeaders)),
	}

	handlerTransport := handlers.HandlerTransport{
		// System
		HealthHandler: handlers.NewHealthHandler(logger, map[string]handlers.HealthCheck{
			"exiftool": func(ctx context.Context) error {
				_, err := extractor.Version(ctx)
				return err
			},
			"postgres": db.Ping,
			"redis":    cacheInstance.Ping,
		}),
		GetVersionHandler: handlers.NewGetVersionHandler(logger),
		// Auth
		SignupHandler:      handlers.NewSignupHandler(logger, authService),
		LoginHandler:       handlers.NewLoginHandler(logger, authService),
		RefreshHandler:     handlers.NewRefreshHandler(logger, authService),
		GoogleLoginHandler: handlers.NewGoogleLoginHandler(logger, authService),
		CurrentUserHandler: handlers.NewCurrentUserHandler(logger, authService),
		DeleteUserHandler:  handlers.NewDeleteUserHandler(logger, authService),
		// Guest files
		GuestAnalyzeHandler: handlers.NewGuestAnalyzeHandler(logger, guestService, cfg.Guest.MaxFileSize),
		GuestCleanHandler:   handlers.NewGuestCleanHandler(logger, guestService, cfg.Guest.MaxFileSize),
		// User files
		UserAnalyzeHandler:   handlers.NewUserAnalyzeHandler(logger, userService, cfg.Uploads.MaxFileSize),
		UserCleanHandler:     handlers.NewUserCleanHandler(logger, userService, cfg.Uploads.MaxFileSize),
		HistoryHandler:       handlers.NewHistoryHandler(logger, userService),
		DeleteHistoryHandler: handlers.NewDeleteHistoryHandler(logger, userService),
		GetPolicyHandler:     handlers.NewGetPolicyHandler(logger, userService),
		UpdatePolicyHandler:  handlers.NewUpdatePolicyHandler(logger, userService),
	}

	return &Container{
		DB:               db,
		Cache:            cacheInstance,
		Extractor:        extractor,
		Pipeline:         p,
		Publisher:        publisher,
		JWTManager:       jwtManager,
		AuthService:      authService,
		GuestService:     guestService,
		UserService:      userService,
		HandlerTransport: handlerTransport,
		Middlewares:      middlewares,
	}, nil
}

// newPublisher picks the configured exporter, falling back to the log exporter.
func newPublisher(logger *logrus.Logger, cfg config.EventsConfig) (events.Publisher, error) {
	locator := events.NewExporterLocator(
		events.WithExporter(events.NewLogExporter(logger)),
		events.WithExporter(kafka.NewKafkaExporter()),
	)
	name := cfg.Exporter
	if name == "" {
		name = events.LogExporterName
	}
	exporter, err := locator.GetExporter(name, cfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s event exporter: %w", name, err)
	}
	logger.WithField("exporter", exporter.Name()).Info("analysis events enabled")
	return events.NewPublisher(logger, exporter), nil
}

// Close drains the event queue before releasing connections.
func (c *Container) Close() error {
	c.Publisher.Shutdown()
	var errs []error
	if err := c.Cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.DB.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
