package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/config"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/prometheus"
	"github.com/NeuralTrust/MetaGuard/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"golang.org/x/sync/errgroup"
)

// multipart framing on top of the largest accepted file
const bodyLimitOverhead = 1 << 20

type Server interface {
	// Run serves until ctx is canceled, then shuts down gracefully.
	Run(ctx context.Context) error
}

type BaseServer struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Router  *fiber.App
	metrics *fiber.App
}

func NewBaseServer(cfg *config.Config, logger *logrus.Logger) *BaseServer {
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReduceMemoryUsage:     true,
		Network:               fiber.NetworkTCP,
		EnablePrintRoutes:     false,
		BodyLimit:             bodyLimit(cfg),
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          cfg.Pipeline.Timeout + 30*time.Second,
		IdleTimeout:           120 * time.Second,
		Concurrency:           16384,
	})

	r.Server().MaxConnsPerIP = 1024
	r.Server().ReadBufferSize = 8192
	r.Server().WriteBufferSize = 8192
	r.Server().NoDefaultServerHeader = true

	return &BaseServer{
		Config: cfg,
		Logger: logger,
		Router: r,
	}
}

func bodyLimit(cfg *config.Config) int {
	largest := cfg.Uploads.MaxFileSize
	if cfg.Guest.MaxFileSize > largest {
		largest = cfg.Guest.MaxFileSize
	}
	return int(largest) + bodyLimitOverhead
}

func (s *BaseServer) WithRouters(routers ...router.ServerRouter) *BaseServer {
	for _, r := range routers {
		if err := r.BuildRoutes(s.Router); err != nil {
			s.Logger.WithError(err).Error("failed to build routes")
		}
	}
	return s
}

func (s *BaseServer) metricsApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	handler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(prometheus.Gatherer(), promhttp.HandlerOpts{}),
	)
	app.Get("/metrics", func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	})
	return app
}

// serve runs the main app and, when enabled, the metrics app until ctx is done.
func (s *BaseServer) serve(ctx context.Context, addr string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.WithField("addr", addr).Info("starting api server")
		if err := s.Router.Listen(addr); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	if s.Config.Metrics.Enabled {
		s.metrics = s.metricsApp()
		metricsAddr := fmt.Sprintf(":%d", s.Config.Server.MetricsPort)
		g.Go(func() error {
			s.Logger.WithField("addr", metricsAddr).Info("starting metrics server")
			if err := s.metrics.Listen(metricsAddr); err != nil && !errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	} else {
		s.Logger.Info("prometheus metrics are disabled by configuration")
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *BaseServer) shutdown() error {
	timeout := s.Config.Pipeline.Timeout + 5*time.Second
	var errs []error
	if err := s.Router.ShutdownWithTimeout(timeout); err != nil {
		errs = append(errs, err)
	}
	if s.metrics != nil {
		if err := s.metrics.ShutdownWithTimeout(5 * time.Second); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
