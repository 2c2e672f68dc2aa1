package router

import (
	"errors"

	handlers "github.com/NeuralTrust/MetaGuard/pkg/handlers/http"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

var ErrMissingMiddleware = errors.New("auth and guest middlewares are required")

const SwaggerPath = "/swagger.json"

// Middlewares splits the global chain from the per-group guards.
type Middlewares struct {
	Global *middleware.Transport
	Auth   middleware.Middleware
	Guest  middleware.Middleware
}

type apiRouter struct {
	middlewares      Middlewares
	handlerTransport handlers.HandlerTransport
	swaggerFile      string
}

func NewAPIRouter(
	middlewares Middlewares,
	handlerTransport handlers.HandlerTransport,
	swaggerFile string,
) ServerRouter {
	return &apiRouter{
		middlewares:      middlewares,
		handlerTransport: handlerTransport,
		swaggerFile:      swaggerFile,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	if r.middlewares.Auth == nil || r.middlewares.Guest == nil {
		return ErrMissingMiddleware
	}
	h := r.handlerTransport

	if r.middlewares.Global != nil {
		if global := r.middlewares.Global.GetMiddlewares(); len(global) > 0 {
			router.Use(global...)
		}
	}

	router.Get("/health", h.HealthHandler.Handle)
	router.Get("/version", h.GetVersionHandler.Handle)
	if r.swaggerFile != "" {
		router.Static(SwaggerPath, r.swaggerFile)
		router.Get("/docs/*", swagger.New(swagger.Config{
			URL: SwaggerPath,
		}))
	}

	requireUser := r.middlewares.Auth.Middleware()
	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.Post("/signup", h.SignupHandler.Handle)
			authGroup.Post("/login", h.LoginHandler.Handle)
			authGroup.Post("/refresh", h.RefreshHandler.Handle)
			authGroup.Post("/google", h.GoogleLoginHandler.Handle)
			authGroup.Get("/user", requireUser, h.CurrentUserHandler.Handle)
			authGroup.Get("/profile", requireUser, h.CurrentUserHandler.Handle)
			authGroup.Delete("/delete", requireUser, h.DeleteUserHandler.Handle)
		}

		guest := api.Group("/files/guest", r.middlewares.Guest.Middleware())
		{
			guest.Post("/analyze", h.GuestAnalyzeHandler.Handle)
			guest.Post("/clean", h.GuestCleanHandler.Handle)
		}

		user := api.Group("/files/user", requireUser)
		{
			user.Post("/analyze", h.UserAnalyzeHandler.Handle)
			user.Post("/clean", h.UserCleanHandler.Handle)
			user.Get("/history", h.HistoryHandler.Handle)
			user.Delete("/history/:id", h.DeleteHistoryHandler.Handle)
			user.Get("/policy", h.GetPolicyHandler.Handle)
			user.Put("/policy", h.UpdatePolicyHandler.Handle)
		}

		api.Get("/history", requireUser, h.HistoryHandler.Handle)
	}
	return nil
}
