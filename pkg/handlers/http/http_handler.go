package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// System
	HealthHandler     Handler
	GetVersionHandler Handler

	// Auth
	SignupHandler      Handler
	LoginHandler       Handler
	RefreshHandler     Handler
	GoogleLoginHandler Handler
	CurrentUserHandler Handler
	DeleteUserHandler  Handler

	// Guest files
	GuestAnalyzeHandler Handler
	GuestCleanHandler   Handler

	// User files
	UserAnalyzeHandler   Handler
	UserCleanHandler     Handler
	HistoryHandler       Handler
	DeleteHistoryHandler Handler
	GetPolicyHandler     Handler
	UpdatePolicyHandler  Handler
}
