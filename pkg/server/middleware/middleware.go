package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	UserIDKey     = "user_id"
	UserEmailKey  = "user_email"
	GuestIDKey    = "guest_id"
	StartTimeKey  = "start_time"
	authorization = "Authorization"
	bearerPrefix  = "Bearer "
)

type Middleware interface {
	Middleware() fiber.Handler
}

type Transport struct {
	Middlewares []Middleware
}

func NewTransport(middlewares ...Middleware) *Transport {
	return &Transport{
		Middlewares: middlewares,
	}
}

func (t *Transport) GetMiddlewares() []interface{} {
	var handlers []interface{}
	for _, middleware := range t.Middlewares {
		handlers = append(handlers, middleware.Middleware())
	}
	return handlers
}

func (t *Transport) RegisterMiddleware(middleware Middleware) {
	t.Middlewares = append(t.Middlewares, middleware)
}

// UserID returns the authenticated user set by the auth middleware.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(UserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func GuestID(c *fiber.Ctx) string {
	id, _ := c.Locals(GuestIDKey).(string)
	return id
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(authorization)
	if header == "" || len(header) <= len(bearerPrefix) {
		return "", false
	}
	if !equalFoldPrefix(header, bearerPrefix) {
		return "", false
	}
	return header[len(bearerPrefix):], true
}

func equalFoldPrefix(s, prefix string) bool {
	for i := 0; i < len(prefix); i++ {
		a, b := s[i], prefix[i]
		if a|0x20 != b|0x20 {
			return false
		}
	}
	return true
}
