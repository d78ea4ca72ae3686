package middleware

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the configured origins. Credentials (the refresh cookie) are
// only allowed for an explicit origin list, never for "*".
func CORS(origins []string) fiber.Handler {
	wildcard := len(origins) == 0 || slices.Contains(origins, "*")
	allow := "*"
	if !wildcard {
		allow = strings.Join(origins, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins:     allow,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: !wildcard,
	})
}
