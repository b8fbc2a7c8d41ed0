package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware mencatat ringkasan tiap request (status + latency di depan
// supaya gampang di-grep saat debugging).
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "02-Jan-2006 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
	})
}
