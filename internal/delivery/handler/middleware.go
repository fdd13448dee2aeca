package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RequestLimiter applies a global request budget across all clients. It
// protects the mail provider and the database from request floods; the
// per-email limiter in the service layer handles targeted abuse.
func RequestLimiter(rps rate.Limit, burst int) echo.MiddlewareFunc {
	limiter := rate.NewLimiter(rps, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return respondError(c, http.StatusTooManyRequests, "server is busy, please try again")
			}
			return next(c)
		}
	}
}
