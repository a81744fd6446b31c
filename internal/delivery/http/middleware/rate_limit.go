package middleware

import (
	"net/http"
	"time"

	"medcare-api/pkg/response"

	"github.com/go-chi/httprate"
)

// RateLimitByIP allows requestsPerMinute requests per client IP. A
// non-positive limit disables limiting.
func RateLimitByIP(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.TooManyRequests(w, "Too many requests, try again later")
		}),
	)
}
