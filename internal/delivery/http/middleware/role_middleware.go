package middleware

import (
	"net/http"

	"medcare-api/internal/service"
	"medcare-api/pkg/response"
)

// RequireCapability creates a middleware that checks the actor's role holds
// (resource, action) in the access policy.
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireCapability(policy *service.AccessPolicy, resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !policy.Can(actor.Role, resource, action) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(policy *service.AccessPolicy, resource string) func(http.Handler) http.Handler {
	return RequireCapability(policy, resource, service.ActionManageAny)
}
