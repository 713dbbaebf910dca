package middleware

import (
	"net/http"

	"github.com/apartment-booking/backend/internal/booking"
)

// Identity headers set by the auth gateway in front of this service. Token
// verification happens there; this service only consumes the result.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// ActorFromRequest extracts the calling user's identity from gateway
// headers. An empty UserID means the request is unauthenticated.
func ActorFromRequest(r *http.Request) booking.Actor {
	return booking.Actor{
		UserID:  r.Header.Get(HeaderUserID),
		IsAdmin: r.Header.Get(HeaderUserRole) == "ADMIN",
	}
}

// RequireIdentity rejects requests without an identity header.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderUserID) == "" {
			WriteError(w, http.StatusUnauthorized, "unauthorized", "Missing user identity")
			return
		}
		next.ServeHTTP(w, r)
	})
}
