package middleware

import (
	"net/http"
	"strings"

	"mymarket-be/internal/logger"
	"mymarket-be/internal/utils"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "SESSION"
)

// SessionMiddleware resolves the shopper session from the X-Session-ID header,
// falling back to the SESSION cookie. Requests without one pass through and are
// rejected by the services that need it.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
		if sessionID == "" {
			if c, err := r.Cookie(SessionCookie); err == nil {
				sessionID = strings.TrimSpace(c.Value)
			}
		}

		if sessionID != "" {
			ctx := utils.SetSessionContext(r.Context(), sessionID)
			ctx = logger.WithSessionID(ctx, sessionID)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}
