package transport

import (
	"net/http"

	"mymarket-be/internal/utils"
)

// sessionFrom returns the session resolved by middleware.SessionMiddleware, or
// an empty string. Services reject the empty value as invalid input.
func sessionFrom(r *http.Request) string {
	sessionID, _ := utils.GetSessionIDFromContext(r.Context())
	return sessionID
}
