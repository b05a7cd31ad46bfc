package utils

import (
	"net/http"

	"bazaar/globals"
	"bazaar/models"
)

func GetUserIDFromRequest(r *http.Request) string {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetUserFromRequest returns the user the access gate attached to the
// request context, or nil when the request never passed the gate.
func GetUserFromRequest(r *http.Request) *models.User {
	user, ok := r.Context().Value(globals.UserKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
