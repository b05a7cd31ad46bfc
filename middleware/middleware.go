package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bazaar/auth"
	"bazaar/db"
	"bazaar/globals"
	"bazaar/models"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Authenticate is the access gate for protected routes. It requires an
// "Authorization: Bearer <token>" header, verifies the token, resolves
// the embedded subject against the credential store, and attaches the
// resolved user to the request context. A token whose subject no longer
// exists (user deleted after issuance) is rejected here.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}

		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Invalid token format", http.StatusUnauthorized)
			return
		}

		claims, err := auth.VerifyToken(header[7:])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = db.UserCollection.FindOne(ctx, bson.M{"userid": claims.UserID}).Decode(&user)
		if err != nil {
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		reqCtx := context.WithValue(r.Context(), globals.UserKey, &user)
		reqCtx = context.WithValue(reqCtx, globals.UserIDKey, user.UserID)
		next(w, r.WithContext(reqCtx), ps)
	}
}

// AdminOnly enforces the elevated role. Precondition: it must be
// composed after Authenticate, which attaches the user to the context.
// If that contract is broken it fails closed with 401 instead of
// dereferencing a missing identity.
func AdminOnly(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user, ok := r.Context().Value(globals.UserKey).(*models.User)
		if !ok || user == nil {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}
		if !user.IsAdmin() {
			http.Error(w, "Access denied. Admins only", http.StatusForbidden)
			return
		}
		next(w, r, ps)
	}
}
