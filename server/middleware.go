package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tuneshelf/logger"
	"tuneshelf/model"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxKeyUserID   contextKey = "userID"
	ctxKeyUsername contextKey = "username"
)

// GetUserIDFromContext extracts the user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(ctxKeyUserID).(int64)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// GetUsernameFromContext extracts the username from the request context.
func GetUsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value(ctxKeyUsername).(string)
	if !ok {
		return "", fmt.Errorf("username not found in context")
	}
	return username, nil
}

// authenticateToken validates a raw token and loads the matching user.
func (h *APIHandler) authenticateToken(ctx context.Context, token string) (*model.User, error) {
	username, err := h.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := h.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", username)
	}
	return user, nil
}

// withUser stores the authenticated identity in the request context.
func withUser(r *http.Request, user *model.User) *http.Request {
	ctx := context.WithValue(r.Context(), ctxKeyUserID, user.ID)
	ctx = context.WithValue(ctx, ctxKeyUsername, user.Username)
	return r.WithContext(ctx)
}

// BearerAuthMiddleware authenticates requests via the Authorization
// header. Playlist endpoints use this path.
func (h *APIHandler) BearerAuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		user, err := h.authenticateToken(r.Context(), parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, withUser(r, user))
	}
}

// CookieAuthMiddleware authenticates requests via the access_token
// cookie set at login. Track mutation endpoints use this path.
func (h *APIHandler) CookieAuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(accessTokenCookie)
		if err != nil || cookie.Value == "" {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		user, err := h.authenticateToken(r.Context(), cookie.Value)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, withUser(r, user))
	}
}

// corsMiddleware sets permissive CORS headers and answers preflight
// requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestLogMiddleware tags every request with an ID and logs it on
// completion.
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		logger.Info("request completed",
			logger.String("requestId", requestID),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Duration("duration", time.Since(start)),
		)
	})
}

// isOwner is the single authorization predicate: it compares a
// resource's owning id against the authenticated requester's id.
func isOwner(ownerID, requesterID int64) bool {
	return ownerID == requesterID
}
