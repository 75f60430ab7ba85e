package httpadapter

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dashchat/internal/domain"
	"dashchat/internal/observability"
)

type ctxKey string

const ctxKeyUserID ctxKey = "auth_user_id"

// SessionCookie carries the opaque session token.
const SessionCookie = "dashchat_session"

// withRequestID tags every request with a fresh id for log correlation.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withLogging logs every request with its duration.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		observability.LoggerFromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}

// withCORS adds basic CORS headers to allow calls from a web front-end.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// chainMiddlewares applies multiple middlewares in order.
func chainMiddlewares(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}

// requireAuth resolves the session cookie to a user identity before the
// wrapped handler runs. Unauthenticated requests are rejected with 401 and
// produce no side effects.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			unauthorized(w)
			return
		}

		userID, err := s.sessions.Resolve(cookie.Value)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
		ctx = observability.WithUserID(ctx, int64(userID))
		next(w, r.WithContext(ctx))
	}
}

func userIDFrom(r *http.Request) domain.UserID {
	id, _ := r.Context().Value(ctxKeyUserID).(domain.UserID)
	return id
}
