package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/fitpulse/internal/auth"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TokenHeader carries the login token of the shell.
const TokenHeader = "X-FITPULSE-TOKEN"

type ctxKey int

const userIDKey ctxKey = iota

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type sessionResolver interface {
	UserID(ctx context.Context, token string) (int, error)
}

// ContextWithUserID returns ctx carrying the id of the logged user.
func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the id of the logged user, put there by AuthCheck.
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}

type AuthMiddlewareHandler struct {
	sessions             sessionResolver
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(sessions sessionResolver) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessions: sessions,
		allowedPaths: map[string]bool{
			"/":         true,
			"/register": true,
			"/login":    true,
		},
		allowedPathsPrefixes: []string{
			"/catalog/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := r.Header.Get(TokenHeader)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, err := h.sessions.UserID(ctx, authToken)
			if err != nil {
				if errors.Is(err, auth.ErrSessionNotFound) {
					log.Tracef("[invalid token] [auth middleware] unauthorized from %s => %s", pkg.ClientIP(r), r.URL.Path)
					span.SetStatus(codes.Error, "not-logged")
				} else {
					log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
					span.SetStatus(codes.Error, "check-logged-err")
					span.RecordError(err)
				}
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			span.SetAttributes(attribute.Int("user.id", userID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}
