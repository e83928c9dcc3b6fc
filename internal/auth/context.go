package auth

import (
	"context"
	"net/http"

	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/httpx"
	"github.com/fekuna/wlpl-service/pkg/logger"
)

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleShopper = "shopper"
)

// Identity is set by the upstream auth gateway; this service trusts the headers.
type Identity struct {
	UserID   string
	Role     string
	Language string
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}

func GetUserID(ctx context.Context) string {
	return FromContext(ctx).UserID
}

func GetLanguage(ctx context.Context) string {
	if lang := FromContext(ctx).Language; lang != "" {
		return lang
	}
	return "en"
}

func IsAdmin(ctx context.Context) bool {
	return FromContext(ctx).Role == RoleAdmin
}

// Middleware copies the gateway identity headers into the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			UserID:   r.Header.Get("X-User-ID"),
			Role:     r.Header.Get("X-User-Role"),
			Language: r.Header.Get("Accept-Language"),
		}
		if id.Role == "" && id.UserID != "" {
			id.Role = RoleUser
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireUser rejects anonymous requests.
func RequireUser(log logger.ZapLogger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) == "" {
			httpx.Error(w, r, log, apperr.New("auth.RequireUser", apperr.ErrUnauthenticated, "Sign in required"))
			return
		}
		next(w, r)
	}
}

// RequireRole answers 403 "Access denied" unless the caller holds one of roles.
func RequireRole(log logger.ZapLogger, next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := FromContext(r.Context())
		if id.UserID == "" {
			httpx.Error(w, r, log, apperr.New("auth.RequireRole", apperr.ErrUnauthenticated, "Sign in required"))
			return
		}
		for _, role := range roles {
			if id.Role == role {
				next(w, r)
				return
			}
		}
		httpx.Error(w, r, log, apperr.New("auth.RequireRole", apperr.ErrForbidden, "Access denied"))
	}
}

func RequireAdmin(log logger.ZapLogger, next http.HandlerFunc) http.HandlerFunc {
	return RequireRole(log, next, RoleAdmin)
}
