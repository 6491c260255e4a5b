package inbound

import (
	"context"
	"net/http"
	"strings"

	"github.com/shandysiswandi/gotask/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gotask/internal/pkg/pkglog"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotask/internal/todo/entity"
)

type userContextKey struct{}

type authenticator interface {
	Authenticate(ctx context.Context, token string) (entity.User, error)
}

// middlewareBearer resolves "Authorization: Bearer <token>" to a user and
// stores it in the request context. Requests without a valid token get 401.
func middlewareBearer(auth authenticator) pkgrouter.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Context(), bearerToken(r))
			if err != nil {
				pkgrouter.WriteError(r.Context(), w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			ctx = pkglog.SetUserID(ctx, user.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func userFromContext(ctx context.Context) (entity.User, error) {
	user, ok := ctx.Value(userContextKey{}).(entity.User)
	if !ok {
		return entity.User{}, pkgerror.NewUnauthorized("missing bearer token")
	}
	return user, nil
}
