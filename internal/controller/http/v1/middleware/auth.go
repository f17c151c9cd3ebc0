package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/evermart/placement_service/internal/errors"
)

type Key string

type CheckTokenUsecase interface {
	ResolveActor(ctx context.Context, token string) (entity.Actor, error)
}

type authMiddleWare struct {
	usecase CheckTokenUsecase
}

func NewAuthMiddleware(usecase CheckTokenUsecase) *authMiddleWare {
	return &authMiddleWare{usecase}
}

// isPublicPath reports whether non-admin actors may hit the path:
// reads and engagement tracking, everything else is admin-only.
func isPublicPath(r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	return strings.HasSuffix(r.URL.Path, "/view") || strings.HasSuffix(r.URL.Path, "/click")
}

func (m *authMiddleWare) Do(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("auth middleware working")

		token := r.Header.Get("token")
		if token == "" {
			http.Error(w, string(errors.ErrUnauthorized), http.StatusUnauthorized)
			return
		}

		actor, err := m.usecase.ResolveActor(r.Context(), token)
		if err != nil {
			http.Error(w, string(errors.ErrUnauthorized), http.StatusUnauthorized)
			return
		}

		if !actor.IsAdmin && !isPublicPath(r) {
			http.Error(w, string(errors.ErrForbidden), http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), Key("actor"), actor)

		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}
