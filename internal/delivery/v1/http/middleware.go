package http

import (
	"net/http"
	"strings"

	"github.com/drsn-tech/catalog-core/internal/usecase"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
)

// AuthMiddleware проверяет Bearer-токен и кладёт администратора в контекст запроса.
func AuthMiddleware(authUsecase usecase.AuthUC, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				WriteError(w, e.ErrUnauthorized)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				log.Warnf("%d %s", http.StatusUnauthorized, e.ErrInvalidToken.Error())
				WriteError(w, e.ErrInvalidToken)
				return
			}

			user, err := authUsecase.CurrentUser(r.Context(), token)
			if err != nil {
				log.Warnf("%s", err.Error())
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(usecase.CtxWithUser(r.Context(), user)))
		})
	}
}
