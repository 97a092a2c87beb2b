package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/responses"
	pkgAuth "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/auth"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/config"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
)

// UserResolver maps a token's email claim back to a live user row.
type UserResolver interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Auth validates a bearer token and seeds the request context with the
// resolved principal. The email claim is authoritative: the user row is
// re-read on every request so a deleted account loses access immediately
// and the admin flag always reflects the database, not the token.
func Auth(cfg config.JWTConfig, users UserResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if strings.TrimSpace(claims.Email) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing email claim"))
				return
			}

			user, err := users.FindByEmail(r.Context(), claims.Email)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) || pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown account"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve account"))
				return
			}

			ctx := WithUserID(r.Context(), user.ID)
			ctx = WithAdminFlag(ctx, user.AdminFlag)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    user.ID.String(),
					"admin_flag": user.AdminFlag,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
