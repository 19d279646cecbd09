package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	commonHttp "github.com/Alturino/storefront/internal/common/http"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/token"
)

// Auth rejects requests without a valid bearer token and attaches the token claims to the
// request context.
func Auth(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).With().Str(log.KeyTag, "middleware Auth").Logger()
			c := logger.WithContext(r.Context())

			authorization := r.Header.Get(commonHttp.HeaderAuthorization)
			if len(authorization) <= len(commonHttp.BearerPrefix) ||
				!strings.EqualFold(authorization[:len(commonHttp.BearerPrefix)], commonHttp.BearerPrefix) {
				logger.Error().Err(commonErrors.ErrEmptyAuth).Msg(commonErrors.ErrEmptyAuth.Error())
				inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrEmptyAuth.Error())
				return
			}

			claims, err := token.Verify(c, secretKey, authorization[len(commonHttp.BearerPrefix):])
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, commonErrors.ErrTokenInvalid.Error())
				return
			}
			logger = logger.With().Str(log.KeyUserID, claims.Subject).Logger()
			c = logger.WithContext(token.AttachClaims(c, claims))

			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
