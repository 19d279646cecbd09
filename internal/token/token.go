package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/common/constants"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

// DefaultTTL is how long a signed login token stays valid.
const DefaultTTL = 24 * time.Hour

// Claims is the payload of a storefront login token. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func Sign(secretKey, userID, name, email string, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Audience:  jwt.ClaimStrings{constants.AUDIENCE_USER},
				Issuer:    constants.APP_STOREFRONT,
				Subject:   userID,
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			Name:  name,
			Email: email,
		},
	)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed signing token with error=%w", err)
	}
	return signed, nil
}

// Verify checks the signature, audience, issuer and expiry of token.
func Verify(c context.Context, secretKey, token string) (*Claims, error) {
	c, span := otel.Tracer.Start(c, "Verify")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "token Verify").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing claims").Logger()
	logger.Trace().Msg("parsing claims")
	claims := &Claims{}
	jwtToken, err := jwt.ParseWithClaims(token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithAudience(constants.AUDIENCE_USER),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.APP_STOREFRONT),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing claims with error=%w", errors.Join(commonErrors.ErrTokenInvalid, err))
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("parsed claims")

	logger = logger.With().Str(log.KeyProcess, "validating token").Logger()
	if !jwtToken.Valid {
		err = fmt.Errorf("failed validating token with error=%w", commonErrors.ErrTokenInvalid)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().Str(log.KeyUserID, claims.Subject).Logger()
	logger.Info().Msg("validated token")

	return claims, nil
}

// Decode reads the claims of token without checking its signature. Clients use it to learn
// who they are signed in as; the server still verifies every request. An expired token or
// one without a subject is rejected.
func Decode(c context.Context, token string, now time.Time) (*Claims, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "token Decode").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing unverified claims").Logger()
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		err = fmt.Errorf("failed parsing unverified claims with error=%w", errors.Join(commonErrors.ErrTokenInvalid, err))
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if claims.Subject == "" {
		err := fmt.Errorf("failed reading subject with error=%w", commonErrors.ErrTokenInvalid)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		err := fmt.Errorf("token expired at %s with error=%w", claims.ExpiresAt.Time, commonErrors.ErrTokenInvalid)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Str(log.KeyUserID, claims.Subject).Msg("parsed unverified claims")
	return claims, nil
}

type claimsKey struct{}

func AttachClaims(c context.Context, claims *Claims) context.Context {
	return context.WithValue(c, claimsKey{}, claims)
}

func ClaimsFromContext(c context.Context) (*Claims, bool) {
	claims, ok := c.Value(claimsKey{}).(*Claims)
	return claims, ok
}
