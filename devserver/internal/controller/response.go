package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	inErrors "github.com/Alturino/storefront/devserver/internal/errors"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/common/validate"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/token"
)

var errMalformedBody = errors.New("malformed request body")

var statusBySentinel = []struct {
	err    error
	status int
}{
	{inErrors.ErrEmailExist, http.StatusConflict},
	{inErrors.ErrProductNotFound, http.StatusNotFound},
	{inErrors.ErrItemNotInCart, http.StatusNotFound},
	{inErrors.ErrCouponNotFound, http.StatusNotFound},
	{inErrors.ErrNoOrders, http.StatusNotFound},
	{inErrors.ErrNoCoupons, http.StatusNotFound},
	{inErrors.ErrAddressNotFound, http.StatusNotFound},
	{inErrors.ErrCouponExpired, http.StatusBadRequest},
	{inErrors.ErrCouponUsed, http.StatusBadRequest},
	{inErrors.ErrCouponMinimum, http.StatusBadRequest},
	{inErrors.ErrCartEmpty, http.StatusBadRequest},
	{errMalformedBody, http.StatusBadRequest},
}

// writeError answers with the status and message err maps to. Unknown errors are a 500
// without details.
func writeError(c context.Context, w http.ResponseWriter, err error) {
	var validationErr *commonErrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		inHttp.WriteMessageResponse(c, w, http.StatusBadRequest, validationErr.Error())
		return
	case errors.Is(err, inErrors.ErrUserNotFound), errors.Is(err, inErrors.ErrPasswordMismatch):
		inHttp.WriteMessageResponse(c, w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			inHttp.WriteMessageResponse(c, w, s.status, s.err.Error())
			return
		}
	}
	inHttp.WriteMessageResponse(c, w, http.StatusInternalServerError, "internal server error")
}

func decode(c context.Context, r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return validate.Struct(c, v)
}

func userIDFromContext(c context.Context) (uuid.UUID, error) {
	claims, ok := token.ClaimsFromContext(c)
	if !ok {
		return uuid.Nil, commonErrors.ErrTokenInvalid
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.Join(commonErrors.ErrTokenInvalid, err)
	}
	return userID, nil
}
