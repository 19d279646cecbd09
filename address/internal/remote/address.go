// Package remote talks to the storefront address endpoints. Every call answers with the
// shopper's whole address book.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/address/internal/otel"
	"github.com/Alturino/storefront/address/pkg/request"
	"github.com/Alturino/storefront/address/pkg/response"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/common/validate"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
)

type AddressAPI struct {
	client    *inHttp.Client
	endpoints config.Endpoints
}

func NewAddressAPI(client *inHttp.Client, endpoints config.Endpoints) *AddressAPI {
	return &AddressAPI{client: client, endpoints: endpoints}
}

// List returns the shopper's addresses. A 204 means there are none.
func (a *AddressAPI) List(c context.Context, token string) ([]response.Address, error) {
	return a.do(c, "AddressAPI List", inHttp.Request{
		Method: http.MethodGet,
		Path:   a.endpoints.MyAddresses,
		Token:  token,
	})
}

func (a *AddressAPI) Add(c context.Context, token string, param request.Address) ([]response.Address, error) {
	return a.do(c, "AddressAPI Add", inHttp.Request{
		Method: http.MethodPost,
		Path:   a.endpoints.Addresses,
		Token:  token,
		Body:   param,
	})
}

func (a *AddressAPI) Update(c context.Context, token string, id string, param request.Address) ([]response.Address, error) {
	return a.do(c, "AddressAPI Update", inHttp.Request{
		Method: http.MethodPut,
		Path:   a.addressPath(id),
		Token:  token,
		Body:   param,
	})
}

func (a *AddressAPI) Delete(c context.Context, token string, id string) ([]response.Address, error) {
	return a.do(c, "AddressAPI Delete", inHttp.Request{
		Method: http.MethodDelete,
		Path:   a.addressPath(id),
		Token:  token,
	})
}

func (a *AddressAPI) addressPath(id string) string {
	return strings.TrimRight(a.endpoints.Addresses, "/") + "/" + url.PathEscape(id)
}

func (a *AddressAPI) do(c context.Context, tag string, req inHttp.Request) ([]response.Address, error) {
	c, span := otel.Tracer.Start(c, tag)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, tag).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "requesting addresses").Logger()
	logger.Info().Msg("requesting addresses")
	addresses := []response.Address{}
	if err := a.client.Do(logger.WithContext(c), req, &addresses); err != nil {
		err = fmt.Errorf("failed requesting addresses with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if addresses == nil {
		addresses = []response.Address{}
	}

	logger = logger.With().Str(log.KeyProcess, "validating addresses").Logger()
	for _, address := range addresses {
		if err := validate.Struct(c, address); err != nil {
			logger.Error().Err(err).Msg(err.Error())
			err = fmt.Errorf("failed validating address with error=%w", commonErrors.ErrParse)
			commonErrors.HandleError(err, span)
			return nil, err
		}
	}
	logger.Info().Int(log.KeyAddresses, len(addresses)).Msg("requested addresses")

	return addresses, nil
}
