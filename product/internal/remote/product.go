package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/pkg/request"
	"github.com/Alturino/storefront/product/pkg/response"
)

type ProductAPI struct {
	client    *inHttp.Client
	endpoints config.Endpoints
}

func NewProductAPI(client *inHttp.Client, endpoints config.Endpoints) *ProductAPI {
	return &ProductAPI{client: client, endpoints: endpoints}
}

func (a *ProductAPI) FindProducts(c context.Context, filter request.FindProducts) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductAPI FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductAPI FindProducts").
		Str(log.KeyProductFilter, filter.Query().Encode()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating filter").Logger()
	if err := filter.Validate(); err != nil {
		err = fmt.Errorf("failed validating filter with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(log.KeyProcess, "requesting products").Logger()
	logger.Info().Msg("requesting products")
	products := []response.Product{}
	err := a.client.Do(
		logger.WithContext(c),
		inHttp.Request{Method: http.MethodGet, Path: a.endpoints.Products, Query: filter.Query()},
		&products,
	)
	if err != nil {
		err = fmt.Errorf("failed requesting products with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if products == nil {
		products = []response.Product{}
	}
	logger.Info().Int(log.KeyProducts, len(products)).Msg("requested products")

	return products, nil
}

func (a *ProductAPI) FindProductByID(c context.Context, productID string) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductAPI FindProductByID")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductAPI FindProductByID").
		Str(log.KeyProductID, productID).
		Logger()

	if productID == "" {
		err := commonErrors.NewValidationError("product id is required")
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "requesting product").Logger()
	logger.Info().Msg("requesting product")
	product := response.Product{}
	err := a.client.Do(
		logger.WithContext(c),
		inHttp.Request{
			Method: http.MethodGet,
			Path:   strings.TrimRight(a.endpoints.Products, "/") + "/" + url.PathEscape(productID),
		},
		&product,
	)
	if err != nil {
		err = fmt.Errorf("failed requesting productId=%s with error=%w", productID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("requested product")

	return product, nil
}
