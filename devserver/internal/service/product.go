package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/repository"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/product/pkg/request"
	"github.com/Alturino/storefront/product/pkg/response"
)

type ProductService struct {
	queries *repository.Queries
}

func NewProductService(queries *repository.Queries) *ProductService {
	return &ProductService{queries: queries}
}

func (svc *ProductService) FindProducts(c context.Context, filter request.FindProducts) []response.Product {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Str(log.KeyProductFilter, filter.Query().Encode()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding products").Logger()
	logger.Info().Msg("finding products")
	found := svc.queries.FindProducts(c, func(p repository.Product) bool {
		return filter.Matches(p.Name, p.Price)
	})
	products := make([]response.Product, len(found))
	for i, p := range found {
		products[i] = p.Response()
	}
	logger.Info().Int(log.KeyProducts, len(products)).Msg("found products")

	return products
}

func (svc *ProductService) FindProductByID(c context.Context, productID string) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductByID")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductByID").
		Str(log.KeyProductID, productID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msg("finding product")
	product, err := svc.queries.FindProductByID(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", productID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("found product")

	return product.Response(), nil
}
