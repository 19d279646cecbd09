package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/service"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/product/pkg/request"
)

type ProductController struct {
	service *service.ProductService
}

func AttachProductController(router *mux.Router, endpoints config.Endpoints, service *service.ProductService) {
	controller := ProductController{service: service}
	router.HandleFunc(endpoints.Products, controller.FindProducts).Methods(http.MethodGet)
	router.HandleFunc(endpoints.Products+"/{productId}", controller.FindProductByID).Methods(http.MethodGet)
}

func (p ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "ProductController FindProducts").Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing filter").Logger()
	logger.Trace().Msg("parsing filter")
	filter, err := request.ParseFindProducts(r.URL.Query())
	if err != nil {
		err = fmt.Errorf("failed parsing filter with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Trace().Msg("parsed filter")

	products := p.service.FindProducts(logger.WithContext(c), filter)
	inHttp.WriteJsonResponse(c, w, http.StatusOK, products)
}

func (p ProductController) FindProductByID(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductByID")
	defer span.End()

	productID := mux.Vars(r)["productId"]
	logger := zerolog.Ctx(c).With().
		Str(log.KeyTag, "ProductController FindProductByID").
		Str(log.KeyProductID, productID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msg("finding product")
	product, err := p.service.FindProductByID(logger.WithContext(c), productID)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("found product")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, product)
}
