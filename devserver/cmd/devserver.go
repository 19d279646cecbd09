package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/storefront/devserver/internal/controller"
	"github.com/Alturino/storefront/devserver/internal/metrics"
	devOtel "github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/repository"
	"github.com/Alturino/storefront/devserver/internal/service"
	"github.com/Alturino/storefront/internal/common/constants"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/otel"
)

type RouterOptions struct {
	Logger    zerolog.Logger
	Now       func() time.Time
	Prefix    string
	SecretKey string
	Endpoints config.Endpoints
}

// NewRouter builds the dev server handler: the storefront API under Prefix, backed by a
// fresh in-memory store, and Prometheus metrics at /metrics.
func NewRouter(opts RouterOptions) http.Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	queries := repository.New(opts.Now())
	m := metrics.New()
	userService := service.NewUserService(queries, opts.SecretKey, opts.Now)
	cartService := service.NewCartService(queries, opts.Now)
	orderService := service.NewOrderService(queries, cartService, opts.Now)
	favoriteService := service.NewFavoriteService(queries)
	productService := service.NewProductService(queries)
	addressService := service.NewAddressService(queries)

	router := mux.NewRouter()
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix(strings.TrimRight(opts.Prefix, "/")).Subrouter()
	api.Use(
		otelmux.Middleware(constants.APP_DEVSERVER),
		m.Middleware,
		middleware.Logging(opts.Logger),
		middleware.RecoverPanic,
	)

	public := api.NewRoute().Subrouter()
	controller.AttachUserController(public, opts.Endpoints, userService)
	controller.AttachProductController(public, opts.Endpoints, productService)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(opts.SecretKey))
	controller.AttachCartController(protected, opts.Endpoints, cartService)
	controller.AttachOrderController(protected, opts.Endpoints, orderService, m)
	controller.AttachFavoriteController(protected, opts.Endpoints, favoriteService)
	controller.AttachAddressController(protected, opts.Endpoints, addressService)
	controller.AttachProfileController(protected, opts.Endpoints, userService)

	return router
}

// RunDevServer serves the dev API on cfg.DevServer until c is cancelled.
func RunDevServer(c context.Context, cfg config.Config) error {
	c, span := devOtel.Tracer.Start(c, "RunDevServer")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_DEVSERVER).
		Str(log.KeyTag, "main RunDevServer").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	otelShutdowns, err := otel.InitOtelSdk(logger.WithContext(c), constants.APP_DEVSERVER, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(context.Background(), otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	prefix := "/api"
	if u, err := url.Parse(cfg.Api.BaseURL); err == nil && u.Path != "" {
		prefix = u.Path
	}
	handler := NewRouter(RouterOptions{
		Logger:    logger,
		Prefix:    prefix,
		SecretKey: cfg.DevServer.SecretKey,
		Endpoints: cfg.Api.Endpoints,
	})
	logger.Info().Str("prefix", prefix).Msg("initialized router")

	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.DevServer.Host, cfg.DevServer.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      handler,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("error=%w occured while server is running", err)
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		return err
	case <-c.Done():
	}

	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("shutdown http server")
	return nil
}
