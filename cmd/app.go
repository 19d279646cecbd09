package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	addressCmd "github.com/Alturino/storefront/address/cmd"
	addressRequest "github.com/Alturino/storefront/address/pkg/request"
	addressResponse "github.com/Alturino/storefront/address/pkg/response"
	cartCmd "github.com/Alturino/storefront/cart/cmd"
	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	favoriteCmd "github.com/Alturino/storefront/favorite/cmd"
	favoriteResponse "github.com/Alturino/storefront/favorite/pkg/response"
	"github.com/Alturino/storefront/internal/common/constants"
	commonResponse "github.com/Alturino/storefront/internal/common/response"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/notification/pkg/notifier"
	orderCmd "github.com/Alturino/storefront/order/cmd"
	orderRequest "github.com/Alturino/storefront/order/pkg/request"
	orderResponse "github.com/Alturino/storefront/order/pkg/response"
	productCmd "github.com/Alturino/storefront/product/cmd"
	productRequest "github.com/Alturino/storefront/product/pkg/request"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
	userCmd "github.com/Alturino/storefront/user/cmd"
	userRequest "github.com/Alturino/storefront/user/pkg/request"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

type authSession interface {
	Identity() userResponse.Identity
	Restore(c context.Context) userResponse.Identity
	Login(c context.Context, param userRequest.Login) (commonResponse.Result, error)
	Register(c context.Context, param userRequest.Register) (commonResponse.Result, error)
	Logout(c context.Context) commonResponse.Result
	EnterGuestMode(c context.Context) commonResponse.Result
	UpdateProfile(c context.Context, param userRequest.UpdateProfile) (userResponse.User, commonResponse.Result, error)
}

type cartSession interface {
	State() cartResponse.CartState
	FormattedTotalPrice() string
	FormattedDiscountAmount() string
	AddItem(c context.Context, productID string, quantity int) (commonResponse.Result, error)
	UpdateQuantity(c context.Context, productID string, quantity int) (commonResponse.Result, error)
	RemoveItem(c context.Context, productID string) (commonResponse.Result, error)
	Clear(c context.Context) (commonResponse.Result, error)
	ApplyCoupon(c context.Context, code string) (commonResponse.Result, error)
	RemoveCoupon(c context.Context) (commonResponse.Result, error)
	ConfirmOrder(c context.Context, details orderRequest.OrderDetails) (commonResponse.Result, error)
}

type favoritesSession interface {
	Load(c context.Context) favoriteResponse.FavoritesState
	Toggle(c context.Context, productID string) (commonResponse.Result, error)
	IDs() []string
}

type addressBook interface {
	State() addressResponse.AddressState
	Add(c context.Context, param addressRequest.Address) (commonResponse.Result, error)
	Update(c context.Context, id string, param addressRequest.Address) (commonResponse.Result, error)
	Delete(c context.Context, id string) (commonResponse.Result, error)
	SetDefault(c context.Context, id string) (commonResponse.Result, error)
}

type orderHistory interface {
	MyOrders(c context.Context, token string) ([]orderResponse.Order, error)
}

type productCatalog interface {
	FindProducts(c context.Context, filter productRequest.FindProducts) ([]productResponse.Product, error)
	FindProductByID(c context.Context, productID string) (productResponse.Product, error)
}

type couponList interface {
	MyCoupons(c context.Context, token string) ([]cartResponse.Coupon, error)
}

// app is one CLI run: the config, the sessions wired to each other and the output.
type app struct {
	cfg       config.Config
	out       io.Writer
	auth      authSession
	cart      cartSession
	favorites favoritesSession
	addresses addressBook
	orders    orderHistory
	coupons   couponList
	products  productCatalog
	closers   []func() error
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, constants.APP_STOREFRONT, constants.APP_STOREFRONT_CLI+".log")
}

// newApp loads the config, restores the saved identity and loads the cart and address book
// for it.
func newApp(c context.Context, configName string, out io.Writer) (context.Context, *app, error) {
	cfg, err := config.Load(c, configName)
	if err != nil {
		return c, nil, err
	}

	logFile := cfg.Application.LogFile
	if logFile == "" {
		logFile = defaultLogFile()
	}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
			logFile = ""
		}
	}
	logger := log.Get(logFile, cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.APP_STOREFRONT_CLI).
		Str(log.KeyTag, "main newApp").
		Logger()
	c = logger.WithContext(c)

	a := &app{cfg: cfg, out: out}

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	shutdowns, err := otel.InitOtelSdk(c, constants.APP_STOREFRONT_CLI, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return c, nil, err
	}
	a.closers = append(a.closers, func() error { return otel.ShutdownOtel(context.Background(), shutdowns) })
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing sessions").Logger()
	logger.Info().Msg("initializing sessions")
	client := inHttp.NewClient(cfg.Api)
	n := notifier.NewConsoleNotifier(out)
	auth, closeAuth, err := userCmd.NewAuthSession(c, client, cfg)
	if err != nil {
		err = errors.Join(err, a.close())
		logger.Error().Err(err).Msg(err.Error())
		return c, nil, err
	}
	a.closers = append(a.closers, closeAuth)

	orders := orderCmd.NewOrderAPI(client, cfg.Api.Endpoints)
	cart := cartCmd.NewCartSession(client, cfg, orders, auth, n)
	auth.Subscribe(cart.OnIdentityChange)
	addresses := addressCmd.NewAddressSession(client, cfg.Api.Endpoints, auth, n)
	auth.Subscribe(addresses.OnIdentityChange)

	a.auth = auth
	a.cart = cart
	a.favorites = favoriteCmd.NewFavoritesSession(client, cfg.Api.Endpoints, auth, n)
	a.addresses = addresses
	a.orders = orders
	a.coupons = cartCmd.NewCartAPI(client, cfg.Api.Endpoints)
	a.products = productCmd.NewProductAPI(client, cfg.Api.Endpoints)
	logger.Info().Msg("initialized sessions")

	logger = logger.With().Str(log.KeyProcess, "restoring identity").Logger()
	logger.Info().Msg("restoring identity")
	identity := auth.Restore(c)
	logger.Info().Bool("authenticated", identity.IsAuthenticated()).Msg("restored identity")

	return c, a, nil
}

func (a *app) close() error {
	var errs error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = errors.Join(errs, a.closers[i]())
	}
	return errs
}

// loggerFrom returns the logger newApp put in c, or a disabled one.
func loggerFrom(c context.Context, tag string) zerolog.Logger {
	return zerolog.Ctx(c).With().Str(log.KeyTag, tag).Logger()
}
