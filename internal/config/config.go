package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/storefront/internal/log"
)

type Application struct {
	Env     string `mapstructure:"env"      json:"env"`
	Name    string `mapstructure:"name"     json:"name"`
	LogFile string `mapstructure:"log_file" json:"log_file"`
}

type Endpoints struct {
	Cart           string `mapstructure:"cart"            json:"cart"`
	AddToCart      string `mapstructure:"add_to_cart"     json:"add_to_cart"`
	UpdateQuantity string `mapstructure:"update_quantity" json:"update_quantity"`
	RemoveFromCart string `mapstructure:"remove_from_cart" json:"remove_from_cart"`
	ClearCart      string `mapstructure:"clear_cart"      json:"clear_cart"`
	ApplyCoupon    string `mapstructure:"apply_coupon"    json:"apply_coupon"`
	RemoveCoupon   string `mapstructure:"remove_coupon"   json:"remove_coupon"`
	Orders         string `mapstructure:"orders"          json:"orders"`
	MyOrders       string `mapstructure:"my_orders"       json:"my_orders"`
	MyCoupons      string `mapstructure:"my_coupons"      json:"my_coupons"`
	Favorites      string `mapstructure:"favorites"       json:"favorites"`
	Products       string `mapstructure:"products"        json:"products"`
	Login          string `mapstructure:"login"           json:"login"`
	Register       string `mapstructure:"register"        json:"register"`
	UpdateProfile  string `mapstructure:"update_profile"  json:"update_profile"`
	Addresses      string `mapstructure:"addresses"       json:"addresses"`
	MyAddresses    string `mapstructure:"my_addresses"    json:"my_addresses"`
}

type Api struct {
	BaseURL   string        `mapstructure:"base_url"  json:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"   json:"timeout"`
	Endpoints Endpoints     `mapstructure:"endpoints" json:"endpoints"`
}

type Display struct {
	CurrencySymbol   string `mapstructure:"currency_symbol"   json:"currency_symbol"`
	DecimalSeparator string `mapstructure:"decimal_separator" json:"decimal_separator"`
	GroupSeparator   string `mapstructure:"group_separator"   json:"group_separator"`
	SymbolAfter      bool   `mapstructure:"symbol_after"      json:"symbol_after"`
}

type Cache struct {
	Enabled  bool   `mapstructure:"enabled"  json:"enabled"`
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Host    string `mapstructure:"host"    json:"host"`
	Port    int    `mapstructure:"port"    json:"port"`
}

type DevServer struct {
	Host      string `mapstructure:"host"       json:"host"`
	SecretKey string `mapstructure:"secret_key" json:"-"`
	Port      int    `mapstructure:"port"       json:"port"`
}

type Config struct {
	Application `mapstructure:"application" json:"application"`
	Api         `mapstructure:"api"         json:"api"`
	Display     `mapstructure:"display"     json:"display"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Otel        `mapstructure:"otel"        json:"otel"`
	DevServer   `mapstructure:"devserver"   json:"devserver"`
}

var (
	once   sync.Once
	config *Config
)

// DefaultEndpoints mirrors the paths served by the storefront API.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Cart:           "/cart",
		AddToCart:      "/cart/add",
		UpdateQuantity: "/cart/update-quantity",
		RemoveFromCart: "/cart",
		ClearCart:      "/cart/clear",
		ApplyCoupon:    "/cart/apply-coupon",
		RemoveCoupon:   "/cart/remove-coupon",
		Orders:         "/order",
		MyOrders:       "/order/my-orders",
		MyCoupons:      "/coupons/my-coupons",
		Favorites:      "/favorites",
		Products:       "/products",
		Login:          "/auth/login",
		Register:       "/auth/register",
		UpdateProfile:  "/auth/update-profile",
		Addresses:      "/addresses",
		MyAddresses:    "/addresses/my-addresses",
	}
}

// DefaultDisplay renders amounts the way the store shows Turkish lira, e.g. ₺1.234,56.
func DefaultDisplay() Display {
	return Display{CurrencySymbol: "₺", DecimalSeparator: ",", GroupSeparator: "."}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "production")
	v.SetDefault("application.name", "storefront")
	v.SetDefault("application.log_file", "")

	v.SetDefault("api.base_url", "http://localhost:5227/api")
	v.SetDefault("api.timeout", 20*time.Second)
	endpoints := DefaultEndpoints()
	v.SetDefault("api.endpoints.cart", endpoints.Cart)
	v.SetDefault("api.endpoints.add_to_cart", endpoints.AddToCart)
	v.SetDefault("api.endpoints.update_quantity", endpoints.UpdateQuantity)
	v.SetDefault("api.endpoints.remove_from_cart", endpoints.RemoveFromCart)
	v.SetDefault("api.endpoints.clear_cart", endpoints.ClearCart)
	v.SetDefault("api.endpoints.apply_coupon", endpoints.ApplyCoupon)
	v.SetDefault("api.endpoints.remove_coupon", endpoints.RemoveCoupon)
	v.SetDefault("api.endpoints.orders", endpoints.Orders)
	v.SetDefault("api.endpoints.my_orders", endpoints.MyOrders)
	v.SetDefault("api.endpoints.my_coupons", endpoints.MyCoupons)
	v.SetDefault("api.endpoints.favorites", endpoints.Favorites)
	v.SetDefault("api.endpoints.products", endpoints.Products)
	v.SetDefault("api.endpoints.login", endpoints.Login)
	v.SetDefault("api.endpoints.register", endpoints.Register)
	v.SetDefault("api.endpoints.update_profile", endpoints.UpdateProfile)
	v.SetDefault("api.endpoints.addresses", endpoints.Addresses)
	v.SetDefault("api.endpoints.my_addresses", endpoints.MyAddresses)

	display := DefaultDisplay()
	v.SetDefault("display.currency_symbol", display.CurrencySymbol)
	v.SetDefault("display.decimal_separator", display.DecimalSeparator)
	v.SetDefault("display.group_separator", display.GroupSeparator)
	v.SetDefault("display.symbol_after", display.SymbolAfter)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.database", 0)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)

	v.SetDefault("devserver.host", "localhost")
	v.SetDefault("devserver.port", 5227)
	v.SetDefault("devserver.secret_key", "storefront-dev-secret")
}

// Load reads env/<filename>.yaml when present and applies STOREFRONT_* overrides on top of
// the defaults. A missing config file is not an error.
func Load(c context.Context, filename string) (Config, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "config Load").
		Str(log.KeyProcess, "init config").
		Str("filename", filename).
		Logger()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(filename)
	v.AddConfigPath("./env")
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
	logger.Info().Msg("reading config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			err = fmt.Errorf("failed reading config with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return Config{}, err
		}
		logger.Info().Msg("config file not found, using defaults")
	}
	logger.Info().Msg("read config")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
	logger.Info().Msg("unmarshaling config")
	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		err = fmt.Errorf("failed unmarshaling config with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return Config{}, err
	}
	logger.Info().Any(log.KeyConfig, cfg).Msg("unmarshaled config")

	return cfg, nil
}

// Get loads the process-wide config once; a failure is fatal.
func Get(c context.Context, filename string) *Config {
	once.Do(func() {
		cfg, err := Load(c, filename)
		if err != nil {
			zerolog.Ctx(c).Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
	})
	return config
}
