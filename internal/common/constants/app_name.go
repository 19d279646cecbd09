package constants

const (
	APP_STOREFRONT       = "storefront"
	APP_STOREFRONT_CLI   = "storefront-cli"
	APP_DEVSERVER        = "storefront-devserver"
	APP_CART_SESSION     = "cart-session"
	APP_FAVORITE_SESSION = "favorite-session"
	APP_ADDRESS_SESSION  = "address-session"
	APP_AUTH_SESSION     = "auth-session"
	APP_PRODUCT_CLIENT   = "product-client"
	AUDIENCE_USER        = "audience-user"
)

const (
	APP_ORDER_CLIENT = "order-client"
	APP_NOTIFIER     = "notifier"
)
