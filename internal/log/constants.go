package log

const (
	KeyAppName             = "app"
	KeyRequestID           = "requestId"
	KeyProcess             = "process"
	KeyTag                 = "tag"
	KeyConfig              = "config"
	KeyEmail               = "email"
	KeyUserID              = "userId"
	KeyTraceID             = "traceId"
	KeySpanID              = "spanId"
	KeyRequestBody         = "requestBody"
	KeyRequestHost         = "host"
	KeyRequestIp           = "requesterIP"
	KeyRequestMethod       = "requestMethod"
	KeyRequestURI          = "requestURI"
	KeyRequestURL          = "requestURL"
	KeyResponseStatus      = "responseStatus"
	KeyProductID           = "productId"
	KeyProducts            = "products"
	KeyProductFilter       = "productFilter"
	KeyQuantity            = "quantity"
	KeyCouponCode          = "couponCode"
	KeyCart                = "cart"
	KeyCartItems           = "cartItems"
	KeyCartItemsMerged     = "cartItemsMerged"
	KeyCartVersion         = "cartVersion"
	KeyOperation           = "operation"
	KeyOrder               = "order"
	KeyOrders              = "orders"
	KeyFavorites           = "favorites"
	KeyIdentity            = "identity"
	KeyCacheKey            = "cacheKey"
	KeyNotificationLevel   = "notificationLevel"
	KeyNotificationTitle   = "notificationTitle"
	KeyNotificationMessage = "notificationMessage"
	KeyAddressID           = "addressId"
	KeyAddresses           = "addresses"
)
