package http

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderRequestID     = "X-Request-Id"
	HeaderValueJson     = "application/json"
	BearerPrefix        = "Bearer "
)
