package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	commonHttp "github.com/Alturino/storefront/internal/common/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

// Logging attaches a request scoped logger and request id to the context. Passwords in the
// logged body are masked.
func Logging(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(commonHttp.HeaderRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c, span := otel.Tracer.Start(
				r.Context(),
				"middleware Logging",
				trace.WithAttributes(
					attribute.String(log.KeyRequestID, requestID),
					attribute.String(log.KeyRequestHost, r.Host),
					attribute.String(log.KeyRequestIp, r.RemoteAddr),
					attribute.String(log.KeyRequestMethod, r.Method),
					attribute.String(log.KeyRequestURI, r.RequestURI),
				),
			)
			defer span.End()

			requestBody := map[string]any{}
			if r.Body != nil {
				var buffer bytes.Buffer
				json.NewDecoder(io.TeeReader(r.Body, &buffer)).Decode(&requestBody)
				if requestBody["password"] != nil {
					requestBody["password"] = "****"
				}
				r.Body = io.NopCloser(&buffer)
			}

			logger := base.With().
				Str(log.KeyRequestID, requestID).
				Dict(log.KeyRequestBody, zerolog.Dict().
					Str(log.KeyRequestHost, r.Host).
					Str(log.KeyRequestIp, r.RemoteAddr).
					Str(log.KeyRequestMethod, r.Method).
					Str(log.KeyRequestURI, r.RequestURI).
					Any("body", requestBody)).
				Logger()
			logger.Trace().Msg("attached request value to logger")

			c = log.AttachRequestIDToContext(c, requestID)
			c = logger.WithContext(c)
			w.Header().Set(commonHttp.HeaderRequestID, requestID)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
