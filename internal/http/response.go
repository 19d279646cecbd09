package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	commonHttp "github.com/Alturino/storefront/internal/common/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	body any,
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "WriteJsonResponse").Logger()

	if statusCode == http.StatusNoContent || body == nil {
		w.WriteHeader(statusCode)
		return
	}

	w.Header().Set(commonHttp.HeaderContentType, commonHttp.HeaderValueJson)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

func WriteMessageResponse(c context.Context, w http.ResponseWriter, statusCode int, message string) {
	WriteJsonResponse(c, w, statusCode, MessageResponse{Message: message})
}
