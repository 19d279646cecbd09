package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	commonHttp "github.com/Alturino/storefront/internal/common/http"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

const DefaultTimeout = 20 * time.Second

// Request describes one call against the storefront API. Token is sent as a bearer
// credential when non-empty; Body is JSON encoded when non-nil; Query is appended to Path.
type Request struct {
	Body   any
	Query  url.Values
	Method string
	Path   string
	Token  string
}

// Client speaks the storefront API's JSON conventions: bearer auth, {message} error bodies
// and empty success bodies.
type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(cfg config.Api) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Do sends req and decodes a successful body into out. A 204 or empty body leaves out
// untouched. Transport failures and timeouts wrap ErrNetwork, non-2xx answers are
// *ServerError and undecodable success bodies wrap ErrParse.
func (cl *Client) Do(c context.Context, req Request, out any) error {
	c, span := otel.Tracer.Start(
		c,
		"Client Do",
		trace.WithAttributes(
			attribute.String(log.KeyRequestMethod, req.Method),
			attribute.String(log.KeyRequestURI, req.Path),
		),
	)
	defer span.End()

	requestID := log.RequestIDFromContext(c)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Client Do").
		Str(log.KeyRequestMethod, req.Method).
		Str(log.KeyRequestURI, req.Path).
		Str(log.KeyRequestID, requestID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "encoding request body").Logger()
	var body io.Reader
	if req.Body != nil {
		logger.Trace().Msg("encoding request body")
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			err = fmt.Errorf("failed encoding request body with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		body = bytes.NewReader(encoded)
		logger.Trace().Msg("encoded request body")
	}

	logger = logger.With().Str(log.KeyProcess, "building request").Logger()
	target := cl.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(c, req.Method, target, body)
	if err != nil {
		err = fmt.Errorf("failed building request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	httpReq.Header.Set(commonHttp.HeaderRequestID, requestID)
	if req.Token != "" {
		httpReq.Header.Set(commonHttp.HeaderAuthorization, commonHttp.BearerPrefix+req.Token)
	}
	if req.Body != nil {
		httpReq.Header.Set(commonHttp.HeaderContentType, commonHttp.HeaderValueJson)
	}

	logger = logger.With().Str(log.KeyProcess, "sending request").Logger()
	logger.Info().Msg("sending request")
	resp, err := cl.http.Do(httpReq)
	if err != nil {
		err = fmt.Errorf("failed sending request with error=%w", errors.Join(commonErrors.ErrNetwork, err))
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int(log.KeyResponseStatus, resp.StatusCode))
	logger = logger.With().Int(log.KeyResponseStatus, resp.StatusCode).Logger()
	logger.Info().Msg("sent request")

	logger = logger.With().Str(log.KeyProcess, "reading response body").Logger()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed reading response body with error=%w", errors.Join(commonErrors.ErrNetwork, err))
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = commonErrors.NewServerError(resp.StatusCode, ParseErrorMessage(raw))
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg("server rejected request")
		return err
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 || out == nil {
		logger.Trace().Msg("empty response body")
		return nil
	}

	logger = logger.With().Str(log.KeyProcess, "decoding response body").Logger()
	logger.Trace().Msg("decoding response body")
	if err := json.Unmarshal(raw, out); err != nil {
		err = fmt.Errorf("failed decoding response body with error=%w", errors.Join(commonErrors.ErrParse, err))
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("decoded response body")

	return nil
}

// ParseErrorMessage extracts what the server said from an error body: the JSON message
// field, otherwise the raw text, otherwise a generic fallback.
func ParseErrorMessage(raw []byte) string {
	body := MessageResponse{}
	if err := json.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Message) != "" {
		return body.Message
	}
	if text := strings.TrimSpace(string(raw)); text != "" && !json.Valid(raw) {
		return text
	}
	return commonErrors.MessageUnknown
}
