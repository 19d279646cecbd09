package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/token"
	"github.com/Alturino/storefront/user/pkg/request"
	"github.com/Alturino/storefront/user/pkg/response"
)

const secretKey = "devserver-test"

func newServer(t *testing.T) (*httptest.Server, *inHttp.Client) {
	t.Helper()
	server := httptest.NewServer(NewRouter(RouterOptions{
		Logger:    zerolog.Nop(),
		Prefix:    "/api",
		SecretKey: secretKey,
		Endpoints: config.DefaultEndpoints(),
	}))
	t.Cleanup(server.Close)
	return server, inHttp.NewClient(config.Api{BaseURL: server.URL + "/api", Timeout: 5 * time.Second})
}

func TestAuthRoutes(t *testing.T) {
	c := context.Background()
	endpoints := config.DefaultEndpoints()
	_, client := newServer(t)
	register := request.Register{Name: "Elif", Email: "elif@example.com", Password: "secret1"}

	t.Run("given new email should register", func(t *testing.T) {
		resp := response.Register{}
		err := client.Do(c, inHttp.Request{Method: http.MethodPost, Path: endpoints.Register, Body: register.Body()}, &resp)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Message)
	})

	t.Run("given taken email should conflict", func(t *testing.T) {
		err := client.Do(c, inHttp.Request{Method: http.MethodPost, Path: endpoints.Register, Body: register.Body()}, nil)

		var serverErr *commonErrors.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.StatusConflict, serverErr.StatusCode)
	})

	t.Run("given right password should return verifiable token", func(t *testing.T) {
		resp := response.Login{}
		login := request.Login{Email: "elif@example.com", Password: "secret1"}
		err := client.Do(c, inHttp.Request{Method: http.MethodPost, Path: endpoints.Login, Body: login.Body()}, &resp)

		require.NoError(t, err)
		require.NotNil(t, resp.User)
		assert.Equal(t, "Elif", resp.User.Name)
		claims, err := token.Verify(c, secretKey, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.Subject)
	})

	t.Run("given wrong password should be unauthorized", func(t *testing.T) {
		login := request.Login{Email: "elif@example.com", Password: "wrong-password"}
		err := client.Do(c, inHttp.Request{Method: http.MethodPost, Path: endpoints.Login, Body: login.Body()}, nil)

		var serverErr *commonErrors.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.StatusUnauthorized, serverErr.StatusCode)
		assert.Equal(t, "invalid email or password", serverErr.Message)
	})

	t.Run("given invalid body should be a bad request", func(t *testing.T) {
		err := client.Do(c, inHttp.Request{Method: http.MethodPost, Path: endpoints.Register, Body: map[string]string{"email": "x"}}, nil)

		var serverErr *commonErrors.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.StatusBadRequest, serverErr.StatusCode)
	})
}

func TestProfileRoute(t *testing.T) {
	c := context.Background()
	endpoints := config.DefaultEndpoints()
	_, client := newServer(t)
	for _, register := range []request.Register{
		{Name: "Elif", Email: "elif@example.com", Password: "secret1"},
		{Name: "Can", Email: "can@example.com", Password: "secret1"},
	} {
		require.NoError(t, client.Do(c, inHttp.Request{Method: http.MethodPost, Path: endpoints.Register, Body: register.Body()}, nil))
	}
	login := response.Login{}
	credentials := request.Login{Email: "elif@example.com", Password: "secret1"}
	require.NoError(t, client.Do(c, inHttp.Request{Method: http.MethodPost, Path: endpoints.Login, Body: credentials.Body()}, &login))

	t.Run("given new profile should answer the updated user", func(t *testing.T) {
		profile := request.UpdateProfile{Name: "Elif Demir", Email: "elif.demir@example.com", PhoneNumber: "05551234567", Address: "Moda Cd. 5"}
		user := response.User{}
		err := client.Do(c, inHttp.Request{Method: http.MethodPut, Path: endpoints.UpdateProfile, Body: profile, Token: login.Token}, &user)

		require.NoError(t, err)
		assert.Equal(t, login.User.ID, user.ID)
		assert.Equal(t, "Elif Demir", user.Name)
		assert.Equal(t, "elif.demir@example.com", user.Email)
		assert.Equal(t, "05551234567", user.PhoneNumber)
		assert.Equal(t, "Moda Cd. 5", user.Address)
	})

	t.Run("given changed email should sign in with it", func(t *testing.T) {
		resp := response.Login{}
		moved := request.Login{Email: "elif.demir@example.com", Password: "secret1"}
		err := client.Do(c, inHttp.Request{Method: http.MethodPost, Path: endpoints.Login, Body: moved.Body()}, &resp)

		require.NoError(t, err)
		assert.Equal(t, "Elif Demir", resp.User.Name)
	})

	t.Run("given email of another user should conflict", func(t *testing.T) {
		profile := request.UpdateProfile{Name: "Elif", Email: "can@example.com"}
		err := client.Do(c, inHttp.Request{Method: http.MethodPut, Path: endpoints.UpdateProfile, Body: profile, Token: login.Token}, nil)

		var serverErr *commonErrors.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.StatusConflict, serverErr.StatusCode)
	})

	t.Run("given missing token should be unauthorized", func(t *testing.T) {
		profile := request.UpdateProfile{Name: "Elif", Email: "elif@example.com"}
		err := client.Do(c, inHttp.Request{Method: http.MethodPut, Path: endpoints.UpdateProfile, Body: profile}, nil)

		var serverErr *commonErrors.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.StatusUnauthorized, serverErr.StatusCode)
	})
}

func TestProtectedRoutesRejectForgedTokens(t *testing.T) {
	_, client := newServer(t)
	forged, err := token.Sign("other-secret", "4d7c5c0e-4a52-4d0e-9f0a-6a1c2b3d4e5f", "", "", time.Now(), time.Hour)
	require.NoError(t, err)

	err = client.Do(context.Background(), inHttp.Request{Method: http.MethodGet, Path: "/cart", Token: forged}, nil)

	var serverErr *commonErrors.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusUnauthorized, serverErr.StatusCode)
	assert.Equal(t, commonErrors.ErrTokenInvalid.Error(), serverErr.Message)
}

func TestMetricsEndpoint(t *testing.T) {
	server, client := newServer(t)
	client.Do(context.Background(), inHttp.Request{Method: http.MethodGet, Path: "/cart"}, nil)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "storefront_devserver_requests_total")
}
