package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/token"
	"github.com/Alturino/storefront/user/internal/store"
	"github.com/Alturino/storefront/user/pkg/request"
	"github.com/Alturino/storefront/user/pkg/response"
)

func signToken(t *testing.T, issuedAt time.Time) string {
	t.Helper()
	signed, err := token.Sign("secret", "user-1", "Ayşe", "ayse@example.com", issuedAt, time.Hour)
	require.NoError(t, err)
	return signed
}

func newTestSession(t *testing.T, handler http.HandlerFunc, tokenStore store.TokenStore) (*AuthSession, *[]response.Identity) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := NewAuthSession(
		inHttp.NewClient(config.Api{BaseURL: server.URL, Timeout: time.Second}),
		config.DefaultEndpoints(),
		tokenStore,
	)
	seen := &[]response.Identity{}
	session.Subscribe(func(_ context.Context, identity response.Identity) {
		*seen = append(*seen, identity)
	})
	return session, seen
}

func TestAuthSessionLogin(t *testing.T) {
	signed := signToken(t, time.Now())

	tests := []struct {
		name             string
		param            request.Login
		handler          http.HandlerFunc
		expectedErr      error
		expectedMessage  string
		expectedIdentity response.Identity
		expectedStored   bool
	}{
		{
			name:  "given valid credentials should authenticate and persist token",
			param: request.Login{Email: "ayse@example.com", Password: "secret1"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				body := map[string]string{}
				json.NewDecoder(r.Body).Decode(&body)
				if body["password"] != "secret1" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				json.NewEncoder(w).Encode(response.Login{
					Token: signed,
					User:  &response.User{ID: "user-1", Name: "Ayşe Yılmaz", Email: "ayse@example.com"},
				})
			},
			expectedMessage: messageLoggedIn,
			expectedIdentity: response.Identity{
				Token:         signed,
				UserID:        "user-1",
				Name:          "Ayşe Yılmaz",
				Email:         "ayse@example.com",
				Authenticated: true,
			},
			expectedStored: true,
		},
		{
			name:  "given rejected credentials should surface server message",
			param: request.Login{Email: "ayse@example.com", Password: "wrong"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"invalid email or password"}`))
			},
			expectedErr:     commonErrors.ErrServer,
			expectedMessage: "invalid email or password",
		},
		{
			name:  "given invalid email should not reach the network",
			param: request.Login{Email: "not-an-email", Password: "x"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				t.Error("unexpected request")
			},
			expectedErr: commonErrors.ErrValidation,
		},
		{
			name:  "given malformed token should fail login",
			param: request.Login{Email: "ayse@example.com", Password: "secret1"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"token":"garbage"}`))
			},
			expectedErr: commonErrors.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenStore := store.NewMemoryTokenStore()
			session, seen := newTestSession(t, tt.handler, tokenStore)

			result, err := session.Login(context.Background(), tt.param)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.False(t, result.Success)
				if tt.expectedMessage != "" {
					assert.Equal(t, tt.expectedMessage, result.Message)
				}
				assert.Empty(t, *seen)
				assert.False(t, session.Identity().IsAuthenticated())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedMessage, result.Message)
			assert.Equal(t, tt.expectedIdentity, session.Identity())
			assert.Equal(t, []response.Identity{tt.expectedIdentity}, *seen)

			stored, err := tokenStore.Load(context.Background())
			assert.Equal(t, tt.expectedStored, err == nil)
			assert.Equal(t, tt.expectedIdentity.Token, stored)
		})
	}
}

func TestAuthSessionRestore(t *testing.T) {
	t.Run("given stored valid token should restore identity", func(t *testing.T) {
		tokenStore := store.NewMemoryTokenStore()
		signed := signToken(t, time.Now())
		require.NoError(t, tokenStore.Save(context.Background(), signed))
		session, seen := newTestSession(t, http.NotFound, tokenStore)

		identity := session.Restore(context.Background())

		assert.True(t, identity.IsAuthenticated())
		assert.Equal(t, "user-1", identity.UserID)
		assert.Equal(t, "Ayşe", identity.Name)
		assert.Len(t, *seen, 1)
	})

	t.Run("given stored expired token should sign out and delete it", func(t *testing.T) {
		tokenStore := store.NewMemoryTokenStore()
		require.NoError(t, tokenStore.Save(context.Background(), signToken(t, time.Now().Add(-3*time.Hour))))
		session, seen := newTestSession(t, http.NotFound, tokenStore)

		identity := session.Restore(context.Background())

		assert.False(t, identity.IsAuthenticated())
		assert.Equal(t, []response.Identity{{}}, *seen)
		_, err := tokenStore.Load(context.Background())
		assert.ErrorIs(t, err, commonErrors.ErrNotFound)
	})

	t.Run("given no stored token should stay signed out", func(t *testing.T) {
		session, seen := newTestSession(t, http.NotFound, store.NewMemoryTokenStore())

		identity := session.Restore(context.Background())

		assert.Equal(t, response.Identity{}, identity)
		assert.Len(t, *seen, 1)
	})
}

func TestAuthSessionTransitions(t *testing.T) {
	tokenStore := store.NewMemoryTokenStore()
	require.NoError(t, tokenStore.Save(context.Background(), signToken(t, time.Now())))
	session, seen := newTestSession(t, http.NotFound, tokenStore)
	session.Restore(context.Background())

	guest := session.EnterGuestMode(context.Background())
	assert.True(t, guest.Success)
	assert.True(t, session.Identity().Guest)
	assert.False(t, session.Identity().IsAuthenticated())

	logout := session.Logout(context.Background())
	assert.True(t, logout.Success)
	assert.Equal(t, response.Identity{}, session.Identity())
	_, err := tokenStore.Load(context.Background())
	assert.ErrorIs(t, err, commonErrors.ErrNotFound)

	require.Len(t, *seen, 3)
	assert.True(t, (*seen)[0].Authenticated)
	assert.True(t, (*seen)[1].Guest)
	assert.Equal(t, response.Identity{}, (*seen)[2])
}

func TestAuthSessionRegister(t *testing.T) {
	t.Run("given valid request should return server message", func(t *testing.T) {
		var received map[string]string
		session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&received)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message":"welcome"}`))
		}, store.NewMemoryTokenStore())

		result, err := session.Register(
			context.Background(),
			request.Register{Name: "Ayşe", Email: "ayse@example.com", Password: "secret1"},
		)

		require.NoError(t, err)
		assert.Equal(t, "welcome", result.Message)
		assert.Equal(t, "secret1", received["password"])
	})

	t.Run("given short password should not reach the network", func(t *testing.T) {
		session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		}, store.NewMemoryTokenStore())

		_, err := session.Register(
			context.Background(),
			request.Register{Name: "Ayşe", Email: "ayse@example.com", Password: "123"},
		)

		assert.ErrorIs(t, err, commonErrors.ErrValidation)
	})
}

func TestAuthSessionUpdateProfile(t *testing.T) {
	signed := signToken(t, time.Now())
	signedIn := response.Identity{
		Token:         signed,
		UserID:        "user-1",
		Name:          "Ayşe",
		Email:         "ayse@example.com",
		Authenticated: true,
	}
	param := request.UpdateProfile{
		Name:        "Ayşe Kaya",
		Email:       "ayse.kaya@example.com",
		PhoneNumber: "05551234567",
		Address:     "Moda Cd. 5, Kadıköy",
	}

	tests := []struct {
		name             string
		identity         response.Identity
		param            request.UpdateProfile
		handler          http.HandlerFunc
		expectedErr      error
		expectedMessage  string
		expectedIdentity response.Identity
	}{
		{
			name:     "given signed in shopper should send profile and take the answered name",
			identity: signedIn,
			param:    param,
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut || r.URL.Path != "/auth/update-profile" ||
					r.Header.Get("Authorization") != "Bearer "+signed {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				body := map[string]string{}
				json.NewDecoder(r.Body).Decode(&body)
				json.NewEncoder(w).Encode(response.User{
					ID:          "user-1",
					Name:        body["name"],
					Email:       body["email"],
					PhoneNumber: body["phoneNumber"],
					Address:     body["address"],
				})
			},
			expectedMessage: messageProfile,
			expectedIdentity: response.Identity{
				Token:         signed,
				UserID:        "user-1",
				Name:          "Ayşe Kaya",
				Email:         "ayse.kaya@example.com",
				Authenticated: true,
			},
		},
		{
			name:     "given taken email should surface server message and keep identity",
			identity: signedIn,
			param:    param,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"message":"email already exist"}`))
			},
			expectedErr:      commonErrors.ErrServer,
			expectedMessage:  "email already exist",
			expectedIdentity: signedIn,
		},
		{
			name:     "given guest should require sign in",
			identity: response.Identity{Guest: true},
			param:    param,
			handler: func(w http.ResponseWriter, r *http.Request) {
				t.Error("unexpected request")
			},
			expectedErr:      commonErrors.ErrAuthRequired,
			expectedMessage:  commonErrors.MessageSignIn,
			expectedIdentity: response.Identity{Guest: true},
		},
		{
			name:     "given invalid email should not reach the network",
			identity: signedIn,
			param:    request.UpdateProfile{Name: "Ayşe", Email: "not-an-email"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				t.Error("unexpected request")
			},
			expectedErr:      commonErrors.ErrValidation,
			expectedIdentity: signedIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, seen := newTestSession(t, tt.handler, store.NewMemoryTokenStore())
			session.setIdentity(context.Background(), tt.identity)
			*seen = nil

			user, result, err := session.UpdateProfile(context.Background(), tt.param)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.False(t, result.Success)
			} else {
				require.NoError(t, err)
				assert.True(t, result.Success)
				assert.Equal(t, tt.param.PhoneNumber, user.PhoneNumber)
				assert.Equal(t, tt.param.Address, user.Address)
			}
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, result.Message)
			}
			assert.Equal(t, tt.expectedIdentity, session.Identity())
			assert.Empty(t, *seen)
		})
	}
}
