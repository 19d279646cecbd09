package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	commonResponse "github.com/Alturino/storefront/internal/common/response"
	"github.com/Alturino/storefront/internal/common/validate"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/token"
	"github.com/Alturino/storefront/user/internal/otel"
	"github.com/Alturino/storefront/user/internal/store"
	"github.com/Alturino/storefront/user/pkg/request"
	"github.com/Alturino/storefront/user/pkg/response"
)

const (
	messageLoggedIn   = "signed in"
	messageLoggedOut  = "signed out"
	messageRegistered = "registration completed"
	messageGuest      = "browsing as guest"
	messageProfile    = "profile updated"
)

// IdentityListener is called after every identity transition with the new identity.
type IdentityListener func(c context.Context, identity response.Identity)

// AuthSession owns the shopper's identity and the bearer token backing it. Every transition
// (restore, login, logout, guest) is pushed to subscribers in order.
type AuthSession struct {
	client      *inHttp.Client
	store       store.TokenStore
	now         func() time.Time
	subscribers map[int]IdentityListener
	endpoints   config.Endpoints
	identity    response.Identity
	nextSubID   int
	mu          sync.RWMutex
	transition  sync.Mutex
}

func NewAuthSession(
	client *inHttp.Client,
	endpoints config.Endpoints,
	tokenStore store.TokenStore,
) *AuthSession {
	return &AuthSession{
		client:      client,
		endpoints:   endpoints,
		store:       tokenStore,
		now:         time.Now,
		subscribers: map[int]IdentityListener{},
	}
}

func (s *AuthSession) Identity() response.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Token is the bearer credential of the current identity, "" when signed out.
func (s *AuthSession) Token() string {
	return s.Identity().Token
}

func (s *AuthSession) Subscribe(fn IdentityListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *AuthSession) setIdentity(c context.Context, identity response.Identity) {
	s.mu.Lock()
	s.identity = identity
	listeners := make([]IdentityListener, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(c, identity)
	}
}

// Restore signs the shopper back in from the stored token. A missing, undecodable or
// expired token leaves the session signed out and removes the stale token.
func (s *AuthSession) Restore(c context.Context) response.Identity {
	s.transition.Lock()
	defer s.transition.Unlock()

	c, span := otel.Tracer.Start(c, "AuthSession Restore")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthSession Restore").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "loading token").Logger()
	logger.Info().Msg("loading token")
	signed, err := s.store.Load(c)
	if err != nil {
		if !errors.Is(err, commonErrors.ErrNotFound) {
			err = fmt.Errorf("failed loading token with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("no stored token")
		s.setIdentity(logger.WithContext(c), response.Identity{})
		return response.Identity{}
	}
	logger.Info().Msg("loaded token")

	logger = logger.With().Str(log.KeyProcess, "decoding token").Logger()
	logger.Info().Msg("decoding token")
	identity, err := s.decode(logger.WithContext(c), signed, nil)
	if err != nil {
		err = fmt.Errorf("failed decoding stored token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		if err := s.store.Delete(c); err != nil {
			logger.Error().Err(err).Msg("failed deleting stale token")
		}
		s.setIdentity(logger.WithContext(c), response.Identity{})
		return response.Identity{}
	}
	logger = logger.With().Str(log.KeyUserID, identity.UserID).Logger()
	logger.Info().Msg("decoded token")

	s.setIdentity(logger.WithContext(c), identity)
	return identity
}

func (s *AuthSession) Login(c context.Context, param request.Login) (commonResponse.Result, error) {
	s.transition.Lock()
	defer s.transition.Unlock()

	c, span := otel.Tracer.Start(c, "AuthSession Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthSession Login").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	logger.Info().Msg("validating request")
	if err := validate.Struct(c, param); err != nil {
		err = fmt.Errorf("failed validating login request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commonResponse.Failed(err), err
	}
	logger.Info().Msg("validated request")

	logger = logger.With().Str(log.KeyProcess, "requesting login").Logger()
	logger.Info().Msg("requesting login")
	res := response.Login{}
	err := s.client.Do(
		logger.WithContext(c),
		inHttp.Request{Method: http.MethodPost, Path: s.endpoints.Login, Body: param.Body()},
		&res,
	)
	if err != nil {
		err = fmt.Errorf("failed requesting login with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commonResponse.Failed(err), err
	}
	logger.Info().Msg("requested login")

	logger = logger.With().Str(log.KeyProcess, "decoding token").Logger()
	logger.Info().Msg("decoding token")
	identity, err := s.decode(logger.WithContext(c), res.Token, res.User)
	if err != nil {
		err = fmt.Errorf("failed decoding login token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commonResponse.Failed(err), err
	}
	logger = logger.With().Str(log.KeyUserID, identity.UserID).Logger()
	logger.Info().Msg("decoded token")

	logger = logger.With().Str(log.KeyProcess, "saving token").Logger()
	logger.Info().Msg("saving token")
	if err := s.store.Save(c, res.Token); err != nil {
		logger.Error().Err(err).Msg("failed saving token, session will not survive restart")
	} else {
		logger.Info().Msg("saved token")
	}

	s.setIdentity(logger.WithContext(c), identity)
	return commonResponse.Succeeded(messageLoggedIn), nil
}

func (s *AuthSession) Register(c context.Context, param request.Register) (commonResponse.Result, error) {
	c, span := otel.Tracer.Start(c, "AuthSession Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthSession Register").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	logger.Info().Msg("validating request")
	if err := validate.Struct(c, param); err != nil {
		err = fmt.Errorf("failed validating register request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commonResponse.Failed(err), err
	}
	logger.Info().Msg("validated request")

	logger = logger.With().Str(log.KeyProcess, "requesting register").Logger()
	logger.Info().Msg("requesting register")
	res := response.Register{}
	err := s.client.Do(
		logger.WithContext(c),
		inHttp.Request{Method: http.MethodPost, Path: s.endpoints.Register, Body: param.Body()},
		&res,
	)
	if err != nil {
		err = fmt.Errorf("failed requesting register with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commonResponse.Failed(err), err
	}
	logger.Info().Msg("requested register")

	if res.Message == "" {
		res.Message = messageRegistered
	}
	return commonResponse.Succeeded(res.Message), nil
}

func (s *AuthSession) Logout(c context.Context) commonResponse.Result {
	s.transition.Lock()
	defer s.transition.Unlock()

	c, span := otel.Tracer.Start(c, "AuthSession Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthSession Logout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "deleting token").Logger()
	logger.Info().Msg("deleting token")
	if err := s.store.Delete(c); err != nil {
		err = fmt.Errorf("failed deleting token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("deleted token")
	}

	s.setIdentity(logger.WithContext(c), response.Identity{})
	return commonResponse.Succeeded(messageLoggedOut)
}

// UpdateProfile replaces the signed in shopper's profile. The identity takes the name and
// email the server answers with; subscribers are not told since the shopper is unchanged.
func (s *AuthSession) UpdateProfile(c context.Context, param request.UpdateProfile) (response.User, commonResponse.Result, error) {
	s.transition.Lock()
	defer s.transition.Unlock()

	c, span := otel.Tracer.Start(c, "AuthSession UpdateProfile")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthSession UpdateProfile").
		Object(log.KeyRequestBody, param).
		Logger()

	identity := s.Identity()
	if !identity.IsAuthenticated() {
		err := fmt.Errorf("failed checking identity with error=%w", commonErrors.ErrAuthRequired)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, commonResponse.Failed(err), err
	}
	logger = logger.With().Str(log.KeyUserID, identity.UserID).Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	logger.Info().Msg("validating request")
	if err := validate.Struct(c, param); err != nil {
		err = fmt.Errorf("failed validating profile request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, commonResponse.Failed(err), err
	}
	logger.Info().Msg("validated request")

	logger = logger.With().Str(log.KeyProcess, "requesting profile update").Logger()
	logger.Info().Msg("requesting profile update")
	user := response.User{}
	err := s.client.Do(
		logger.WithContext(c),
		inHttp.Request{Method: http.MethodPut, Path: s.endpoints.UpdateProfile, Body: param, Token: identity.Token},
		&user,
	)
	if err != nil {
		err = fmt.Errorf("failed requesting profile update with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, commonResponse.Failed(err), err
	}
	logger.Info().Msg("requested profile update")

	if user.Name == "" {
		user.Name = param.Name
	}
	if user.Email == "" {
		user.Email = param.Email
	}
	s.mu.Lock()
	if s.identity.Token == identity.Token {
		s.identity.Name = user.Name
		s.identity.Email = user.Email
	}
	s.mu.Unlock()
	logger.Info().Str(log.KeyEmail, user.Email).Msg("updated profile")

	return user, commonResponse.Succeeded(messageProfile), nil
}

// EnterGuestMode lets the shopper browse without an account. Any stored token is kept.
func (s *AuthSession) EnterGuestMode(c context.Context) commonResponse.Result {
	s.transition.Lock()
	defer s.transition.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthSession EnterGuestMode").
		Logger()
	logger.Info().Msg("entering guest mode")

	s.setIdentity(logger.WithContext(c), response.Identity{Guest: true})
	return commonResponse.Succeeded(messageGuest)
}

// decode builds an identity from signed. The user returned by the server wins over the
// claims in the token.
func (s *AuthSession) decode(c context.Context, signed string, user *response.User) (response.Identity, error) {
	if signed == "" {
		return response.Identity{}, fmt.Errorf("empty token with error=%w", commonErrors.ErrTokenInvalid)
	}
	claims, err := token.Decode(c, signed, s.now())
	if err != nil {
		return response.Identity{}, err
	}
	identity := response.Identity{
		Token:         signed,
		UserID:        claims.Subject,
		Name:          claims.Name,
		Email:         claims.Email,
		Authenticated: true,
	}
	if user != nil {
		if user.ID != "" {
			identity.UserID = user.ID
		}
		if user.Name != "" {
			identity.Name = user.Name
		}
		if user.Email != "" {
			identity.Email = user.Email
		}
	}
	return identity, nil
}
