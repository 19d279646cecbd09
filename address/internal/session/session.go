// Package session keeps the shopper's address book. Changes are not shown before the
// server answers: every answer carries the whole book and replaces it.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	addressOtel "github.com/Alturino/storefront/address/internal/otel"
	"github.com/Alturino/storefront/address/pkg/request"
	"github.com/Alturino/storefront/address/pkg/response"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	commonResponse "github.com/Alturino/storefront/internal/common/response"
	"github.com/Alturino/storefront/internal/common/validate"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/optimistic"
	"github.com/Alturino/storefront/notification/pkg/notifier"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

type RemoteAddresses interface {
	List(c context.Context, token string) ([]response.Address, error)
	Add(c context.Context, token string, param request.Address) ([]response.Address, error)
	Update(c context.Context, token string, id string, param request.Address) ([]response.Address, error)
	Delete(c context.Context, token string, id string) ([]response.Address, error)
}

type IdentitySource interface {
	Identity() userResponse.Identity
}

const (
	titleAddresses   = "Addresses"
	titleSignIn      = "Sign in required"
	messageAdded     = "address added"
	messageUpdated   = "address updated"
	messageRemoved   = "address removed"
	messageDefault   = "default address set"
	messageAddressID = "address id is required"
	messageNotInBook = "address %s is not in the address book"
	messageIsDefault = "address is already the default"
)

var errAlreadyDefault = errors.New(messageIsDefault)

type AddressSession struct {
	remote   RemoteAddresses
	identity IdentitySource
	notifier notifier.Notifier
	store    *optimistic.Store[response.AddressState]
}

func NewAddressSession(remote RemoteAddresses, identity IdentitySource, n notifier.Notifier) *AddressSession {
	return &AddressSession{
		remote:   remote,
		identity: identity,
		notifier: n,
		store: optimistic.NewStore(
			response.EmptyAddressState(),
			response.AddressState.Clone,
			func(s response.AddressState, syncing bool) response.AddressState {
				s.IsSyncing = syncing
				return s
			},
		),
	}
}

func (s *AddressSession) State() response.AddressState {
	return s.store.State()
}

func (s *AddressSession) Addresses() []response.Address {
	return s.store.State().Addresses
}

func (s *AddressSession) Subscribe(fn func(response.AddressState)) func() {
	return s.store.Subscribe(fn)
}

// OnIdentityChange drops the previous shopper's addresses, including answers still in
// flight for them, and loads the book of the new identity.
func (s *AddressSession) OnIdentityChange(c context.Context, _ userResponse.Identity) {
	s.store.Invalidate()
	s.Load(c)
}

// Load replaces the book with the server's copy. A signed out shopper gets an empty book
// without a network call and a failed load also leaves it empty.
func (s *AddressSession) Load(c context.Context) response.AddressState {
	c, span := addressOtel.Tracer.Start(c, "AddressSession Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressSession Load").
		Logger()

	version := s.store.Version()
	if err := s.store.Lock(c); err != nil {
		err = fmt.Errorf("failed acquiring addresses with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return s.store.State()
	}
	defer s.store.Unlock()

	identity := s.identity.Identity()
	if !identity.IsAuthenticated() {
		logger.Info().Msg("not authenticated, clearing addresses")
		s.store.Replace(version, response.EmptyAddressState())
		return s.store.State()
	}

	s.store.Update(version, func(st response.AddressState) response.AddressState {
		st.IsSyncing = true
		return st
	})

	logger = logger.With().Str(log.KeyProcess, "loading addresses").Logger()
	logger.Info().Msg("loading addresses")
	addresses, err := s.remote.List(logger.WithContext(c), identity.Token)
	state := response.EmptyAddressState()
	if err != nil {
		err = fmt.Errorf("failed loading addresses with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		if s.store.Version() == version {
			s.notify(c, notifier.LevelError, titleAddresses, commonErrors.Message(err))
		}
	} else {
		state.Addresses = append(state.Addresses, addresses...)
		logger.Info().Int(log.KeyAddresses, len(addresses)).Msg("loaded addresses")
	}

	if !s.store.Replace(version, state) {
		logger.Info().Msg("identity changed while loading, dropping addresses")
	}
	return s.store.State()
}

func (s *AddressSession) Add(c context.Context, param request.Address) (commonResponse.Result, error) {
	c, span := addressOtel.Tracer.Start(c, "AddressSession Add")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressSession Add").
		Object(log.KeyRequestBody, param).
		Logger()
	c = logger.WithContext(c)

	token, version, err := s.requireAuth()
	if err != nil {
		return s.fail(c, span, err)
	}
	if err := validate.Struct(c, param); err != nil {
		return s.fail(c, span, err)
	}

	logger.Info().Msg("adding address")
	err = s.apply(c, version, optimistic.Mutation[response.AddressState, []response.Address]{
		Confirm: func(c context.Context) ([]response.Address, error) {
			return s.remote.Add(c, token, param)
		},
	})
	if err != nil {
		return s.fail(c, span, err)
	}
	logger.Info().Msg("added address")

	s.notify(c, notifier.LevelSuccess, titleAddresses, messageAdded)
	return commonResponse.Succeeded(messageAdded), nil
}

func (s *AddressSession) Update(c context.Context, id string, param request.Address) (commonResponse.Result, error) {
	c, span := addressOtel.Tracer.Start(c, "AddressSession Update")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressSession Update").
		Str(log.KeyAddressID, id).
		Object(log.KeyRequestBody, param).
		Logger()
	c = logger.WithContext(c)

	token, version, err := s.requireAuth()
	if err != nil {
		return s.fail(c, span, err)
	}
	if id == "" {
		return s.fail(c, span, commonErrors.NewValidationError(messageAddressID))
	}
	if err := validate.Struct(c, param); err != nil {
		return s.fail(c, span, err)
	}

	logger.Info().Msg("updating address")
	err = s.apply(c, version, optimistic.Mutation[response.AddressState, []response.Address]{
		Confirm: func(c context.Context) ([]response.Address, error) {
			return s.remote.Update(c, token, id, param)
		},
	})
	if err != nil {
		return s.fail(c, span, err)
	}
	logger.Info().Msg("updated address")

	s.notify(c, notifier.LevelSuccess, titleAddresses, messageUpdated)
	return commonResponse.Succeeded(messageUpdated), nil
}

func (s *AddressSession) Delete(c context.Context, id string) (commonResponse.Result, error) {
	c, span := addressOtel.Tracer.Start(c, "AddressSession Delete")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressSession Delete").
		Str(log.KeyAddressID, id).
		Logger()
	c = logger.WithContext(c)

	token, version, err := s.requireAuth()
	if err != nil {
		return s.fail(c, span, err)
	}
	if id == "" {
		return s.fail(c, span, commonErrors.NewValidationError(messageAddressID))
	}

	logger.Info().Msg("deleting address")
	err = s.apply(c, version, optimistic.Mutation[response.AddressState, []response.Address]{
		Confirm: func(c context.Context) ([]response.Address, error) {
			return s.remote.Delete(c, token, id)
		},
	})
	if err != nil {
		return s.fail(c, span, err)
	}
	logger.Info().Msg("deleted address")

	s.notify(c, notifier.LevelSuccess, titleAddresses, messageRemoved)
	return commonResponse.Succeeded(messageRemoved), nil
}

// SetDefault marks the address id as default by sending it back unchanged apart from the
// flag. An address that already is the default is left alone.
func (s *AddressSession) SetDefault(c context.Context, id string) (commonResponse.Result, error) {
	c, span := addressOtel.Tracer.Start(c, "AddressSession SetDefault")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressSession SetDefault").
		Str(log.KeyAddressID, id).
		Logger()
	c = logger.WithContext(c)

	token, version, err := s.requireAuth()
	if err != nil {
		return s.fail(c, span, err)
	}

	var param request.Address
	logger.Info().Msg("setting default address")
	err = s.apply(c, version, optimistic.Mutation[response.AddressState, []response.Address]{
		Check: func(st response.AddressState) error {
			address, ok := st.Find(id)
			switch {
			case !ok:
				return commonErrors.NewValidationError(messageNotInBook, id)
			case address.IsDefault:
				return errAlreadyDefault
			}
			param = address.Request()
			param.IsDefault = true
			return nil
		},
		Confirm: func(c context.Context) ([]response.Address, error) {
			return s.remote.Update(c, token, id, param)
		},
	})
	if errors.Is(err, errAlreadyDefault) {
		logger.Info().Msg("address already default")
		return commonResponse.Succeeded(messageIsDefault), nil
	}
	if err != nil {
		return s.fail(c, span, err)
	}
	logger.Info().Msg("set default address")

	s.notify(c, notifier.LevelSuccess, titleAddresses, messageDefault)
	return commonResponse.Succeeded(messageDefault), nil
}

// requireAuth reads the version before the identity so that a sign in or out in between
// always makes the mutation stale.
func (s *AddressSession) requireAuth() (string, uint64, error) {
	version := s.store.Version()
	identity := s.identity.Identity()
	if !identity.IsAuthenticated() {
		return "", version, fmt.Errorf("failed checking identity with error=%w", commonErrors.ErrAuthRequired)
	}
	return identity.Token, version, nil
}

func (s *AddressSession) apply(
	c context.Context,
	version uint64,
	m optimistic.Mutation[response.AddressState, []response.Address],
) error {
	m.Commit = func(st response.AddressState, addresses []response.Address) response.AddressState {
		st.Addresses = append([]response.Address{}, addresses...)
		return st
	}
	_, _, err := optimistic.ApplyAt(c, s.store, version, m)
	return err
}

func (s *AddressSession) fail(c context.Context, span trace.Span, err error) (commonResponse.Result, error) {
	commonErrors.HandleError(err, span)
	zerolog.Ctx(c).Error().Err(err).Msg(err.Error())

	switch {
	case errors.Is(err, commonErrors.ErrStaleResponse):
	case errors.Is(err, commonErrors.ErrAuthRequired):
		s.notify(c, notifier.LevelInfo, titleSignIn, commonErrors.Message(err))
	default:
		s.notify(c, notifier.LevelError, titleAddresses, commonErrors.Message(err))
	}
	return commonResponse.Failed(err), err
}

func (s *AddressSession) notify(c context.Context, level notifier.Level, title, message string) {
	s.notifier.Notify(c, notifier.Notification{Level: level, Title: title, Message: message})
}
