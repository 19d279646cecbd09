// Package session keeps the shopper's favorite products, toggled optimistically.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	favoriteOtel "github.com/Alturino/storefront/favorite/internal/otel"
	"github.com/Alturino/storefront/favorite/pkg/response"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	commonResponse "github.com/Alturino/storefront/internal/common/response"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/optimistic"
	"github.com/Alturino/storefront/notification/pkg/notifier"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

type RemoteFavorites interface {
	List(c context.Context, token string) ([]string, error)
	Add(c context.Context, token string, productID string) error
	Remove(c context.Context, token string, productID string) error
}

type IdentitySource interface {
	Identity() userResponse.Identity
}

const (
	titleFavorites   = "Favorites"
	titleSignIn      = "Sign in required"
	messageAdded     = "added to favorites"
	messageRemoved   = "removed from favorites"
	messageProductID = "product id is required"
)

type FavoritesSession struct {
	remote   RemoteFavorites
	identity IdentitySource
	notifier notifier.Notifier
	store    *optimistic.Store[response.FavoritesState]
}

func NewFavoritesSession(remote RemoteFavorites, identity IdentitySource, n notifier.Notifier) *FavoritesSession {
	return &FavoritesSession{
		remote:   remote,
		identity: identity,
		notifier: n,
		store: optimistic.NewStore(
			response.EmptyFavoritesState(),
			response.FavoritesState.Clone,
			func(s response.FavoritesState, syncing bool) response.FavoritesState {
				s.IsSyncing = syncing
				return s
			},
		),
	}
}

func (s *FavoritesSession) State() response.FavoritesState {
	return s.store.State()
}

func (s *FavoritesSession) IDs() []string {
	return s.store.State().ProductIDs
}

func (s *FavoritesSession) IsFavorite(productID string) bool {
	return s.store.State().Contains(productID)
}

func (s *FavoritesSession) Subscribe(fn func(response.FavoritesState)) func() {
	return s.store.Subscribe(fn)
}

func (s *FavoritesSession) OnIdentityChange(c context.Context, _ userResponse.Identity) {
	s.store.Invalidate()
	s.Load(c)
}

// Load replaces the favorites with the server's list. A failed load leaves no favorites.
func (s *FavoritesSession) Load(c context.Context) response.FavoritesState {
	c, span := favoriteOtel.Tracer.Start(c, "FavoritesSession Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FavoritesSession Load").
		Logger()

	version := s.store.Version()
	if err := s.store.Lock(c); err != nil {
		err = fmt.Errorf("failed acquiring favorites with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return s.store.State()
	}
	defer s.store.Unlock()

	logger = logger.With().Str(log.KeyProcess, "loading favorites").Logger()
	logger.Info().Msg("loading favorites")
	ids, err := s.remote.List(logger.WithContext(c), s.identity.Identity().Token)
	state := response.EmptyFavoritesState()
	if err != nil {
		err = fmt.Errorf("failed loading favorites with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(c, notifier.Notification{
			Level:   notifier.LevelError,
			Title:   titleFavorites,
			Message: commonErrors.Message(err),
		})
	} else {
		state.ProductIDs = append(state.ProductIDs, ids...)
		logger.Info().Int(log.KeyFavorites, len(ids)).Msg("loaded favorites")
	}

	s.store.Replace(version, state)
	return s.store.State()
}

// Toggle adds productID to the favorites or removes it. The change shows before the server
// confirms it and is reverted when the server refuses.
func (s *FavoritesSession) Toggle(c context.Context, productID string) (commonResponse.Result, error) {
	c, span := favoriteOtel.Tracer.Start(c, "FavoritesSession Toggle")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FavoritesSession Toggle").
		Str(log.KeyProductID, productID).
		Logger()
	c = logger.WithContext(c)

	fail := func(err error) (commonResponse.Result, error) {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		n := notifier.Notification{Level: notifier.LevelError, Title: titleFavorites, Message: commonErrors.Message(err)}
		switch {
		case errors.Is(err, commonErrors.ErrStaleResponse):
			return commonResponse.Failed(err), err
		case errors.Is(err, commonErrors.ErrAuthRequired):
			n.Level, n.Title = notifier.LevelInfo, titleSignIn
		}
		s.notifier.Notify(c, n)
		return commonResponse.Failed(err), err
	}

	// version before identity: a sign in or out in between moves it and the toggle is dropped
	version := s.store.Version()
	identity := s.identity.Identity()
	if !identity.IsAuthenticated() {
		return fail(fmt.Errorf("failed toggling favorite with error=%w", commonErrors.ErrAuthRequired))
	}
	if productID == "" {
		return fail(commonErrors.NewValidationError(messageProductID))
	}

	var added bool
	_, _, err := optimistic.ApplyAt(c, s.store, version, optimistic.Mutation[response.FavoritesState, struct{}]{
		Optimistic: func(st response.FavoritesState) response.FavoritesState {
			added = !st.Contains(productID)
			return st.Toggled(productID)
		},
		Confirm: func(c context.Context) (struct{}, error) {
			if added {
				return struct{}{}, s.remote.Add(c, identity.Token, productID)
			}
			return struct{}{}, s.remote.Remove(c, identity.Token, productID)
		},
		Commit: func(st response.FavoritesState, _ struct{}) response.FavoritesState {
			return st
		},
	})
	if err != nil {
		return fail(err)
	}

	if added {
		logger.Info().Msg("added favorite")
		return commonResponse.Succeeded(messageAdded), nil
	}
	logger.Info().Msg("removed favorite")
	return commonResponse.Succeeded(messageRemoved), nil
}
