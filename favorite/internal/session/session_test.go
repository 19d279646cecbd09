package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Alturino/storefront/favorite/pkg/response"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/notification/pkg/notifier"
	"github.com/Alturino/storefront/notification/pkg/notifier/mocks"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

type fakeFavorites struct {
	ids       []string
	err       error
	onConfirm func()
	calls     []string
	mu        sync.Mutex
}

func (f *fakeFavorites) List(context.Context, string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "list")
	if f.err != nil {
		return nil, f.err
	}
	return append([]string{}, f.ids...), nil
}

func (f *fakeFavorites) Add(_ context.Context, _ string, productID string) error {
	return f.change("add:"+productID, func() { f.ids = append(f.ids, productID) })
}

func (f *fakeFavorites) Remove(_ context.Context, _ string, productID string) error {
	return f.change("remove:"+productID, func() {
		kept := []string{}
		for _, id := range f.ids {
			if id != productID {
				kept = append(kept, id)
			}
		}
		f.ids = kept
	})
}

func (f *fakeFavorites) change(call string, apply func()) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	onConfirm, err := f.onConfirm, f.err
	f.mu.Unlock()
	if onConfirm != nil {
		onConfirm()
	}
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	apply()
	return nil
}

type fakeIdentity struct {
	identity userResponse.Identity
	reads    *atomic.Int32
}

func (f fakeIdentity) Identity() userResponse.Identity {
	if f.reads != nil {
		f.reads.Add(1)
	}
	return f.identity
}

func signedIn() userResponse.Identity {
	return userResponse.Identity{Token: "token", UserID: "U1", Authenticated: true}
}

func newSession(t *testing.T, identity userResponse.Identity, remote *fakeFavorites) (*FavoritesSession, *mocks.MockNotifier) {
	t.Helper()
	n := mocks.NewMockNotifier(gomock.NewController(t))
	return NewFavoritesSession(remote, fakeIdentity{identity: identity}, n), n
}

func TestFavoritesSessionLoad(t *testing.T) {
	t.Run("given server favorites should replace state", func(t *testing.T) {
		remote := &fakeFavorites{ids: []string{"P1", "P2"}}
		s, _ := newSession(t, signedIn(), remote)

		st := s.Load(context.Background())

		assert.Equal(t, []string{"P1", "P2"}, st.ProductIDs)
		assert.False(t, st.IsSyncing)
		assert.True(t, s.IsFavorite("P2"))
	})

	t.Run("given failing server should clear favorites and notify", func(t *testing.T) {
		remote := &fakeFavorites{ids: []string{"P1"}}
		s, n := newSession(t, signedIn(), remote)
		s.Load(context.Background())

		remote.err = errors.Join(commonErrors.ErrNetwork, errors.New("connection refused"))
		n.EXPECT().Notify(gomock.Any(), notifier.Notification{
			Level:   notifier.LevelError,
			Title:   titleFavorites,
			Message: commonErrors.MessageNetwork,
		})
		st := s.Load(context.Background())

		assert.Empty(t, st.ProductIDs)
	})
}

func TestFavoritesSessionToggle(t *testing.T) {
	t.Run("given absent product should add it optimistically", func(t *testing.T) {
		remote := &fakeFavorites{}
		s, _ := newSession(t, signedIn(), remote)
		var during []string
		remote.onConfirm = func() { during = s.IDs() }

		result, err := s.Toggle(context.Background(), "P1")

		require.NoError(t, err)
		assert.Equal(t, messageAdded, result.Message)
		assert.True(t, result.Success)
		assert.Equal(t, []string{"P1"}, during)
		assert.Equal(t, []string{"P1"}, s.IDs())
		assert.Equal(t, []string{"add:P1"}, remote.calls)
	})

	t.Run("given present product should remove it", func(t *testing.T) {
		remote := &fakeFavorites{ids: []string{"P1", "P2"}}
		s, _ := newSession(t, signedIn(), remote)
		s.Load(context.Background())

		result, err := s.Toggle(context.Background(), "P1")

		require.NoError(t, err)
		assert.Equal(t, messageRemoved, result.Message)
		assert.Equal(t, []string{"P2"}, s.IDs())
		assert.Equal(t, []string{"P2"}, remote.ids)
	})

	t.Run("given server refusal should roll back and notify", func(t *testing.T) {
		remote := &fakeFavorites{ids: []string{"P1"}}
		s, n := newSession(t, signedIn(), remote)
		s.Load(context.Background())
		remote.err = commonErrors.NewServerError(500, "favorites unavailable")

		n.EXPECT().Notify(gomock.Any(), notifier.Notification{
			Level:   notifier.LevelError,
			Title:   titleFavorites,
			Message: "favorites unavailable",
		})
		result, err := s.Toggle(context.Background(), "P1")

		assert.ErrorIs(t, err, commonErrors.ErrServer)
		assert.False(t, result.Success)
		assert.Equal(t, []string{"P1"}, s.IDs())
		assert.False(t, s.State().IsSyncing)
	})

	t.Run("given signed out shopper should ask to sign in without network", func(t *testing.T) {
		remote := &fakeFavorites{}
		s, n := newSession(t, userResponse.Identity{Guest: true}, remote)

		n.EXPECT().Notify(gomock.Any(), notifier.Notification{
			Level:   notifier.LevelInfo,
			Title:   titleSignIn,
			Message: commonErrors.MessageSignIn,
		})
		_, err := s.Toggle(context.Background(), "P1")

		assert.ErrorIs(t, err, commonErrors.ErrAuthRequired)
		assert.Empty(t, remote.calls)
	})

	t.Run("given empty product id should fail validation", func(t *testing.T) {
		remote := &fakeFavorites{}
		s, n := newSession(t, signedIn(), remote)

		n.EXPECT().Notify(gomock.Any(), gomock.Any())
		_, err := s.Toggle(context.Background(), "")

		assert.ErrorIs(t, err, commonErrors.ErrValidation)
		assert.Empty(t, remote.calls)
	})

	t.Run("given identity change during toggle should drop the confirmation", func(t *testing.T) {
		remote := &fakeFavorites{}
		s, _ := newSession(t, signedIn(), remote)
		remote.onConfirm = func() { s.store.Invalidate() }

		_, err := s.Toggle(context.Background(), "P1")

		assert.ErrorIs(t, err, commonErrors.ErrStaleResponse)
		assert.False(t, s.State().IsSyncing)
	})
}

func TestFavoritesSessionOnIdentityChange(t *testing.T) {
	t.Run("given new identity should reload favorites", func(t *testing.T) {
		remote := &fakeFavorites{ids: []string{"P4"}}
		recorder := &notifier.Recorder{}
		s := NewFavoritesSession(remote, fakeIdentity{identity: signedIn()}, recorder)
		published := []response.FavoritesState{}
		s.Subscribe(func(st response.FavoritesState) { published = append(published, st) })

		s.OnIdentityChange(context.Background(), signedIn())

		assert.Equal(t, []string{"P4"}, s.IDs())
		assert.Equal(t, []string{"list"}, remote.calls)
		assert.Len(t, published, 1)
		assert.Empty(t, recorder.Notifications())
	})

	t.Run("given identity change during toggle should keep the reloaded favorites", func(t *testing.T) {
		remote := &fakeFavorites{ids: []string{"P1"}}
		recorder := &notifier.Recorder{}
		s := NewFavoritesSession(remote, fakeIdentity{identity: signedIn()}, recorder)
		s.Load(context.Background())
		remote.onConfirm = func() {
			remote.onConfirm = nil
			go s.OnIdentityChange(context.Background(), signedIn())
			require.Eventually(t, func() bool { return s.store.Version() > 0 }, time.Second, time.Millisecond)
		}

		_, err := s.Toggle(context.Background(), "P2")

		assert.ErrorIs(t, err, commonErrors.ErrStaleResponse)
		require.Eventually(t, func() bool {
			return len(s.IDs()) == 2 && !s.State().IsSyncing
		}, time.Second, time.Millisecond)
		assert.ElementsMatch(t, []string{"P1", "P2"}, s.IDs())
		assert.Empty(t, recorder.Notifications())
	})
}

func TestFavoritesSessionQueuedToggleAcrossIdentityChange(t *testing.T) {
	remote := &fakeFavorites{}
	recorder := &notifier.Recorder{}
	reads := &atomic.Int32{}
	s := NewFavoritesSession(remote, fakeIdentity{identity: signedIn(), reads: reads}, recorder)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	remote.onConfirm = func() {
		blocked := false
		once.Do(func() { blocked = true })
		if blocked {
			close(started)
			<-release
		}
	}

	c := context.Background()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Toggle(c, "P1")
	}()
	<-started

	before := reads.Load()
	var queuedErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, queuedErr = s.Toggle(c, "P9")
	}()
	require.Eventually(t, func() bool { return reads.Load() > before }, time.Second, time.Millisecond)

	version := s.store.Version()
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.OnIdentityChange(c, signedIn())
	}()
	require.Eventually(t, func() bool { return s.store.Version() > version }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.ErrorIs(t, queuedErr, commonErrors.ErrStaleResponse)
	remote.mu.Lock()
	assert.NotContains(t, remote.calls, "add:P9")
	remote.mu.Unlock()
	assert.NotContains(t, s.IDs(), "P9")
	assert.Empty(t, recorder.Notifications())
}
