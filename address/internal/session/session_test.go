package session

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Alturino/storefront/address/pkg/request"
	"github.com/Alturino/storefront/address/pkg/response"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/notification/pkg/notifier"
	"github.com/Alturino/storefront/notification/pkg/notifier/mocks"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

var errNetwork = errors.Join(commonErrors.ErrNetwork, errors.New("dial tcp: connection refused"))

// fakeAddresses keeps one address book and, like the server, answers every call with it.
type fakeAddresses struct {
	book      []response.Address
	err       error
	onConfirm func()
	calls     []string
	tokens    []string
	nextID    int
	mu        sync.Mutex
}

func (f *fakeAddresses) call(name, token string, change func() error) ([]response.Address, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.tokens = append(f.tokens, token)
	onConfirm, err := f.onConfirm, f.err
	f.mu.Unlock()
	if onConfirm != nil {
		onConfirm()
	}
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := change(); err != nil {
		return nil, err
	}
	return slices.Clone(f.book), nil
}

func (f *fakeAddresses) List(_ context.Context, token string) ([]response.Address, error) {
	return f.call("list", token, func() error { return nil })
}

func (f *fakeAddresses) Add(_ context.Context, token string, param request.Address) ([]response.Address, error) {
	return f.call("add", token, func() error {
		f.nextID++
		f.book = append(f.book, stored(strconv.Itoa(f.nextID), param))
		return nil
	})
}

func (f *fakeAddresses) Update(_ context.Context, token string, id string, param request.Address) ([]response.Address, error) {
	return f.call("update:"+id, token, func() error {
		i := slices.IndexFunc(f.book, func(a response.Address) bool { return a.ID == id })
		if i < 0 {
			return commonErrors.NewServerError(404, "address not found")
		}
		for j := range f.book {
			if param.IsDefault {
				f.book[j].IsDefault = false
			}
		}
		f.book[i] = stored(id, param)
		return nil
	})
}

func (f *fakeAddresses) Delete(_ context.Context, token string, id string) ([]response.Address, error) {
	return f.call("delete:"+id, token, func() error {
		f.book = slices.DeleteFunc(f.book, func(a response.Address) bool { return a.ID == id })
		return nil
	})
}

func (f *fakeAddresses) sentCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func stored(id string, param request.Address) response.Address {
	return response.Address{
		ID:           id,
		AddressTitle: param.AddressTitle,
		FullAddress:  param.FullAddress,
		City:         param.City,
		District:     param.District,
		ZipCode:      param.ZipCode,
		IsDefault:    param.IsDefault,
	}
}

type fakeIdentity struct {
	identity userResponse.Identity
	reads    atomic.Int32
	mu       sync.Mutex
}

func (f *fakeIdentity) Identity() userResponse.Identity {
	f.reads.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.identity
}

func (f *fakeIdentity) set(identity userResponse.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity = identity
}

func signedIn(token string) userResponse.Identity {
	return userResponse.Identity{Token: token, UserID: "U-" + token, Authenticated: true}
}

var (
	home = request.Address{AddressTitle: "Ev", FullAddress: "Moda Cd. 5", City: "İstanbul", District: "Kadıköy"}
	work = request.Address{AddressTitle: "İş", FullAddress: "Büyükdere Cd. 100", City: "İstanbul", District: "Şişli"}
)

type fixture struct {
	session  *AddressSession
	remote   *fakeAddresses
	identity *fakeIdentity
	notifier *mocks.MockNotifier
}

func newFixture(t *testing.T, identity userResponse.Identity, book ...response.Address) fixture {
	t.Helper()
	f := fixture{
		remote:   &fakeAddresses{book: book, nextID: len(book)},
		identity: &fakeIdentity{identity: identity},
		notifier: mocks.NewMockNotifier(gomock.NewController(t)),
	}
	f.session = NewAddressSession(f.remote, f.identity, f.notifier)
	return f
}

func TestAddressSessionLoad(t *testing.T) {
	t.Run("given signed in shopper should load the book", func(t *testing.T) {
		f := newFixture(t, signedIn("token"), stored("1", home))

		st := f.session.Load(context.Background())

		assert.Equal(t, []response.Address{stored("1", home)}, st.Addresses)
		assert.False(t, st.IsSyncing)
		assert.Equal(t, []string{"list"}, f.remote.sentCalls())
	})

	t.Run("given guest should clear without network", func(t *testing.T) {
		f := newFixture(t, userResponse.Identity{Guest: true}, stored("1", home))

		st := f.session.Load(context.Background())

		assert.Equal(t, response.EmptyAddressState(), st)
		assert.Empty(t, f.remote.sentCalls())
	})

	t.Run("given failed load should leave empty book and notify", func(t *testing.T) {
		f := newFixture(t, signedIn("token"), stored("1", home))
		f.remote.err = errNetwork
		f.notifier.EXPECT().Notify(gomock.Any(), notifier.Notification{
			Level:   notifier.LevelError,
			Title:   titleAddresses,
			Message: commonErrors.MessageNetwork,
		})

		st := f.session.Load(context.Background())

		assert.Equal(t, response.EmptyAddressState(), st)
	})
}

func TestAddressSessionMutations(t *testing.T) {
	tests := []struct {
		name              string
		book              []response.Address
		err               error
		call              func(c context.Context, s *AddressSession) (bool, error)
		expectedErr       error
		expectedLevel     notifier.Level
		expectedMessage   string
		expectedAddresses []response.Address
		expectedCalls     []string
	}{
		{
			name: "given valid address should add it",
			call: func(c context.Context, s *AddressSession) (bool, error) {
				r, err := s.Add(c, home)
				return r.Success, err
			},
			expectedLevel:     notifier.LevelSuccess,
			expectedMessage:   messageAdded,
			expectedAddresses: []response.Address{stored("1", home)},
			expectedCalls:     []string{"add"},
		},
		{
			name: "given missing title should not reach the network",
			call: func(c context.Context, s *AddressSession) (bool, error) {
				r, err := s.Add(c, request.Address{FullAddress: "Moda Cd. 5"})
				return r.Success, err
			},
			expectedErr:       commonErrors.ErrValidation,
			expectedLevel:     notifier.LevelError,
			expectedAddresses: []response.Address{},
		},
		{
			name: "given update should replace the book with the answer",
			book: []response.Address{stored("1", home)},
			call: func(c context.Context, s *AddressSession) (bool, error) {
				r, err := s.Update(c, "1", work)
				return r.Success, err
			},
			expectedLevel:     notifier.LevelSuccess,
			expectedMessage:   messageUpdated,
			expectedAddresses: []response.Address{stored("1", work)},
			expectedCalls:     []string{"list", "update:1"},
		},
		{
			name: "given empty id should not reach the network",
			call: func(c context.Context, s *AddressSession) (bool, error) {
				r, err := s.Delete(c, "")
				return r.Success, err
			},
			expectedErr:       commonErrors.ErrValidation,
			expectedLevel:     notifier.LevelError,
			expectedMessage:   "invalid input: " + messageAddressID,
			expectedAddresses: []response.Address{},
		},
		{
			name: "given delete should drop the address",
			book: []response.Address{stored("1", home), stored("2", work)},
			call: func(c context.Context, s *AddressSession) (bool, error) {
				r, err := s.Delete(c, "1")
				return r.Success, err
			},
			expectedLevel:     notifier.LevelSuccess,
			expectedMessage:   messageRemoved,
			expectedAddresses: []response.Address{stored("2", work)},
			expectedCalls:     []string{"list", "delete:1"},
		},
		{
			name: "given failed delete should keep the book",
			book: []response.Address{stored("1", home)},
			err:  errNetwork,
			call: func(c context.Context, s *AddressSession) (bool, error) {
				r, err := s.Delete(c, "1")
				return r.Success, err
			},
			expectedErr:       commonErrors.ErrNetwork,
			expectedLevel:     notifier.LevelError,
			expectedMessage:   commonErrors.MessageNetwork,
			expectedAddresses: []response.Address{stored("1", home)},
			expectedCalls:     []string{"list", "delete:1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := context.Background()
			f := newFixture(t, signedIn("token"), tt.book...)
			if len(tt.book) > 0 {
				f.session.Load(c)
			}
			f.remote.err = tt.err
			f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Do(func(_ context.Context, n notifier.Notification) {
				assert.Equal(t, tt.expectedLevel, n.Level)
				if tt.expectedMessage != "" {
					assert.Equal(t, tt.expectedMessage, n.Message)
				}
			})

			ok, err := tt.call(c, f.session)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.False(t, ok)
			} else {
				require.NoError(t, err)
				assert.True(t, ok)
			}
			assert.Equal(t, tt.expectedAddresses, f.session.Addresses())
			assert.Equal(t, tt.expectedCalls, f.remote.sentCalls())
			assert.False(t, f.session.State().IsSyncing)
		})
	}
}

func TestAddressSessionRequiresAuthentication(t *testing.T) {
	f := newFixture(t, userResponse.Identity{Guest: true})
	f.notifier.EXPECT().Notify(gomock.Any(), notifier.Notification{
		Level:   notifier.LevelInfo,
		Title:   titleSignIn,
		Message: commonErrors.MessageSignIn,
	})

	r, err := f.session.Add(context.Background(), home)

	assert.ErrorIs(t, err, commonErrors.ErrAuthRequired)
	assert.False(t, r.Success)
	assert.Empty(t, f.remote.sentCalls())
}

func TestAddressSessionSetDefault(t *testing.T) {
	defaultHome := home
	defaultHome.IsDefault = true
	defaultWork := work
	defaultWork.IsDefault = true

	t.Run("given other address should send it back flagged default", func(t *testing.T) {
		c := context.Background()
		f := newFixture(t, signedIn("token"), stored("1", defaultHome), stored("2", work))
		f.session.Load(c)
		f.notifier.EXPECT().Notify(gomock.Any(), notifier.Notification{
			Level:   notifier.LevelSuccess,
			Title:   titleAddresses,
			Message: messageDefault,
		})

		r, err := f.session.SetDefault(c, "2")

		require.NoError(t, err)
		assert.True(t, r.Success)
		assert.Equal(t, []response.Address{stored("1", home), stored("2", defaultWork)}, f.session.Addresses())
		st := f.session.State()
		actual, ok := st.Default()
		require.True(t, ok)
		assert.Equal(t, "2", actual.ID)
	})

	t.Run("given default address should not reach the network", func(t *testing.T) {
		c := context.Background()
		f := newFixture(t, signedIn("token"), stored("1", defaultHome))
		f.session.Load(c)

		r, err := f.session.SetDefault(c, "1")

		require.NoError(t, err)
		assert.Equal(t, messageIsDefault, r.Message)
		assert.Equal(t, []string{"list"}, f.remote.sentCalls())
	})

	t.Run("given unknown address should fail validation", func(t *testing.T) {
		c := context.Background()
		f := newFixture(t, signedIn("token"))
		f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())

		_, err := f.session.SetDefault(c, "9")

		assert.ErrorIs(t, err, commonErrors.ErrValidation)
		assert.Empty(t, f.remote.sentCalls())
	})
}

func TestAddressSessionQueuedMutationAcrossIdentityChange(t *testing.T) {
	c := context.Background()
	f := newFixture(t, signedIn("tokenA"))

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.remote.onConfirm = func() {
		blocked := false
		once.Do(func() { blocked = true })
		if blocked {
			close(started)
			<-release
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.session.Add(c, home)
	}()
	<-started

	reads := f.identity.reads.Load()
	var queuedErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, queuedErr = f.session.Add(c, work)
	}()
	require.Eventually(t, func() bool { return f.identity.reads.Load() > reads }, time.Second, time.Millisecond)

	version := f.session.store.Version()
	f.identity.set(signedIn("tokenB"))
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.session.OnIdentityChange(c, signedIn("tokenB"))
	}()
	require.Eventually(t, func() bool { return f.session.store.Version() > version }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.ErrorIs(t, queuedErr, commonErrors.ErrStaleResponse)
	assert.Equal(t, []string{"add", "list"}, f.remote.sentCalls())
	f.remote.mu.Lock()
	assert.Equal(t, []string{"tokenA", "tokenB"}, f.remote.tokens)
	f.remote.mu.Unlock()
	assert.False(t, f.session.State().IsSyncing)
}
