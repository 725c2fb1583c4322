package session_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciplore/reciplore/internal/api"
	"github.com/reciplore/reciplore/internal/cookie"
	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/session"
	"github.com/reciplore/reciplore/internal/session/mocks"
)

// gate blocks a mocked call until released, so a test can interleave a
// second operation while the first is in flight.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) wait() {
	close(g.entered)
	<-g.release
}

func newMockManager(t *testing.T) (*session.Manager, *mocks.MockAuthAPI, *mocks.MockNotifier, *cookie.MemoryJar) {
	t.Helper()

	ctrl := gomock.NewController(t)
	authAPI := mocks.NewMockAuthAPI(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	jar := cookie.NewMemoryJar()

	return session.New(authAPI, jar, session.WithNotifier(notifier)), authAPI, notifier, jar
}

func TestLogoutDuringRestore_DiscardsRestore(t *testing.T) {
	mgr, authAPI, _, jar := newMockManager(t)
	require.NoError(t, jar.Set(session.AccessTokenCookie, "a", session.AccessTokenTTL))

	g := newGate()
	authAPI.EXPECT().
		GetProfile(gomock.Any(), "a").
		DoAndReturn(func(context.Context, string) (*api.User, error) {
			g.wait()
			return &api.User{ID: "1", Username: "bob"}, nil
		})

	done := make(chan bool)
	go func() { done <- mgr.RestoreSession(context.Background()) }()

	<-g.entered
	mgr.Logout(context.Background())
	close(g.release)

	assert.False(t, <-done, "restore that lost the race reports the current state")

	s := mgr.Snapshot()
	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)
	assert.False(t, s.IsCheckingAuth, "a discarded restore still ends the check")
	assert.False(t, s.IsLoading)
	assert.Equal(t, 0, jar.Len())
}

func TestLogoutDuringVerifyLogin_WritesNoCookies(t *testing.T) {
	mgr, authAPI, notifier, jar := newMockManager(t)

	g := newGate()
	authAPI.EXPECT().
		VerifyLogin(gomock.Any(), "123456").
		DoAndReturn(func(context.Context, string) (*api.VerifyLoginResponse, error) {
			g.wait()
			return &api.VerifyLoginResponse{
				AccessToken:  "a",
				RefreshToken: "b",
				User:         api.User{ID: "1"},
			}, nil
		})
	notifier.EXPECT().Error(gomock.Any())

	errc := make(chan error)
	go func() {
		_, err := mgr.VerifyLogin(context.Background(), "123456")
		errc <- err
	}()

	<-g.entered
	mgr.Logout(context.Background())
	close(g.release)

	err := <-errc
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStaleSession))
	assert.Equal(t, apperrors.KindLocalPrecondition, apperrors.KindOf(err))
	assert.Equal(t, 0, jar.Len())
	assert.False(t, mgr.IsAuthenticated())
}

func TestLogoutDuringUpdate_ReturnsStale(t *testing.T) {
	mgr, authAPI, notifier, jar := newMockManager(t)
	require.NoError(t, jar.Set(session.AccessTokenCookie, "a", session.AccessTokenTTL))

	g := newGate()
	authAPI.EXPECT().
		UpdateUser(gomock.Any(), "a", gomock.Any()).
		DoAndReturn(func(context.Context, string, api.UpdateUserRequest) (*api.UserResponse, error) {
			g.wait()
			return &api.UserResponse{Message: "ok", User: &api.User{ID: "1", Username: "new"}}, nil
		})
	notifier.EXPECT().Error("session changed while update_user was in flight")

	errc := make(chan error)
	go func() {
		name := "new"
		_, err := mgr.UpdateUser(context.Background(), api.UpdateUserRequest{Username: &name})
		errc <- err
	}()

	<-g.entered
	mgr.Logout(context.Background())
	close(g.release)

	err := <-errc
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStaleSession))
	assert.Nil(t, mgr.User())
}

func TestRefreshDuringNewLogin_DoesNotClobberSession(t *testing.T) {
	mgr, authAPI, notifier, jar := newMockManager(t)
	require.NoError(t, jar.Set(session.RefreshTokenCookie, "old", session.RefreshTokenTTL))

	g := newGate()
	authAPI.EXPECT().
		RefreshToken(gomock.Any(), "old").
		DoAndReturn(func(context.Context, string) (*api.RefreshResponse, error) {
			g.wait()
			return nil, apperrors.New(apperrors.ErrCodeRequestFailed, apperrors.KindNetworkFailure, "expired").
				WithStatus(401)
		})
	authAPI.EXPECT().
		VerifyLogin(gomock.Any(), "999999").
		Return(&api.VerifyLoginResponse{AccessToken: "na", RefreshToken: "nr", User: api.User{ID: "2"}}, nil)
	notifier.EXPECT().Success(gomock.Any())
	notifier.EXPECT().Error("expired")

	errc := make(chan error)
	go func() {
		_, err := mgr.RefreshAccessToken(context.Background())
		errc <- err
	}()

	<-g.entered
	_, err := mgr.VerifyLogin(context.Background(), "999999")
	require.NoError(t, err)
	close(g.release)

	require.Error(t, <-errc)

	assert.True(t, mgr.IsAuthenticated(), "the newer session survives the old refresh failure")
	access, _ := jar.Get(session.AccessTokenCookie)
	assert.Equal(t, "na", access)
}

func TestGenerationAdvancesOnBoundaries(t *testing.T) {
	mgr, authAPI, notifier, _ := newMockManager(t)

	authAPI.EXPECT().
		VerifyLogin(gomock.Any(), "1").
		Return(&api.VerifyLoginResponse{AccessToken: "a", RefreshToken: "b", User: api.User{ID: "1"}}, nil)
	notifier.EXPECT().Success(gomock.Any())

	start := mgr.Generation()

	_, err := mgr.VerifyLogin(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, start+1, mgr.Generation())

	mgr.Logout(context.Background())
	assert.Equal(t, start+2, mgr.Generation())
}

func TestRestoreSessionSwallowsErrors(t *testing.T) {
	mgr, authAPI, notifier, jar := newMockManager(t)
	require.NoError(t, jar.Set(session.AccessTokenCookie, "a", session.AccessTokenTTL))
	require.NoError(t, jar.Set(session.RefreshTokenCookie, "b", session.RefreshTokenTTL))

	transport := apperrors.New(apperrors.ErrCodeTransportFailed, apperrors.KindNetworkFailure, "network error")
	gomock.InOrder(
		authAPI.EXPECT().GetProfile(gomock.Any(), "a").Return(nil, transport),
		authAPI.EXPECT().RefreshToken(gomock.Any(), "b").Return(nil, transport),
	)
	notifier.EXPECT().Info(gomock.Any())

	assert.False(t, mgr.RestoreSession(context.Background()))
	assert.Equal(t, "network error", mgr.Snapshot().Error)
}
