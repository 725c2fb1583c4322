// Package session owns the client's credentials and authentication state.
//
// A Manager establishes, restores, refreshes and tears down a session, and
// applies profile mutations to its cached user. Tokens live in a cookie.Jar
// and the profile lives only in memory.
//
// Overlapping operations are ordered by a generation counter. Every operation
// records the generation when it starts. Commits that establish or end a
// session advance it, and a commit from an operation whose generation is no
// longer current is discarded. Logout always applies.
package session

import (
	"context"
	"io"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/reciplore/reciplore/internal/api"
	"github.com/reciplore/reciplore/internal/cookie"
	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/log"
	"github.com/reciplore/reciplore/internal/metrics"
	"github.com/reciplore/reciplore/internal/notify"
	"github.com/reciplore/reciplore/internal/telemetry"
)

// AuthAPI is the subset of the backend the Manager talks to.
type AuthAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.MessageResponse, error)
	VerifyEmail(ctx context.Context, token string) (*api.MessageResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.MessageResponse, error)
	VerifyLogin(ctx context.Context, code string) (*api.VerifyLoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*api.RefreshResponse, error)
	GetProfile(ctx context.Context, accessToken string) (*api.User, error)
	DeleteUser(ctx context.Context, accessToken string) (*api.MessageResponse, error)
	UpdateUser(ctx context.Context, accessToken string, patch api.UpdateUserRequest) (*api.UserResponse, error)
	UploadProfileImage(ctx context.Context, accessToken, filename string, image io.Reader) (*api.UserResponse, error)
	DeleteProfileImage(ctx context.Context, accessToken string) (*api.UserResponse, error)
	AddAddress(ctx context.Context, accessToken string, addr api.Address) (*api.AddressResponse, error)
	DeleteAddress(ctx context.Context, accessToken, addressID string) (*api.MessageResponse, error)
}

var _ AuthAPI = (*api.Client)(nil)

// Operation names, used for spans, metrics and logs.
const (
	OpRegister           = "register"
	OpVerifyEmail        = "verify_email"
	OpLogin              = "login"
	OpVerifyLogin        = "verify_login"
	OpRefresh            = "refresh"
	OpRestore            = "restore"
	OpLogout             = "logout"
	OpDeleteUser         = "delete_user"
	OpUpdateUser         = "update_user"
	OpUploadProfileImage = "upload_profile_image"
	OpDeleteProfileImage = "delete_profile_image"
	OpAddAddress         = "add_address"
	OpDeleteAddress      = "delete_address"
)

// commitKind says how a commit interacts with the generation counter.
type commitKind int

const (
	// commitLocal touches only transient flags and is never discarded.
	commitLocal commitKind = iota
	// commitPatch changes the current session and is discarded when stale.
	commitPatch
	// commitBoundary starts or ends a session, is discarded when stale and
	// advances the generation when applied.
	commitBoundary
)

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier sets where user-facing notifications go.
func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics records session metrics.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// Manager is the session service. It is safe for concurrent use.
type Manager struct {
	api      AuthAPI
	jar      cookie.Jar
	notifier notify.Notifier
	logger   *log.Logger
	metrics  *metrics.Metrics

	mu         sync.Mutex
	state      State
	generation uint64
	inflight   int
	subs       map[int]func(State)
	nextSub    int
}

// New creates a Manager in the Unknown state.
func New(authAPI AuthAPI, jar cookie.Jar, opts ...Option) *Manager {
	m := &Manager{
		api:      authAPI,
		jar:      jar,
		notifier: notify.Discard{},
		logger:   log.Nop(),
		state:    State{IsCheckingAuth: true},
		subs:     make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// User returns a copy of the cached profile, or nil.
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.User.Clone()
}

// IsAuthenticated reports whether a profile was last fetched successfully.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.IsAuthenticated
}

// Generation returns the current session generation.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// AccessToken returns the stored access token for callers that attach
// credentials to their own requests.
func (m *Manager) AccessToken() (string, error) {
	token, ok := m.jar.Get(AccessTokenCookie)
	if !ok || token == "" {
		return "", apperrors.NewNoAccessTokenError()
	}
	return token, nil
}

// Subscribe registers fn to receive every published state. fn runs on the
// goroutine that changed the state and must not block.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// begin marks an operation in flight, resets the error and returns the
// generation the operation runs under.
func (m *Manager) begin(ctx context.Context, op string) (context.Context, trace.Span, uint64) {
	ctx, span := telemetry.StartSessionSpan(ctx, op)
	gen := m.update(func(s *State) {
		m.inflight++
		s.IsLoading = true
		s.Error = ""
	})
	return ctx, span, gen
}

// commit applies fn if the operation's generation is still current. apply
// must perform jar writes before it mutates the state, so that a failed
// write leaves the state untouched.
func (m *Manager) commit(op string, gen uint64, kind commitKind, apply func(*State) error) error {
	m.mu.Lock()
	if kind != commitLocal && gen != m.generation {
		current := m.generation
		m.mu.Unlock()
		m.logger.Debug("discarded stale commit", "op", op, "generation", gen, "current", current)
		return apperrors.NewStaleSessionError(op)
	}

	if err := apply(&m.state); err != nil {
		m.mu.Unlock()
		return err
	}
	if kind == commitBoundary {
		m.generation++
	}
	gen = m.generation
	status := m.state.Status()
	snap, subs := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Debug("session committed", "op", op, "generation", gen, "status", status.String())
	m.publish(snap, subs)
	return nil
}

// finish clears the in-flight mark and reports the outcome. When toast is
// set, a failure is also raised as a notification.
func (m *Manager) finish(ctx context.Context, op string, span trace.Span, err error, toast bool) {
	m.update(func(s *State) {
		m.inflight--
		s.IsLoading = m.inflight > 0
		if err != nil {
			s.Error = apperrors.UserMessage(err)
		}
	})

	m.metrics.RecordTransition(op, err)
	telemetry.End(span, err)

	if err == nil {
		return
	}
	m.logger.LogErrorContext(ctx, op, err)
	if toast {
		m.notifier.Error(apperrors.UserMessage(err))
	}
}

// update mutates the state, publishes it and returns the generation.
func (m *Manager) update(fn func(*State)) uint64 {
	m.mu.Lock()
	fn(&m.state)
	gen := m.generation
	snap, subs := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(snap, subs)
	return gen
}

func (m *Manager) snapshotLocked() (State, []func(State)) {
	if len(m.subs) == 0 {
		return State{}, nil
	}
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	return m.state.clone(), subs
}

func (m *Manager) publish(snap State, subs []func(State)) {
	for _, fn := range subs {
		fn(snap.clone())
	}
}

