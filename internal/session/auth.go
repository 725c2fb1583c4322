package session

import (
	"context"
	"strings"
	"time"

	"github.com/reciplore/reciplore/internal/api"
	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/telemetry"
)

// Cookie names and their client-side lifetimes. The lifetimes are storage
// hygiene and are unrelated to how long the backend honours a token.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	AccessTokenTTL  = 7 * 24 * time.Hour
	RefreshTokenTTL = 14 * 24 * time.Hour
)

// RegisterInput is a new account.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
}

func (in RegisterInput) validate() error {
	var missing []string
	if strings.TrimSpace(in.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return apperrors.NewInvalidInputError("missing " + strings.Join(missing, ", "))
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		return apperrors.NewInvalidInputError("passwords do not match")
	}
	return nil
}

// Register creates an account. It never establishes a session.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (msg string, err error) {
	ctx, span, _ := m.begin(ctx, OpRegister)
	defer func() { m.finish(ctx, OpRegister, span, err, true) }()

	if err := in.validate(); err != nil {
		return "", err
	}

	confirm := in.ConfirmPassword
	if confirm == "" {
		confirm = in.Password
	}
	req := api.RegisterRequest{
		Name:            in.Username,
		Email:           in.Email,
		Password:        in.Password,
		ConfirmPassword: confirm,
		PhoneNumbers:    []string{},
	}
	if in.Phone != "" {
		req.PhoneNumbers = []string{in.Phone}
	}

	resp, err := m.api.Register(ctx, req)
	if err != nil {
		return "", err
	}

	m.notifier.Success(resp.Message)
	return resp.Message, nil
}

// VerifyEmail redeems an email verification token.
func (m *Manager) VerifyEmail(ctx context.Context, token string) (msg string, err error) {
	ctx, span, _ := m.begin(ctx, OpVerifyEmail)
	defer func() { m.finish(ctx, OpVerifyEmail, span, err, true) }()

	if token == "" {
		return "", apperrors.NewInvalidInputError("verification token is required")
	}

	resp, err := m.api.VerifyEmail(ctx, token)
	if err != nil {
		return "", err
	}

	m.notifier.Success(resp.Message)
	return resp.Message, nil
}

// Login submits the first factor. Success means a code was dispatched and
// VerifyLogin must follow. The session is not established.
func (m *Manager) Login(ctx context.Context, email, password string) (msg string, err error) {
	ctx, span, _ := m.begin(ctx, OpLogin)
	defer func() { m.finish(ctx, OpLogin, span, err, true) }()

	if email == "" || password == "" {
		return "", apperrors.NewInvalidInputError("email and password are required")
	}

	resp, err := m.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	m.notifier.Info(resp.Message)
	return resp.Message, nil
}

// VerifyLogin submits the second-factor code and, when the backend issues
// both tokens, establishes the session.
func (m *Manager) VerifyLogin(ctx context.Context, code string) (user *api.User, err error) {
	ctx, span, gen := m.begin(ctx, OpVerifyLogin)
	defer func() { m.finish(ctx, OpVerifyLogin, span, err, true) }()

	if strings.TrimSpace(code) == "" {
		return nil, apperrors.NewInvalidInputError("verification code is required")
	}

	resp, err := m.api.VerifyLogin(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}

	var missing []string
	if resp.AccessToken == "" {
		missing = append(missing, AccessTokenCookie)
	}
	if resp.RefreshToken == "" {
		missing = append(missing, RefreshTokenCookie)
	}
	if len(missing) > 0 {
		return nil, apperrors.NewTokensMissingError(missing...)
	}

	profile := resp.User
	err = m.commit(OpVerifyLogin, gen, commitBoundary, func(s *State) error {
		if err := m.writeTokens(resp.AccessToken, resp.RefreshToken); err != nil {
			return err
		}
		s.User = profile.Clone()
		s.IsAuthenticated = true
		s.IsCheckingAuth = false
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.notifier.Success("Logged in as " + displayName(&profile))
	return profile.Clone(), nil
}

func (m *Manager) writeTokens(access, refresh string) error {
	if err := m.jar.Set(AccessTokenCookie, access, AccessTokenTTL); err != nil {
		return err
	}
	if err := m.jar.Set(RefreshTokenCookie, refresh, RefreshTokenTTL); err != nil {
		_ = m.jar.Remove(AccessTokenCookie, RefreshTokenCookie)
		return err
	}
	return nil
}

func (m *Manager) clearTokens(op string) {
	if err := m.jar.Remove(AccessTokenCookie, RefreshTokenCookie); err != nil {
		m.logger.WithError(err).Warn("failed to clear credentials", "op", op)
	}
}

// RefreshAccessToken exchanges the refresh token for a new access token
// and stores it. It does not change IsAuthenticated on success. When the
// backend rejects the refresh, both cookies are cleared and the session
// ends before the error is returned.
func (m *Manager) RefreshAccessToken(ctx context.Context) (token string, err error) {
	ctx, span, gen := m.begin(ctx, OpRefresh)
	defer func() { m.finish(ctx, OpRefresh, span, err, true) }()

	return m.refresh(ctx, gen)
}

func (m *Manager) refresh(ctx context.Context, gen uint64) (string, error) {
	refreshToken, ok := m.jar.Get(RefreshTokenCookie)
	if !ok || refreshToken == "" {
		err := apperrors.NewNoRefreshTokenError()
		m.metrics.RecordRefresh(err)
		return "", err
	}

	resp, err := m.api.RefreshToken(ctx, refreshToken)
	m.metrics.RecordRefresh(err)
	if err != nil {
		cerr := m.commit(OpRefresh, gen, commitBoundary, func(s *State) error {
			m.clearTokens(OpRefresh)
			s.clearSession()
			return nil
		})
		if cerr != nil {
			m.logger.Debug("refresh failed after session changed", "generation", gen)
		}
		return "", err
	}

	err = m.commit(OpRefresh, gen, commitPatch, func(*State) error {
		return m.jar.Set(AccessTokenCookie, resp.AccessToken, AccessTokenTTL)
	})
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// RestoreSession re-establishes the session from stored credentials at
// startup. It returns whether the session is authenticated and never
// surfaces an error. An access token the profile endpoint rejects is
// refreshed at most once and the profile fetch retried once.
func (m *Manager) RestoreSession(ctx context.Context) bool {
	ctx, span := telemetry.StartSessionSpan(ctx, OpRestore)
	gen := m.update(func(s *State) {
		m.inflight++
		s.IsLoading = true
		s.IsCheckingAuth = true
		s.Error = ""
	})

	user, hadToken, err := m.fetchProfileWithRefresh(ctx, gen)

	authenticated := false
	cerr := m.commit(OpRestore, gen, commitBoundary, func(s *State) error {
		s.IsCheckingAuth = false
		if err != nil || user == nil {
			s.clearSession()
			return nil
		}
		s.User = user
		s.IsAuthenticated = true
		authenticated = true
		return nil
	})
	if cerr != nil {
		// the session moved on while restoring; only the check is over
		_ = m.commit(OpRestore, gen, commitLocal, func(s *State) error {
			s.IsCheckingAuth = false
			return nil
		})
		authenticated = m.IsAuthenticated()
	}

	if err != nil {
		m.logger.WithError(err).Info("session restore failed", "op", OpRestore)
		if hadToken {
			m.notifier.Info("Session expired. Log in again to continue.")
		}
	}

	m.finish(ctx, OpRestore, span, err, false)
	return authenticated
}

// fetchProfileWithRefresh makes at most three calls: profile, refresh and
// the retried profile. No token means no call at all.
func (m *Manager) fetchProfileWithRefresh(ctx context.Context, gen uint64) (*api.User, bool, error) {
	token, ok := m.jar.Get(AccessTokenCookie)
	if !ok || token == "" {
		return nil, false, nil
	}

	user, err := m.api.GetProfile(ctx, token)
	if err == nil {
		return user, true, nil
	}

	m.logger.WithError(err).Debug("profile fetch failed, refreshing access token")

	token, err = m.refresh(ctx, gen)
	if err != nil {
		return nil, true, err
	}

	user, err = m.api.GetProfile(ctx, token)
	if err != nil {
		return nil, true, err
	}
	return user, true, nil
}

// Logout ends the session locally. It makes no network call and always
// applies, whatever else is in flight.
func (m *Manager) Logout(ctx context.Context) {
	_, span := telemetry.StartSessionSpan(ctx, OpLogout)
	defer telemetry.End(span, nil)

	m.mu.Lock()
	m.clearTokens(OpLogout)
	m.state.clearSession()
	m.state.IsCheckingAuth = false
	m.state.Error = ""
	m.generation++
	gen := m.generation
	snap, subs := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Debug("session committed", "op", OpLogout, "generation", gen, "status", StatusUnauthenticated.String())
	m.metrics.RecordTransition(OpLogout, nil)
	m.publish(snap, subs)
}

func displayName(u *api.User) string {
	switch {
	case u == nil:
		return "user"
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	default:
		return "user"
	}
}
