package session

import (
	"context"
	"io"

	"github.com/reciplore/reciplore/internal/api"
	apperrors "github.com/reciplore/reciplore/internal/errors"
)

// DeleteUser deletes the account and, on success, ends the session as
// Logout does. A failure leaves the session untouched.
func (m *Manager) DeleteUser(ctx context.Context) (msg string, err error) {
	ctx, span, gen := m.begin(ctx, OpDeleteUser)
	defer func() { m.finish(ctx, OpDeleteUser, span, err, true) }()

	token, err := m.AccessToken()
	if err != nil {
		return "", err
	}

	resp, err := m.api.DeleteUser(ctx, token)
	if err != nil {
		return "", err
	}

	// the account is gone either way; a stale commit only skips the local teardown
	cerr := m.commit(OpDeleteUser, gen, commitBoundary, func(s *State) error {
		m.clearTokens(OpDeleteUser)
		s.clearSession()
		s.IsCheckingAuth = false
		return nil
	})
	if cerr != nil {
		m.logger.Debug("account deleted after session changed", "generation", gen)
	}

	m.notifier.Success(resp.Message)
	return resp.Message, nil
}

// UpdateUser applies a partial profile update and patches the cached
// profile from the server's answer.
func (m *Manager) UpdateUser(ctx context.Context, patch api.UpdateUserRequest) (user *api.User, err error) {
	ctx, span, gen := m.begin(ctx, OpUpdateUser)
	defer func() { m.finish(ctx, OpUpdateUser, span, err, true) }()

	token, err := m.AccessToken()
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, apperrors.NewInvalidInputError("nothing to update")
	}

	resp, err := m.api.UpdateUser(ctx, token, patch)
	if err != nil {
		return nil, err
	}

	if resp.User == nil {
		return nil, apperrors.New(apperrors.ErrCodeDecodeFailed, apperrors.KindResponseShape,
			"response carried no user profile")
	}

	updated := resp.User
	err = m.patchUser(OpUpdateUser, gen, func(u *api.User) {
		u.Username = updated.Username
		u.Email = updated.Email
		u.PhoneNumbers = append([]string(nil), updated.PhoneNumbers...)
		u.Age = updated.Clone().Age
		u.UpdatedAt = updated.UpdatedAt
	})
	if err != nil {
		return nil, err
	}

	m.notifier.Success(messageOr(resp.Message, "Profile updated"))
	return m.User(), nil
}

// UploadProfileImage replaces the avatar. The cached profile keeps only
// the resulting URL.
func (m *Manager) UploadProfileImage(ctx context.Context, filename string, image io.Reader) (user *api.User, err error) {
	ctx, span, gen := m.begin(ctx, OpUploadProfileImage)
	defer func() { m.finish(ctx, OpUploadProfileImage, span, err, true) }()

	token, err := m.AccessToken()
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, apperrors.NewInvalidInputError("no image given")
	}

	resp, err := m.api.UploadProfileImage(ctx, token, filename, image)
	if err != nil {
		return nil, err
	}

	if resp.User == nil {
		return nil, apperrors.New(apperrors.ErrCodeDecodeFailed, apperrors.KindResponseShape,
			"response carried no user profile")
	}

	updated := resp.User.Clone()
	err = m.patchUser(OpUploadProfileImage, gen, func(u *api.User) {
		u.ProfileImageURL = updated.ProfileImageURL
		u.UpdatedAt = updated.UpdatedAt
	})
	if err != nil {
		return nil, err
	}

	m.notifier.Success(messageOr(resp.Message, "Profile image updated"))
	return m.User(), nil
}

// DeleteProfileImage removes the avatar.
func (m *Manager) DeleteProfileImage(ctx context.Context) (user *api.User, err error) {
	ctx, span, gen := m.begin(ctx, OpDeleteProfileImage)
	defer func() { m.finish(ctx, OpDeleteProfileImage, span, err, true) }()

	token, err := m.AccessToken()
	if err != nil {
		return nil, err
	}

	resp, err := m.api.DeleteProfileImage(ctx, token)
	if err != nil {
		return nil, err
	}

	err = m.patchUser(OpDeleteProfileImage, gen, func(u *api.User) {
		u.ProfileImageURL = nil
		if resp.User != nil {
			// the backend may answer with a default avatar
			u.ProfileImageURL = resp.User.ProfileImageURL
			u.UpdatedAt = resp.User.UpdatedAt
		}
	})
	if err != nil {
		return nil, err
	}

	m.notifier.Success(messageOr(resp.Message, "Profile image removed"))
	return m.User(), nil
}

// AddAddress stores an address and appends the confirmed record to the
// cached profile.
func (m *Manager) AddAddress(ctx context.Context, addr api.Address) (added *api.Address, err error) {
	ctx, span, gen := m.begin(ctx, OpAddAddress)
	defer func() { m.finish(ctx, OpAddAddress, span, err, true) }()

	token, err := m.AccessToken()
	if err != nil {
		return nil, err
	}

	resp, err := m.api.AddAddress(ctx, token, addr)
	if err != nil {
		return nil, err
	}

	confirmed := resp.Address
	err = m.patchUser(OpAddAddress, gen, func(u *api.User) {
		u.Addresses = append(u.Addresses, confirmed)
	})
	if err != nil {
		return nil, err
	}

	m.notifier.Success(messageOr(resp.Message, "Address added"))
	return &confirmed, nil
}

// DeleteAddress removes an address and drops it from the cached profile.
func (m *Manager) DeleteAddress(ctx context.Context, addressID string) (msg string, err error) {
	ctx, span, gen := m.begin(ctx, OpDeleteAddress)
	defer func() { m.finish(ctx, OpDeleteAddress, span, err, true) }()

	token, err := m.AccessToken()
	if err != nil {
		return "", err
	}
	if addressID == "" {
		return "", apperrors.NewInvalidInputError("address id is required")
	}

	resp, err := m.api.DeleteAddress(ctx, token, addressID)
	if err != nil {
		return "", err
	}

	err = m.patchUser(OpDeleteAddress, gen, func(u *api.User) {
		kept := u.Addresses[:0]
		for _, a := range u.Addresses {
			if a.ID != addressID {
				kept = append(kept, a)
			}
		}
		u.Addresses = kept
	})
	if err != nil {
		return "", err
	}

	msg = messageOr(resp.Message, "Address deleted")
	m.notifier.Success(msg)
	return msg, nil
}

// patchUser applies fn to the cached profile if the session is unchanged.
// Without a cached profile there is nothing to patch.
func (m *Manager) patchUser(op string, gen uint64, fn func(*api.User)) error {
	return m.commit(op, gen, commitPatch, func(s *State) error {
		if s.User == nil {
			return nil
		}
		u := s.User.Clone()
		fn(u)
		s.User = u
		return nil
	})
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
