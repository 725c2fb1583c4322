package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	apperrors "github.com/reciplore/reciplore/internal/errors"
)

// ProfileImageField is the multipart field name of the avatar upload.
const ProfileImageField = "profileImg"

// Register creates an account. No tokens are issued.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyEmail redeems the token from the verification link.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*MessageResponse, error) {
	var resp MessageResponse
	r := request{
		method: http.MethodGet,
		path:   "/auth/verify-email",
		query:  map[string]string{"token": token},
	}
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login submits the first factor. The backend answers by dispatching a code.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyLogin submits the second-factor code.
func (c *Client) VerifyLogin(ctx context.Context, code string) (*VerifyLoginResponse, error) {
	var resp VerifyLoginResponse
	r := request{method: http.MethodPost, path: "/auth/verify-login", body: VerifyLoginRequest{Code: code}}
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	var resp RefreshResponse
	r := request{
		method:  http.MethodGet,
		path:    "/auth/refresh-token",
		headers: map[string]string{RefreshTokenHeader: refreshToken},
	}
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, apperrors.New(apperrors.ErrCodeDecodeFailed, apperrors.KindResponseShape,
			"refresh response carried no access token")
	}
	return &resp, nil
}

// GetProfile fetches the profile of the token's owner.
func (c *Client) GetProfile(ctx context.Context, accessToken string) (*User, error) {
	var resp UserResponse
	r := request{method: http.MethodGet, path: "/auth/get-profile"}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return resp.requireUser()
}

// DeleteUser deletes the account.
func (c *Client) DeleteUser(ctx context.Context, accessToken string) (*MessageResponse, error) {
	var resp MessageResponse
	r := request{method: http.MethodDelete, path: "/auth/delete-user"}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateUser applies a partial profile update.
func (c *Client) UpdateUser(ctx context.Context, accessToken string, patch UpdateUserRequest) (*UserResponse, error) {
	var resp UserResponse
	r := request{method: http.MethodPut, path: "/auth/update-user", body: patch}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	if _, err := resp.requireUser(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadProfileImage uploads an avatar as multipart form data.
func (c *Client) UploadProfileImage(ctx context.Context, accessToken, filename string, image io.Reader) (*UserResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(ProfileImageField, filepath.Base(filename))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeEncodeFailed, apperrors.KindUnknown,
			"failed to create multipart field", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeEncodeFailed, apperrors.KindUnknown,
			"failed to read image", err)
	}
	if err := mw.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeEncodeFailed, apperrors.KindUnknown,
			"failed to finish multipart body", err)
	}

	var resp UserResponse
	r := request{
		method:      http.MethodPost,
		path:        "/auth/upload-profileImg",
		raw:         &buf,
		contentType: mw.FormDataContentType(),
	}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	if _, err := resp.requireUser(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteProfileImage removes the avatar.
func (c *Client) DeleteProfileImage(ctx context.Context, accessToken string) (*UserResponse, error) {
	var resp UserResponse
	r := request{method: http.MethodDelete, path: "/auth/delete-profileImg"}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddAddress stores a new delivery address.
func (c *Client) AddAddress(ctx context.Context, accessToken string, addr Address) (*AddressResponse, error) {
	var resp AddressResponse
	r := request{method: http.MethodPost, path: "/address/add-address", body: addr}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	if resp.Address.ID == "" {
		return nil, apperrors.New(apperrors.ErrCodeDecodeFailed, apperrors.KindResponseShape,
			"address response carried no address id")
	}
	return &resp, nil
}

// DeleteAddress removes a delivery address by id.
func (c *Client) DeleteAddress(ctx context.Context, accessToken, addressID string) (*MessageResponse, error) {
	var resp MessageResponse
	r := request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/address/delete-address/%s", url.PathEscape(addressID)),
	}.withAccessToken(accessToken)
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UnmarshalJSON accepts `{message, user}` as well as a flat profile body.
func (r *UserResponse) UnmarshalJSON(data []byte) error {
	var env struct {
		Message string          `json:"message"`
		User    json.RawMessage `json:"user"`
		ID      string          `json:"_id"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	r.Message = env.Message
	r.User = nil

	raw := []byte(env.User)
	if len(raw) == 0 || string(raw) == "null" {
		if env.ID == "" {
			return nil
		}
		raw = data
	}

	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return err
	}
	r.User = &u
	return nil
}

func (r *UserResponse) requireUser() (*User, error) {
	if r.User == nil || r.User.ID == "" {
		return nil, apperrors.New(apperrors.ErrCodeDecodeFailed, apperrors.KindResponseShape,
			"response carried no user profile")
	}
	return r.User, nil
}
