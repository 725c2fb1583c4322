package api

import (
	"encoding/json"
	"time"
)

// Address is one delivery address on a user profile.
type Address struct {
	ID         string `json:"_id,omitempty" yaml:"id,omitempty"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
	Street     string `json:"street" yaml:"street"`
	City       string `json:"city" yaml:"city"`
	State      string `json:"state,omitempty" yaml:"state,omitempty"`
	Country    string `json:"country" yaml:"country"`
	PostalCode string `json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
	Phone      string `json:"phone,omitempty" yaml:"phone,omitempty"`
	IsDefault  bool   `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
}

// User is the profile snapshot returned by the auth endpoints.
type User struct {
	ID              string    `json:"_id" yaml:"id"`
	Username        string    `json:"username" yaml:"username"`
	Email           string    `json:"email" yaml:"email"`
	Role            string    `json:"role" yaml:"role"`
	ProfileImageURL *string   `json:"profileImage" yaml:"profileImage"`
	PhoneNumbers    []string  `json:"phoneNumbers" yaml:"phoneNumbers"`
	Age             *int      `json:"age" yaml:"age"`
	Addresses       []Address `json:"addresses" yaml:"addresses"`
	CreatedAt       time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// UnmarshalJSON normalizes profileImage to a plain URL. The backend sends
// either a string or the raw upload object.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var wire struct {
		plain
		ProfileImage json.RawMessage `json:"profileImage"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*u = User(wire.plain)
	u.ProfileImageURL = imageURL(wire.ProfileImage)
	return nil
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	c := *u
	if u.ProfileImageURL != nil {
		url := *u.ProfileImageURL
		c.ProfileImageURL = &url
	}
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	c.PhoneNumbers = append([]string(nil), u.PhoneNumbers...)
	c.Addresses = append([]Address(nil), u.Addresses...)
	return &c
}

func imageURL(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		return &s
	}

	var obj struct {
		URL       string `json:"url"`
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	switch {
	case obj.SecureURL != "":
		return &obj.SecureURL
	case obj.URL != "":
		return &obj.URL
	}
	return nil
}

// MessageResponse is the `{message}` body most endpoints return.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword"`
	PhoneNumbers    []string `json:"phoneNumbers"`
}

// LoginRequest is the first login factor.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyLoginRequest carries the second-factor code.
type VerifyLoginRequest struct {
	Code string `json:"code"`
}

// VerifyLoginResponse holds both tokens alongside the profile fields.
type VerifyLoginResponse struct {
	AccessToken  string
	RefreshToken string
	User         User
}

// UnmarshalJSON splits the flat body into tokens and profile.
func (r *VerifyLoginResponse) UnmarshalJSON(data []byte) error {
	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &r.User); err != nil {
		return err
	}

	r.AccessToken = tokens.AccessToken
	r.RefreshToken = tokens.RefreshToken
	return nil
}

// RefreshResponse is the body of GET /auth/refresh-token.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// UpdateUserRequest is a partial profile update. Nil fields are omitted.
type UpdateUserRequest struct {
	Username     *string   `json:"username,omitempty"`
	Email        *string   `json:"email,omitempty"`
	PhoneNumbers *[]string `json:"phoneNumbers,omitempty"`
	Age          *int      `json:"age,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (r UpdateUserRequest) Empty() bool {
	return r.Username == nil && r.Email == nil && r.PhoneNumbers == nil && r.Age == nil
}

// UserResponse is returned by profile mutations.
type UserResponse struct {
	Message string
	User    *User
}

// AddressResponse is returned by POST /address/add-address.
type AddressResponse struct {
	Message string  `json:"message"`
	Address Address `json:"address"`
}
