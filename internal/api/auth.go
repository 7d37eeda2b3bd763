package api

import (
	"context"
	"net/http"

	"github.com/newsroomhq/newsroom/internal/errors"
)

// Role determines which actions the UI offers. It is advisory only; the
// backend is authoritative for every protected action.
type Role string

// Roles
const (
	RoleUnassigned Role = "UNASSIGNED"
	RoleSubscriber Role = "SUBSCRIBER"
	RoleJournalist Role = "JOURNALIST"
)

// User represents the authenticated user's profile snapshot
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Role        Role   `json:"role"`
	TOTPEnabled bool   `json:"totpEnabled"`
}

// AuthResponse is the server's answer to login, set-role and 2FA verification.
// The boolean flags form the redirect directive consumed by the flow package.
type AuthResponse struct {
	Token           string `json:"token"`
	RoleMissing     bool   `json:"roleMissing"`
	NeedTwoFASetup  bool   `json:"need2faSetup"`
	NeedTwoFAVerify bool   `json:"need2faVerify"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a registration request; Role is always UNASSIGNED,
// the user picks a real role on the next screen.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
}

// ProfileUpdate carries the editable profile fields
type ProfileUpdate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// TwoFASetupResponse carries the provisioning QR image as base64 PNG
type TwoFASetupResponse struct {
	QRCodeBase64 string `json:"qrCodeBase64"`
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var auth AuthResponse
	err := c.call(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &auth)
	if err != nil {
		if errors.Is(err, errors.ErrCodeInvalidCredentials) {
			return nil, errors.NewInvalidCredentialsError()
		}
		return nil, err
	}
	return &auth, nil
}

// Register creates a new account with an unassigned role. A 409 means the
// account already exists and is surfaced as a distinct duplicate error.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	req.Role = RoleUnassigned
	err := c.call(ctx, http.MethodPost, "/auth/register", req, nil)
	if err != nil && errors.IsConflict(err) {
		return errors.NewDuplicateAccountError(req.Email)
	}
	return err
}

// SignUp is the registration composite: register, then unconditionally log in
// with the same credentials. If registration fails the login is never
// attempted. If registration succeeds but login fails, the account exists
// without a session; the distinct error tells the user to log in directly.
func (c *Client) SignUp(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := c.Register(ctx, req); err != nil {
		return nil, err
	}

	auth, err := c.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, errors.NewRegisteredNoSessionError(err)
	}
	return auth, nil
}

// CurrentUser retrieves the authenticated user's profile
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile saves the editable profile fields; a 409 is an email collision
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*User, error) {
	var user User
	err := c.call(ctx, http.MethodPut, "/auth/me", upd, &user)
	if err != nil {
		if errors.IsConflict(err) {
			return nil, errors.NewProfileConflictError(upd.Email)
		}
		return nil, err
	}
	return &user, nil
}

// SetRole assigns the chosen role and returns a fresh token with follow-up flags
func (c *Client) SetRole(ctx context.Context, role Role) (*AuthResponse, error) {
	var auth AuthResponse
	body := struct {
		Role Role `json:"role"`
	}{Role: role}
	if err := c.call(ctx, http.MethodPost, "/auth/set-role", body, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// SetupTwoFA requests a new TOTP provisioning QR payload
func (c *Client) SetupTwoFA(ctx context.Context) (*TwoFASetupResponse, error) {
	var setup TwoFASetupResponse
	if err := c.call(ctx, http.MethodPost, "/auth/2fa/setup", nil, &setup); err != nil {
		return nil, err
	}
	return &setup, nil
}

// VerifyTwoFA submits the six-digit code; a rejection is a credential error
func (c *Client) VerifyTwoFA(ctx context.Context, code string) (*AuthResponse, error) {
	var auth AuthResponse
	body := struct {
		Code string `json:"code"`
	}{Code: code}
	err := c.call(ctx, http.MethodPost, "/auth/2fa/verify", body, &auth)
	if err != nil {
		if errors.IsCredential(err) {
			return nil, errors.NewTwoFACodeRejectedError()
		}
		return nil, err
	}
	return &auth, nil
}
