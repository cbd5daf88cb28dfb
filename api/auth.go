package api

import (
	"context"
	"net/http"

	"github.com/deeplink-app/deeplink-go/models"
)

// LoginInput is the request body for Login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the request body for Register.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the session token and the authenticated profile.
type AuthResponse struct {
	Token string         `json:"token"`
	User  models.Account `json:"user"`
}

// Login exchanges credentials for a session token. The token is not
// installed automatically; callers decide when to adopt it.
func (c *Client) Login(ctx context.Context, in LoginInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and logs it in.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (*models.Account, error) {
	var out models.Account
	if err := c.do(ctx, http.MethodGet, "/api/auth/me/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
