package store

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/deeplink-app/deeplink-go/api"
	"github.com/deeplink-app/deeplink-go/models"
)

// AuthSlice holds the session: the authenticated profile, the bearer token
// and its expiry. Login installs the token on the shared API client so every
// other slice's operations carry it.
type AuthSlice struct {
	api    *api.Client
	log    *zap.Logger
	notify func()

	mu        sync.Mutex
	account   *models.Account
	token     string
	expiresAt time.Time
	loading   bool
	errMsg    string
}

// AuthState is a read-only copy of the slice.
type AuthState struct {
	Account       *models.Account
	Token         string
	ExpiresAt     time.Time
	Authenticated bool
	Loading       bool
	Error         string
}

// Snapshot returns a copy safe to read without further synchronization.
func (s *AuthSlice) Snapshot() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := AuthState{
		Token:         s.token,
		ExpiresAt:     s.expiresAt,
		Authenticated: s.token != "",
		Loading:       s.loading,
		Error:         s.errMsg,
	}
	if s.account != nil {
		cp := *s.account
		st.Account = &cp
	}
	return st
}

func (s *AuthSlice) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *AuthSlice) fail(msg string, cause error) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = msg
	s.mu.Unlock()
	s.log.Warn("auth operation failed", zap.String("msg", msg), zap.Error(cause))
	s.notify()
}

// Login exchanges credentials for a session and installs the bearer token on
// the API client.
func (s *AuthSlice) Login(ctx context.Context, email, password string) error {
	s.begin()
	resp, err := s.api.Login(ctx, api.LoginInput{Email: email, Password: password})
	if err != nil {
		s.fail("Failed to login", err)
		return err
	}
	s.adopt(resp)
	return nil
}

// Register creates an account and logs it in.
func (s *AuthSlice) Register(ctx context.Context, username, email, password string) error {
	s.begin()
	resp, err := s.api.Register(ctx, api.RegisterInput{Username: username, Email: email, Password: password})
	if err != nil {
		s.fail("Failed to register", err)
		return err
	}
	s.adopt(resp)
	return nil
}

// FetchMe refreshes the authenticated profile.
func (s *AuthSlice) FetchMe(ctx context.Context) error {
	s.begin()
	account, err := s.api.Me(ctx)
	if err != nil {
		s.fail("Failed to fetch profile", err)
		return err
	}
	s.mu.Lock()
	s.account = account
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Logout clears the session locally. There is no server call; the token is
// simply dropped.
func (s *AuthSlice) Logout() {
	s.api.SetToken("")
	s.mu.Lock()
	s.account = nil
	s.token = ""
	s.expiresAt = time.Time{}
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *AuthSlice) adopt(resp *api.AuthResponse) {
	s.api.SetToken(resp.Token)
	account := resp.User

	// The client holds no signing secret, so the token is decoded without
	// verification just to learn its expiry.
	var expires time.Time
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(resp.Token, &claims); err == nil {
		if claims.ExpiresAt != nil {
			expires = claims.ExpiresAt.Time
		}
	}

	s.mu.Lock()
	s.account = &account
	s.token = resp.Token
	s.expiresAt = expires
	s.loading = false
	s.mu.Unlock()
	s.notify()
}
