package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"agroskills-platform/internal/domain"
)

// Session is the authentication context: the signed-in user and tokens,
// kept in the client's session store.
type Session struct {
	c *Client
}

func NewSession(c *Client) *Session {
	return &Session{c: c}
}

func (s *Session) Login(ctx context.Context, email, password string) Result[*domain.User] {
	req := domain.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	res := doJSON[domain.AuthResult](ctx, s.c, http.MethodPost, "/api/auth/login", req, authNone)
	return s.establish(res)
}

func (s *Session) Signup(ctx context.Context, req domain.SignupRequest) Result[*domain.User] {
	res := doJSON[domain.AuthResult](ctx, s.c, http.MethodPost, "/api/auth/signup", req, authNone)
	return s.establish(res)
}

// Refresh trades the stored refresh token for a new pair.
func (s *Session) Refresh(ctx context.Context) Result[*domain.User] {
	refresh := lookup(s.c.session, KeyRefreshToken)
	if refresh == "" {
		return failed[*domain.User](ErrNotAuthenticated)
	}
	body := map[string]string{"refresh_token": refresh}
	res := doJSON[domain.AuthResult](ctx, s.c, http.MethodPost, "/api/auth/refresh", body, authNone)
	return s.establish(res)
}

func (s *Session) establish(res Result[domain.AuthResult]) Result[*domain.User] {
	if res.Error != nil {
		return failed[*domain.User](res.Error)
	}
	auth := res.Data
	if auth.AccessToken == "" {
		return failed[*domain.User](ErrNotAuthenticated)
	}
	s.c.applies.reset()
	if err := s.c.session.Set(KeyAccessToken, auth.AccessToken); err != nil {
		return failed[*domain.User](err)
	}
	if auth.RefreshToken != "" {
		if err := s.c.session.Set(KeyRefreshToken, auth.RefreshToken); err != nil {
			return failed[*domain.User](err)
		}
	} else if err := s.c.session.Delete(KeyRefreshToken); err != nil {
		return failed[*domain.User](err)
	}
	if err := s.storeUser(auth.User); err != nil {
		return failed[*domain.User](err)
	}
	return Result[*domain.User]{Success: true, Data: auth.User, Message: res.Message}
}

func (s *Session) storeUser(u *domain.User) error {
	if u == nil {
		return s.c.session.Delete(KeyUser)
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.c.session.Set(KeyUser, string(raw))
}

// Me reloads the current user from the API.
func (s *Session) Me(ctx context.Context) Result[*domain.User] {
	res := doJSON[*domain.User](ctx, s.c, http.MethodGet, "/api/users/me", nil, authRequired)
	if res.Error == nil && res.Data != nil {
		if err := s.storeUser(res.Data); err != nil {
			s.c.log.Warn("failed to cache user", "error", err)
		}
	}
	return res
}

// UpdateUser saves profile fields and refreshes the cached user. The cached
// copy is left untouched when the request fails.
func (s *Session) UpdateUser(ctx context.Context, req domain.UpdateUserRequest) Result[*domain.User] {
	res := doJSON[*domain.User](ctx, s.c, http.MethodPatch, "/api/users/profile", req, authRequired)
	if res.Error == nil && res.Data != nil {
		if err := s.storeUser(res.Data); err != nil {
			s.c.log.Warn("failed to cache user", "error", err)
		}
	}
	return res
}

func (s *Session) CheckEmail(ctx context.Context, email string) Result[bool] {
	res := doJSON[struct {
		Exists bool `json:"exists"`
	}](ctx, s.c, http.MethodPost, "/api/auth/check-email", map[string]string{"email": email}, authNone)
	if res.Error != nil {
		return failed[bool](res.Error)
	}
	return Result[bool]{Success: true, Data: res.Data.Exists, Message: res.Message}
}

func (s *Session) ForgotPassword(ctx context.Context, email string) Result[struct{}] {
	return doJSON[struct{}](ctx, s.c, http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": strings.TrimSpace(email)}, authNone)
}

func (s *Session) ResetPassword(ctx context.Context, token, password string) Result[struct{}] {
	return doJSON[struct{}](ctx, s.c, http.MethodPost, "/api/auth/reset-password",
		domain.ResetPasswordRequest{Token: token, Password: password}, authNone)
}

// Logout forgets every stored credential.
func (s *Session) Logout() {
	s.c.ClearCredentials()
}

// User returns the cached user or nil.
func (s *Session) User() *domain.User {
	raw := lookup(s.c.session, KeyUser)
	if raw == "" {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

func (s *Session) Token() string {
	return s.c.Token()
}

func (s *Session) IsAuthenticated() bool {
	return s.c.bearer() != ""
}
