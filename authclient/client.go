package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrInvalidCredentials is returned when the authority rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNetwork is returned when no definitive answer was obtained.
	ErrNetwork = errors.New("network unavailable")
	// ErrServer is returned for any other non-2xx authority response.
	ErrServer = errors.New("authority server failure")
)

const defaultTimeout = 10 * time.Second

// Credentials is the transient login input. It is never persisted beyond the
// login call.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the authority's account record as seen by the client.
type User struct {
	ID          int64
	Email       string
	DisplayName string
	Role        string
}

// UnmarshalJSON tolerates the authority's historical field spellings:
// id/user_id, role/user_role, full_name/fullName with username fallback.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int64  `json:"id"`
		UserID      int64  `json:"user_id"`
		Email       string `json:"email"`
		Username    string `json:"username"`
		FullName    string `json:"full_name"`
		FullNameAlt string `json:"fullName"`
		Role        string `json:"role"`
		UserRole    string `json:"user_role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.ID = raw.ID
	if u.ID == 0 {
		u.ID = raw.UserID
	}
	u.Email = raw.Email
	u.DisplayName = raw.FullName
	if u.DisplayName == "" {
		u.DisplayName = raw.FullNameAlt
	}
	if u.DisplayName == "" {
		u.DisplayName = raw.Username
	}
	u.Role = raw.UserRole
	if u.Role == "" {
		u.Role = raw.Role
	}
	return nil
}

// LoginResult is the successful login payload.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         User
}

// SessionCheck is the active-session answer. Active false with a nil error is
// definitive: the token has no live session.
type SessionCheck struct {
	Active bool
	User   *User
}

// Client performs the three authority operations. It holds no mutable state
// and is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a Client for the authority at baseURL. A nil httpClient falls
// back to a dedicated default client; timeout <= 0 falls back to 10s.
func New(baseURL string, httpClient *http.Client, timeout time.Duration, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		timeout: timeout,
		log:     log,
	}
}

type loginResponse struct {
	Success      bool   `json:"success"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         User   `json:"user"`
	Error        string `json:"error"`
}

type activeSessionResponse struct {
	Success bool  `json:"success"`
	Active  bool  `json:"active"`
	User    *User `json:"user"`
}

// Login posts credentials to /auth/login.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/auth/login", "", creds)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusUnauthorized:
		c.log.Debug().Str("email", creds.Email).Msg("login rejected")
		return nil, ErrInvalidCredentials
	case status < 200 || status > 299:
		return nil, fmt.Errorf("%w: login status %d", ErrServer, status)
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed login body: %v", ErrServer, err)
	}
	if !resp.Success || resp.Token == "" {
		return nil, ErrInvalidCredentials
	}

	return &LoginResult{
		AccessToken:  resp.Token,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		User:         resp.User,
	}, nil
}

// ActiveSession asks /auth/active-session whether accessToken still backs a
// live session.
func (c *Client) ActiveSession(ctx context.Context, accessToken string) (*SessionCheck, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/auth/active-session", accessToken, nil)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		return &SessionCheck{Active: false}, nil
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w: active-session status %d", ErrServer, status)
	}

	var resp activeSessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed active-session body: %v", ErrServer, err)
	}
	if !resp.Success || !resp.Active || resp.User == nil {
		return &SessionCheck{Active: false}, nil
	}
	return &SessionCheck{Active: true, User: resp.User}, nil
}

// Logout posts to /auth/logout. Best-effort: callers must not block local
// teardown on its failure.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	_, status, err := c.do(ctx, http.MethodPost, "/auth/logout", accessToken, nil)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: logout status %d", ErrServer, status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload any) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("authority unreachable")
		return nil, 0, errors.Join(ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, errors.Join(ErrNetwork, err)
	}
	return data, resp.StatusCode, nil
}
