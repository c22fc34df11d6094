package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
)

// Session is an established credential session. The access token is
// minted and signed by the backend; the client only decodes its claims.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"-"`
	Email        string    `json:"-"`
	ExpiresAt    time.Time `json:"-"`
}

// Auth is the credential sub-API of the gateway.
type Auth interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut()
	Session() *Session
	OnAuthChange(fn func(*Session))
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignUp registers a new credential pair and establishes a session.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, c.baseURL+"/auth/v1/signup", email, password)
}

// SignIn exchanges a credential pair for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, c.baseURL+"/auth/v1/token?grant_type=password", email, password)
}

func (c *Client) authenticate(ctx context.Context, endpoint, email, password string) (*Session, error) {
	payload, err := json.Marshal(credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to encode credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to build auth request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: auth request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to read auth response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var remote remoteError
		_ = json.Unmarshal(raw, &remote)
		return nil, &APIError{Status: resp.StatusCode, Message: remote.text()}
	}

	var decoded authResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("gateway: failed to decode auth response: %w", err)
	}
	if decoded.AccessToken == "" {
		return nil, &APIError{Status: resp.StatusCode, Message: "resposta de autenticação sem token"}
	}

	session := &Session{
		AccessToken:  decoded.AccessToken,
		RefreshToken: decoded.RefreshToken,
		UserID:       decoded.User.ID,
		Email:        decoded.User.Email,
		ExpiresAt:    time.Now().Add(time.Duration(decoded.ExpiresIn) * time.Second),
	}
	fillFromClaims(session)
	c.setSession(session)
	return session, nil
}

// fillFromClaims decodes subject, email and expiry from the access token
// when the response body did not carry them. The token is backend-signed;
// the client has no key, so claims are read without verification.
func fillFromClaims(s *Session) {
	token, _, err := new(jwt.Parser).ParseUnverified(s.AccessToken, jwt.MapClaims{})
	if err != nil {
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return
	}
	if s.UserID == "" {
		if sub, ok := claims["sub"].(string); ok {
			s.UserID = sub
		}
	}
	if s.Email == "" {
		if email, ok := claims["email"].(string); ok {
			s.Email = email
		}
	}
	if exp, ok := claims["exp"].(float64); ok {
		s.ExpiresAt = time.Unix(int64(exp), 0)
	}
}

// SignOut drops the session. The rest of the system observes the change
// through OnAuthChange.
func (c *Client) SignOut() {
	c.setSession(nil)
}

// Session returns the current session, or nil when signed out.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// OnAuthChange registers a listener invoked on every session lifecycle
// change. The listener receives nil on sign-out.
func (c *Client) OnAuthChange(fn func(*Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	listeners := make([]func(*Session), len(c.onChange))
	copy(listeners, c.onChange)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}
