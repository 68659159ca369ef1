package satusehat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// TokenManager caches the Satu Sehat OAuth2 access token and refreshes it
// shortly before expiry. Safe for concurrent use.
type TokenManager struct {
	http         *resty.Client
	authURL      string
	clientID     string
	clientSecret string

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func NewTokenManager(http *resty.Client, authURL, clientID, clientSecret string) *TokenManager {
	return &TokenManager{
		http:         http,
		authURL:      authURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// refreshSkew renews the token this long before its actual expiry so
// in-flight requests never carry a token about to lapse.
const refreshSkew = 60 * time.Second

// Token returns a valid access token, refreshing it if needed. Concurrent
// callers during a refresh serialize on the write lock and re-check before
// requesting, so only one refresh hits the auth server.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	if m.token != "" && time.Until(m.expiresAt) > refreshSkew {
		tok := m.token
		m.mu.RUnlock()
		return tok, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token != "" && time.Until(m.expiresAt) > refreshSkew {
		return m.token, nil
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	resp, err := m.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     m.clientID,
			"client_secret": m.clientSecret,
			"grant_type":    "client_credentials",
		}).
		SetResult(&body).
		Post(m.authURL + "/accesstoken?grant_type=client_credentials")
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("request token: status %d: %s", resp.StatusCode(), resp.String())
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("request token: empty access_token in response")
	}

	m.token = body.AccessToken
	m.expiresAt = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return m.token, nil
}

// Invalidate drops the cached token, forcing a refresh on next use. Called
// when the FHIR API answers 401.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	m.token = ""
	m.expiresAt = time.Time{}
	m.mu.Unlock()
}
