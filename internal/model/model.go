package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Scheme selects how requests to the attendance API are authenticated.
type Scheme string

const (
	SchemeStaticKey   Scheme = "STATIC_KEY"
	SchemeBearer      Scheme = "BEARER"
	SchemeIssuedToken Scheme = "ISSUED_TOKEN"

	DefaultKeyHeader   = "X-API-KEY"
	DefaultTokenHeader = "X-Token"
	DefaultTokenPath   = "/authentication/token"
	DefaultTokenTTL    = 3000 * time.Second
)

// ParseScheme maps the accepted spellings of an auth scheme to a Scheme. An empty
// value selects the static key scheme.
func ParseScheme(raw string) (Scheme, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "X-API-KEY", "STATIC_KEY", "API_KEY":
		return SchemeStaticKey, nil
	case "BEARER":
		return SchemeBearer, nil
	case "TOKEN", "ISSUED_TOKEN":
		return SchemeIssuedToken, nil
	}
	return "", &ConfigurationError{Field: "auth scheme", Reason: "must be one of X-API-KEY, BEARER, TOKEN, got " + raw}
}

// AuthConfig is the resolved set of credentials for one call to the attendance API
type AuthConfig struct {
	BaseURL     string
	Scheme      Scheme
	APIKey      string
	KeyID       string
	KeyHeader   string
	TokenHeader string
	TokenPath   string
	TokenTTL    time.Duration
	TenantID    string
}

// Identity returns a stable key for the credentials used by a token exchange.
// The secret is hashed so that it is never kept as a plain map key.
func (c AuthConfig) Identity() string {
	h := sha256.New()
	for _, part := range []string{c.BaseURL, c.TokenPath, c.KeyID, c.APIKey, c.TenantID} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CachedToken is an issued token held in memory. RefreshAt is ExpiresAt minus the safety margin.
type CachedToken struct {
	Value     string
	ExpiresAt time.Time
	RefreshAt time.Time
}

type IssuedToken struct {
	Token string
	TTL   time.Duration
}

// Timesheet is the per employee hours record returned to the dashboard
type Timesheet struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	TotalHours float64 `json:"totalHours"`
	Overtime   float64 `json:"overtime"`
}

type DateRange struct {
	From string
	To   string
}
