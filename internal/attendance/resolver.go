package attendance

import (
	"net/url"
	"strings"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
)

// Overrides are credentials supplied with a single request
type Overrides struct {
	BaseURL      string
	APIKey       string
	APIKeyHeader string
	TenantID     string
}

// ResolveConfig merges per request overrides onto the process defaults and checks that
// everything the chosen scheme needs is present. It performs no I/O.
func ResolveConfig(o Overrides, defaults model.AuthConfig) (model.AuthConfig, error) {
	cfg := defaults
	if v := strings.TrimSpace(o.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(o.APIKey); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(o.APIKeyHeader); v != "" {
		cfg.KeyHeader = v
	}
	if v := strings.TrimSpace(o.TenantID); v != "" {
		cfg.TenantID = v
	}

	if cfg.Scheme == "" {
		cfg.Scheme = model.SchemeStaticKey
	}
	if cfg.KeyHeader == "" {
		cfg.KeyHeader = model.DefaultKeyHeader
	}
	if cfg.TokenHeader == "" {
		cfg.TokenHeader = model.DefaultTokenHeader
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = model.DefaultTokenPath
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = model.DefaultTokenTTL
	}

	if cfg.BaseURL == "" {
		return model.AuthConfig{}, &model.ConfigurationError{Field: "base URL"}
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return model.AuthConfig{}, &model.ConfigurationError{Field: "base URL", Reason: "must be an absolute http(s) URL"}
	}

	switch cfg.Scheme {
	case model.SchemeStaticKey, model.SchemeBearer:
		if cfg.APIKey == "" {
			return model.AuthConfig{}, &model.ConfigurationError{Field: "API key"}
		}
	case model.SchemeIssuedToken:
		if cfg.APIKey == "" {
			return model.AuthConfig{}, &model.ConfigurationError{Field: "API secret key"}
		}
	default:
		return model.AuthConfig{}, &model.ConfigurationError{Field: "auth scheme", Reason: "is not supported: " + string(cfg.Scheme)}
	}

	return cfg, nil
}
