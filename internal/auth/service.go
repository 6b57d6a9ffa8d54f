package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/customhttp"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
)

const maxErrorBody = 4 << 10

var (
	tokenFields = []string{"token", "access_token", "accessToken", "api_token"}
	ttlFields   = []string{"expires_in", "expiresIn", "ttl", "expire"}
)

type Service struct {
	httpCommand customhttp.HTTPCommand
}

func NewAuthService(c customhttp.HTTPCommand) *Service {
	return &Service{
		httpCommand: c,
	}
}

// IssueToken exchanges the long lived key material in cfg for a short lived token.
func (service *Service) IssueToken(ctx context.Context, cfg model.AuthConfig) (*model.IssuedToken, error) {
	ctxLogger := log.WithContext(ctx)

	endpoint, err := buildTokenEndpoint(cfg)
	if err != nil {
		return nil, &model.ConfigurationError{Field: "base URL", Reason: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		ctxLogger.WithError(err).Error("could not create token exchange request")
		return nil, &model.AuthExchangeError{Err: err}
	}
	req.Header.Set("Authorization", basicCredential(cfg.KeyID, cfg.APIKey))
	req.Header.Set("Accept", "application/json")

	res, err := service.httpCommand.Do(req)
	if err != nil {
		ctxLogger.WithError(err).Error("could not send token exchange request")
		return nil, &model.AuthExchangeError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		ctxLogger.Infof("status returned from token exchange is %s", res.Status)
		return nil, &model.AuthExchangeError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&fields); err != nil {
		ctxLogger.WithError(err).Error("could not parse token exchange response")
		return nil, &model.AuthExchangeError{StatusCode: res.StatusCode, Err: fmt.Errorf("could not parse response: %w", err)}
	}

	token := firstString(fields, tokenFields)
	if token == "" {
		return nil, &model.AuthExchangeError{StatusCode: res.StatusCode, Err: fmt.Errorf("response has none of the token fields %v", tokenFields)}
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = model.DefaultTokenTTL
	}
	if seconds, ok := firstNumber(fields, ttlFields); ok && seconds > 0 {
		ttl = time.Duration(seconds) * time.Second
	}

	ctxLogger.WithField("ttl", ttl).Info("issued new attendance API token")
	return &model.IssuedToken{Token: token, TTL: ttl}, nil
}

func buildTokenEndpoint(cfg model.AuthConfig) (string, error) {
	path := cfg.TokenPath
	if path == "" {
		path = model.DefaultTokenPath
	}
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + path)
	if err != nil {
		return "", err
	}
	if cfg.TenantID != "" {
		q := u.Query()
		q.Set("company_id", cfg.TenantID)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// basicCredential encodes "id:secret", or the bare secret when no key id is configured.
func basicCredential(keyID string, secret string) string {
	raw := secret
	if keyID != "" {
		raw = keyID + ":" + secret
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

func firstString(fields map[string]json.RawMessage, names []string) string {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(fields map[string]json.RawMessage, names []string) (int64, bool) {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return int64(n), true
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}
