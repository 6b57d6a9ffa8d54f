package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/customhttp"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
)

func TestIssueToken(t *testing.T) {
	tests := []struct {
		name    string
		cfg     model.AuthConfig
		handler func(w http.ResponseWriter, r *http.Request)
		want    *model.IssuedToken
		err     string
	}{
		{
			name: "200-token-and-expires_in",
			cfg:  model.AuthConfig{KeyID: "key-id", APIKey: "secret", TokenTTL: model.DefaultTokenTTL},
			handler: func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/authentication/token", r.URL.Path)
				user, pass, ok := r.BasicAuth()
				require.True(t, ok)
				require.Equal(t, "key-id", user)
				require.Equal(t, "secret", pass)
				_, _ = w.Write([]byte(`{"token":"abc","expires_in":120}`))
			},
			want: &model.IssuedToken{Token: "abc", TTL: 120 * time.Second},
		},
		{
			name: "200-access_token-string-ttl",
			cfg:  model.AuthConfig{APIKey: "secret", TokenTTL: model.DefaultTokenTTL},
			handler: func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "Basic c2VjcmV0", r.Header.Get("Authorization"))
				_, _ = w.Write([]byte(`{"access_token":"xyz","ttl":"600"}`))
			},
			want: &model.IssuedToken{Token: "xyz", TTL: 600 * time.Second},
		},
		{
			name: "200-default-ttl",
			cfg:  model.AuthConfig{APIKey: "secret", TokenTTL: 3000 * time.Second},
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"accessToken":"camel"}`))
			},
			want: &model.IssuedToken{Token: "camel", TTL: 3000 * time.Second},
		},
		{
			name: "200-unset-ttl-falls-back-to-package-default",
			cfg:  model.AuthConfig{APIKey: "secret"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"api_token":"t"}`))
			},
			want: &model.IssuedToken{Token: "t", TTL: model.DefaultTokenTTL},
		},
		{
			name: "tenant-id-sent-as-query",
			cfg:  model.AuthConfig{APIKey: "secret", TenantID: "acme", TokenPath: "/v1/token"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/v1/token", r.URL.Path)
				require.Equal(t, "acme", r.URL.Query().Get("company_id"))
				_, _ = w.Write([]byte(`{"token":"t","expire":60}`))
			},
			want: &model.IssuedToken{Token: "t", TTL: 60 * time.Second},
		},
		{
			name: "401-Unauthorized",
			cfg:  model.AuthConfig{APIKey: "secret"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte("bad credentials"))
			},
			err: "token exchange failed with status 401: bad credentials",
		},
		{
			name: "missing-token-field",
			cfg:  model.AuthConfig{APIKey: "secret"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"expires_in":60}`))
			},
			err: "token exchange failed: response has none of the token fields",
		},
		{
			name: "malformed-body",
			cfg:  model.AuthConfig{APIKey: "secret"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`["not","an","object"]`))
			},
			err: "token exchange failed: could not parse response",
		},
	}

	for _, test := range tests {
		tt := test
		t.Run(tt.name, func(t *testing.T) {
			s := httptest.NewServer(http.HandlerFunc(tt.handler))
			defer s.Close()

			tt.cfg.BaseURL = s.URL
			service := NewAuthService(customhttp.New(customhttp.WithHTTPClient(s.Client())).Build())

			got, err := service.IssueToken(context.Background(), tt.cfg)
			if tt.err != "" {
				require.ErrorContains(t, err, tt.err)
				var exchangeErr *model.AuthExchangeError
				require.True(t, errors.As(err, &exchangeErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestIssueTokenTransportFailure(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := s.URL
	s.Close()

	service := NewAuthService(customhttp.New().Build())
	_, err := service.IssueToken(context.Background(), model.AuthConfig{BaseURL: baseURL, APIKey: "secret"})

	var exchangeErr *model.AuthExchangeError
	require.True(t, errors.As(err, &exchangeErr))
	require.Zero(t, exchangeErr.StatusCode)
}
