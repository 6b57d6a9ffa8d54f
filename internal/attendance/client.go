package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/customhttp"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
)

const (
	DefaultSummariesPath = "/attendance_summaries"
	DefaultPerPage       = 100
	DefaultMaxPages      = 5000

	headerKeyAuth = "Authorization"
	bearer        = "Bearer"

	maxErrorBody = 4 << 10
)

type ClientInterface interface {
	FetchAll(ctx context.Context, cfg model.AuthConfig, dateRange model.DateRange) ([]AttendanceSummary, error)
}

// TokenSource supplies and revokes issued tokens for the ISSUED_TOKEN scheme.
type TokenSource interface {
	Token(ctx context.Context, cfg model.AuthConfig) (string, error)
	Invalidate(cfg model.AuthConfig)
}

type ClientOption func(*client)

func WithSummariesPath(path string) ClientOption {
	return func(c *client) {
		if path != "" {
			c.SummariesPath = path
		}
	}
}

func WithPerPage(perPage int) ClientOption {
	return func(c *client) {
		if perPage > 0 {
			c.PerPage = perPage
		}
	}
}

func WithMaxPages(maxPages int) ClientOption {
	return func(c *client) {
		if maxPages > 0 {
			c.MaxPages = maxPages
		}
	}
}

func NewClient(c customhttp.HTTPCommand, tokens TokenSource, options ...ClientOption) *client {
	cl := &client{
		HTTPCommand:   c,
		Tokens:        tokens,
		SummariesPath: DefaultSummariesPath,
		PerPage:       DefaultPerPage,
		MaxPages:      DefaultMaxPages,
	}
	for _, opt := range options {
		opt(cl)
	}
	return cl
}

type client struct {
	HTTPCommand   customhttp.HTTPCommand
	Tokens        TokenSource
	SummariesPath string
	PerPage       int
	MaxPages      int
}

// FetchAll walks the summaries endpoint page by page and returns every summary in
// the range. Any failure discards the pages already collected.
func (c *client) FetchAll(ctx context.Context, cfg model.AuthConfig, dateRange model.DateRange) ([]AttendanceSummary, error) {
	contextLogger := log.WithContext(ctx)
	contextLogger.Infof("Fetching attendance summaries from %s to %s", dateRange.From, dateRange.To)

	var all []AttendanceSummary
	refreshed := false
	for page := 1; ; page++ {
		if page > c.MaxPages {
			contextLogger.Errorf("attendance API still returned full pages after %d pages", c.MaxPages)
			return nil, &model.ProtocolError{Pages: c.MaxPages}
		}

		envelope, err := c.getPage(ctx, cfg, dateRange, page)
		var apiErr *model.ExternalAPIError
		if err != nil && !refreshed && cfg.Scheme == model.SchemeIssuedToken &&
			errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			contextLogger.Info("attendance API rejected the issued token, reissuing once")
			refreshed = true
			c.Tokens.Invalidate(cfg)
			envelope, err = c.getPage(ctx, cfg, dateRange, page)
		}
		if err != nil {
			return nil, err
		}

		all = append(all, envelope.Items...)
		contextLogger.WithFields(log.Fields{
			"page":      page,
			"items":     len(envelope.Items),
			"collected": len(all),
		}).Debug("attendance summaries page received")

		if !envelope.hasNext(len(all), c.PerPage) {
			break
		}
	}

	if all == nil {
		all = []AttendanceSummary{}
	}
	return all, nil
}

func (c *client) getPage(ctx context.Context, cfg model.AuthConfig, dateRange model.DateRange, page int) (Envelope, error) {
	contextLogger := log.WithContext(ctx)

	req, err := c.newSummariesRequest(ctx, cfg, dateRange, page)
	if err != nil {
		return Envelope{}, err
	}

	resp, err := c.HTTPCommand.Do(req)
	if err != nil {
		contextLogger.WithError(err).Errorf("there was an error calling the attendance API. %v", err)
		return Envelope{}, &model.ExternalAPIError{Err: err}
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			contextLogger.WithError(err).Errorf("Error closing the ioReader. %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		contextLogger.Infof("status returned from attendance API %s ", resp.Status)
		return Envelope{}, &model.ExternalAPIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		contextLogger.WithError(err).Error("error reading attendance API resp body")
		return Envelope{}, &model.ExternalAPIError{StatusCode: resp.StatusCode, Err: err}
	}

	envelope, err := decodeEnvelope(body)
	if err != nil {
		contextLogger.WithError(err).Errorf("there was an error un marshalling the attendance API resp. %v", err)
		return Envelope{}, &model.ExternalAPIError{StatusCode: resp.StatusCode, Err: err}
	}
	return envelope, nil
}

func (c *client) newSummariesRequest(ctx context.Context, cfg model.AuthConfig, dateRange model.DateRange, page int) (*http.Request, error) {
	endpoint, err := c.buildSummariesEndpoint(cfg, dateRange, page)
	if err != nil {
		return nil, &model.ConfigurationError{Field: "base URL", Reason: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &model.ExternalAPIError{Err: err}
	}

	switch cfg.Scheme {
	case model.SchemeBearer:
		req.Header.Set(headerKeyAuth, fmt.Sprintf("%s %s", bearer, cfg.APIKey))
	case model.SchemeIssuedToken:
		token, err := c.Tokens.Token(ctx, cfg)
		if err != nil {
			return nil, err
		}
		req.Header.Set(headerOrDefault(cfg.TokenHeader, model.DefaultTokenHeader), token)
	default:
		req.Header.Set(headerOrDefault(cfg.KeyHeader, model.DefaultKeyHeader), cfg.APIKey)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	return req, nil
}

func (c *client) buildSummariesEndpoint(cfg model.AuthConfig, dateRange model.DateRange, page int) (string, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + c.SummariesPath)
	if err != nil {
		return "", err
	}

	q := u.Query()
	params := []struct{ key, value string }{
		{"from", dateRange.From},
		{"to", dateRange.To},
		{"page", strconv.Itoa(page)},
		{"per_page", strconv.Itoa(c.PerPage)},
		{"company_id", cfg.TenantID},
	}
	for _, p := range params {
		if p.value != "" {
			q.Set(p.key, p.value)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func headerOrDefault(name string, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
