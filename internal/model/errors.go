package model

import "fmt"

// ConfigurationError reports a missing or invalid setting. It is raised before any request is sent.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration error: %s is not set", e.Field)
	}
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
}

// AuthExchangeError reports a failed token issuance.
type AuthExchangeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token exchange failed: %v", e.Err)
	}
	return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *AuthExchangeError) Unwrap() error {
	return e.Err
}

// ExternalAPIError reports a failed call to the attendance API. StatusCode is zero
// when no response was received.
type ExternalAPIError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ExternalAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("attendance API error: %v", e.Err)
	}
	return fmt.Sprintf("attendance API error %d: %s", e.StatusCode, e.Body)
}

func (e *ExternalAPIError) Unwrap() error {
	return e.Err
}

// ProtocolError reports an upstream server that never signalled the last page.
type ProtocolError struct {
	Pages int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("attendance API pagination did not terminate after %d pages", e.Pages)
}
