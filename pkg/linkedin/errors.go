package linkedin

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrConfiguration is matched by every error caused by missing provider credentials.
	ErrConfiguration = errors.New("linkedin: invalid configuration")

	// ErrMissingClientID is returned when the LinkedIn client ID is not configured.
	ErrMissingClientID error = &configError{msg: "linkedin: missing client ID"}

	// ErrMissingClientSecret is returned when the LinkedIn client secret is not configured.
	ErrMissingClientSecret error = &configError{msg: "linkedin: missing client secret"}

	// ErrMissingCode is returned when the callback carries neither an error nor a code.
	ErrMissingCode = errors.New("linkedin: missing authorization code")

	// ErrMissingState is returned when the callback request has no state parameter at all.
	ErrMissingState = errors.New("linkedin: missing state parameter")

	// ErrProvider is matched by *ProviderError.
	ErrProvider = errors.New("linkedin: provider returned an error")

	// ErrProviderToken is matched by *TokenError.
	ErrProviderToken = errors.New("linkedin: token endpoint returned an error")

	// ErrMalformedResponse is returned when an otherwise successful response lacks a required field.
	ErrMalformedResponse = errors.New("linkedin: malformed provider response")

	// ErrProfileFetch is returned when the profile could not be fetched after a token exchange.
	ErrProfileFetch = errors.New("linkedin: failed to fetch profile")

	// ErrHTTP is matched by *HTTPError.
	ErrHTTP = errors.New("linkedin: request returned non-OK status")

	// ErrProviderAPI is matched by *APIError.
	ErrProviderAPI = errors.New("linkedin: api returned an error")

	// ErrTransport is returned when the request could not be performed at all.
	ErrTransport = errors.New("linkedin: transport failure")

	// ErrCredentialNotFound is returned by stores when no credential exists for an ID.
	ErrCredentialNotFound = errors.New("linkedin: credential not found")
)

type configError struct {
	msg string
}

func (e *configError) Error() string {
	return e.msg
}

func (e *configError) Is(target error) bool {
	return target == ErrConfiguration
}

// ProviderError is an error reported by LinkedIn on the redirect callback.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("Error: %s: %s", e.Code, e.Description)
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// TokenError is an error embedded in a token endpoint response.
// Raw holds the full response body for logging.
type TokenError struct {
	Code        string
	Description string
	Raw         []byte
	StatusCode  int
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("Error: %s", e.Raw)
}

func (e *TokenError) Is(target error) bool {
	return target == ErrProviderToken
}

// HTTPError is returned when a provider call responds with a non-2xx status.
type HTTPError struct {
	Body       []byte
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("linkedin: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTP
}

// Temporary reports whether retrying the request later might succeed.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// APIError is a LinkedIn API error carried in the response body.
// LinkedIn may send it with a 2xx status.
type APIError struct {
	Message          string
	ServiceErrorCode string
	Body             []byte
	StatusCode       int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("linkedin: api error: serviceErrorCode=%s status=%d message=%s", e.ServiceErrorCode, e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrProviderAPI
}

// StatusCode maps an error from this package to the HTTP status a handler should render.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError
	case errors.Is(err, ErrProvider),
		errors.Is(err, ErrProviderToken),
		errors.Is(err, ErrMissingCode),
		errors.Is(err, ErrMissingState):
		return http.StatusBadRequest
	case errors.Is(err, ErrProfileFetch),
		errors.Is(err, ErrMalformedResponse),
		errors.Is(err, ErrProviderAPI),
		errors.Is(err, ErrHTTP),
		errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
