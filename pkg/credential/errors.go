package credential

import (
	"errors"

	"github.com/dmitrymomot/dropin/pkg/linkedin"
)

var (
	// ErrInvalidCredential is returned by Put when the ID or the access token is empty.
	ErrInvalidCredential = errors.New("credential: id and access token are required")

	// ErrStore is returned when the backend fails.
	ErrStore = errors.New("credential: store operation failed")

	// ErrMarshal is returned when a credential cannot be encoded.
	ErrMarshal = errors.New("credential: failed to marshal value")

	// ErrUnmarshal is returned when a stored credential cannot be decoded.
	ErrUnmarshal = errors.New("credential: failed to unmarshal value")
)

func validate(cred *linkedin.Credential) error {
	if cred == nil || cred.ID == "" || cred.AccessToken == "" {
		return ErrInvalidCredential
	}
	return nil
}
