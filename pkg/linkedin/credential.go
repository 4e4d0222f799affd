package linkedin

import "context"

// SiteName is the human readable provider name.
const SiteName = "LinkedIn"

// Credential binds a LinkedIn member ID to an access token and a profile snapshot.
// A Credential is created whole on every login and replaced, never patched.
type Credential struct {
	// ID is the member URN and the primary key.
	ID string `json:"id"`
	// AccessToken may be up to ~1000 characters; stores must keep it as long text.
	AccessToken string `json:"access_token"`
	// ProfileJSON is the raw profile response.
	ProfileJSON string `json:"profile_json"`
}

// NewCredential creates a credential with all fields set at once.
func NewCredential(id, accessToken, profileJSON string) *Credential {
	return &Credential{
		ID:          id,
		AccessToken: accessToken,
		ProfileJSON: profileJSON,
	}
}

// SiteName returns the provider name.
func (c *Credential) SiteName() string {
	return SiteName
}

// DisplayName returns the member's first and last name.
func (c *Credential) DisplayName() string {
	return DisplayName(c.ProfileJSON)
}

// Client returns an AuthClient authenticated with the stored access token.
func (c *Credential) Client(opts ...Option) *AuthClient {
	return NewAuthClient(c.AccessToken, opts...)
}

// Store persists credentials keyed by member ID.
type Store interface {
	// Put creates or fully replaces the credential.
	Put(ctx context.Context, cred *Credential) error

	// Get returns ErrCredentialNotFound if no credential exists for id.
	Get(ctx context.Context, id string) (*Credential, error)
}
