package linkedin

const (
	// DefaultScope is requested when neither the caller nor the config sets a scope.
	DefaultScope = "r_liteprofile"

	// DefaultAuthURL is the LinkedIn authorization endpoint.
	DefaultAuthURL = "https://www.linkedin.com/oauth/v2/authorization"

	// DefaultTokenURL is the LinkedIn access token endpoint.
	DefaultTokenURL = "https://www.linkedin.com/oauth/v2/accessToken"

	// DefaultProfileURL is the LinkedIn profile endpoint of the authenticated member.
	DefaultProfileURL = "https://api.linkedin.com/v2/me"
)

// Config holds LinkedIn OAuth configuration.
// Endpoint URLs are only overridden in tests or behind proxies.
type Config struct {
	ClientID     string `env:"LINKEDIN_CLIENT_ID,required"`
	ClientSecret string `env:"LINKEDIN_CLIENT_SECRET,required"`
	Scope        string `env:"LINKEDIN_SCOPE" envDefault:"r_liteprofile"`
	AuthURL      string `env:"LINKEDIN_AUTH_URL" envDefault:"https://www.linkedin.com/oauth/v2/authorization"`
	TokenURL     string `env:"LINKEDIN_TOKEN_URL" envDefault:"https://www.linkedin.com/oauth/v2/accessToken"`
	ProfileURL   string `env:"LINKEDIN_PROFILE_URL" envDefault:"https://api.linkedin.com/v2/me"`
}

// Validate reports whether the provider credentials are present.
func (c Config) Validate() error {
	if c.ClientID == "" {
		return ErrMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrMissingClientSecret
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
	if c.AuthURL == "" {
		c.AuthURL = DefaultAuthURL
	}
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
	if c.ProfileURL == "" {
		c.ProfileURL = DefaultProfileURL
	}
	return c
}
