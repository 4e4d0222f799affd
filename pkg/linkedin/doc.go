// Package linkedin implements the LinkedIn OAuth 2.0 authorization code flow
// as a drop-in: build the authorization URL, handle the redirect callback,
// exchange the code for an access token, fetch the member profile and persist
// the resulting Credential for later API calls.
//
// # Usage
//
//	client := linkedin.New(linkedin.Config{
//		ClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
//		ClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
//	})
//
//	// Start the flow
//	u, err := client.AuthCodeURL("https://example.com/auth/linkedin/callback", state, "")
//	if err != nil {
//		// missing client ID or secret
//	}
//
//	// Handle the callback
//	p := linkedin.NewProcessor(client, store)
//	err = p.Process(ctx, linkedin.ParseCallback(r), func(ctx context.Context, cred *linkedin.Credential, state string) error {
//		if cred == nil {
//			// member declined
//		}
//		return nil
//	})
//
//	// Call the API later
//	resp, err := cred.Client().Get(ctx, "https://api.linkedin.com/v2/me")
//
// StartHandler and CallbackHandler wrap the same steps as http.HandlerFunc.
//
// # Error Handling
//
//   - ErrConfiguration: missing client ID (ErrMissingClientID) or secret (ErrMissingClientSecret)
//   - ErrProvider: *ProviderError, LinkedIn redirected back with an error code
//   - ErrProviderToken: *TokenError, the token endpoint reported an error
//   - ErrMalformedResponse: a required field is missing from a response
//   - ErrProfileFetch: the profile call failed after the token exchange
//   - ErrHTTP: *HTTPError, non-2xx status
//   - ErrProviderAPI: *APIError, serviceErrorCode in the body, even on 2xx
//
// A declined login (user_cancelled_login, user_cancelled_authorize) is not an
// error: the finish function receives a nil credential.
//
// Use StatusCode to map errors to HTTP statuses.
//
// # Testing
//
// Use WithHTTPClient or WithTransport and point the endpoint URLs in Config
// at an httptest server.
package linkedin
