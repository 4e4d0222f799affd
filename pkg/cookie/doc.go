// Package cookie stores small values in signed, expiring browser cookies.
//
// The login host keeps two of them: the pending authorization between the
// start and the callback, and the member ID once login succeeded.
//
//	type pending struct {
//		Nonce    string `json:"n"`
//		ReturnTo string `json:"r"`
//	}
//
//	pendingCookie, err := cookie.New[pending]("linkedin_state", secret, cookie.WithSecure(true))
//	if err != nil {
//		return err
//	}
//
//	// start
//	_ = pendingCookie.Save(w, pending{Nonce: nonce, ReturnTo: "/me"})
//
//	// callback
//	p, err := pendingCookie.Load(r)
//	pendingCookie.Clear(w)
//	if err != nil || p.Nonce != state {
//		// reject
//	}
//
// Values are JSON encoded and signed with HMAC-SHA256 over the cookie name
// and the payload. They are readable by the client, so nothing secret
// belongs in them.
//
// # Errors
//
//   - [ErrNoSecret], [ErrBadSecret] - invalid secret passed to [New]
//   - [ErrNotFound] - no such cookie on the request
//   - [ErrBadSig] - the cookie was tampered with or is malformed
//   - [ErrExpired] - the value is older than the max age
package cookie
