package linkedin

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Profile is the raw profile object returned by the LinkedIn /v2/me endpoint.
// Fields are looked up on demand, nothing is assumed to be present.
type Profile map[string]any

// ParseProfile decodes a JSON profile document.
func ParseProfile(data []byte) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Join(ErrMalformedResponse, fmt.Errorf("decode profile: %w", err))
	}
	if p == nil {
		return nil, errors.Join(ErrMalformedResponse, errors.New("profile is not a JSON object"))
	}
	return p, nil
}

// ID returns the member URN, e.g. "urn:li:person:42".
func (p Profile) ID() (string, bool) {
	id, ok := p["id"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Localized returns the value of a localized field such as firstName,
// shaped as {"localized": {"en_US": "Ada", ...}}.
// The en_US value wins; otherwise the first locale in sorted order is used.
func (p Profile) Localized(field string) (string, bool) {
	obj, ok := p[field].(map[string]any)
	if !ok {
		return "", false
	}
	loc, ok := obj["localized"].(map[string]any)
	if !ok || len(loc) == 0 {
		return "", false
	}
	if v, ok := loc["en_US"].(string); ok && v != "" {
		return v, true
	}

	keys := make([]string, 0, len(loc))
	for k := range loc {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if v, ok := loc[k].(string); ok {
			return v, true
		}
	}
	return "", false
}

// DisplayName returns "first last".
// A missing part is rendered as an empty string and the result is not
// trimmed, so a profile with only a first name yields "Ada ".
func (p Profile) DisplayName() string {
	first, _ := p.Localized("firstName")
	last, _ := p.Localized("lastName")
	return first + " " + last
}

// DisplayName derives the display name from a serialized profile.
// Invalid JSON is treated as an empty profile.
func DisplayName(profileJSON string) string {
	p, err := ParseProfile([]byte(profileJSON))
	if err != nil {
		p = Profile{}
	}
	return p.DisplayName()
}
