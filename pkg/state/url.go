package state

import "net/url"

const (
	// ParamAdopted is the query parameter carrying encoded adoption state.
	ParamAdopted = "adopted"

	// paramLegacy is an older parameter name still found in shared links.
	// It is read-tolerated as a fallback but never written.
	paramLegacy = "state"
)

// FromURL reads adoption state from the designated query parameter.
//
// The second result distinguishes "no state in URL" (parameter absent,
// false) from "empty state explicitly encoded" (parameter present, true).
// Callers use this to decide precedence: URL state, when present, overrides
// persisted local state so a shared link reproduces the linked view.
func FromURL(u *url.URL) (map[string]struct{}, bool) {
	if u == nil {
		return nil, false
	}
	q := u.Query()
	if q.Has(ParamAdopted) {
		return Decode(q.Get(ParamAdopted)), true
	}
	if q.Has(paramLegacy) {
		return Decode(q.Get(paramLegacy)), true
	}
	return nil, false
}

// UpdateURL returns a copy of u with the adoption parameter rewritten in
// place: path and all other query parameters are preserved. An empty set
// removes the parameter entirely rather than writing an empty value. The
// legacy parameter is always dropped on write.
func UpdateURL(u *url.URL, ids map[string]struct{}) *url.URL {
	if u == nil {
		return nil
	}
	out := *u
	q := out.Query()
	q.Del(paramLegacy)
	if encoded := Encode(ids); encoded != "" {
		q.Set(ParamAdopted, encoded)
	} else {
		q.Del(ParamAdopted)
	}
	out.RawQuery = q.Encode()
	return &out
}
