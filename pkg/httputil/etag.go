// Package httputil provides HTTP caching helpers built around content-hash
// ETags.
//
// The catalog is static per deployment, so validators are cheap: an ETag is
// just the SHA-256 of the response payload. Handlers call [WriteCached] and
// get conditional-request handling (If-None-Match, 304) for free. These
// helpers are independent of the graph and adoption logic.
package httputil

import (
	"net/http"
	"strings"

	"github.com/practicemap/practicemap/pkg/cache"
)

// ETag returns the strong entity tag for a response payload: the quoted
// SHA-256 hex digest of the body.
func ETag(body []byte) string {
	return `"` + cache.Hash(body) + `"`
}

// Fresh reports whether the client's If-None-Match header matches etag,
// meaning the cached representation is still fresh and a 304 is sufficient.
//
// Handles the wildcard "*", comma-separated tag lists, and weak validators
// (a "W/" prefix is ignored for comparison, per weak matching).
func Fresh(r *http.Request, etag string) bool {
	inm := r.Header.Get("If-None-Match")
	if inm == "" {
		return false
	}
	if inm == "*" {
		return true
	}
	for _, candidate := range strings.Split(inm, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}
	return false
}

// WriteCached writes body with an ETag header, answering conditional
// requests with 304 Not Modified when the client already holds the current
// representation.
func WriteCached(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	etag := ETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if Fresh(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
