package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestETag(t *testing.T) {
	a := ETag([]byte("body"))
	b := ETag([]byte("body"))
	c := ETag([]byte("other"))

	if a != b {
		t.Error("identical bodies must produce identical tags")
	}
	if a == c {
		t.Error("different bodies must produce different tags")
	}
	if a[0] != '"' || a[len(a)-1] != '"' {
		t.Errorf("tag %q is not quoted", a)
	}
}

func TestFresh(t *testing.T) {
	etag := ETag([]byte("body"))

	tests := []struct {
		name string
		inm  string
		want bool
	}{
		{"no header", "", false},
		{"exact match", etag, true},
		{"wildcard", "*", true},
		{"mismatch", `"deadbeef"`, false},
		{"in list", `"deadbeef", ` + etag, true},
		{"weak validator", "W/" + etag, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.inm != "" {
				r.Header.Set("If-None-Match", tt.inm)
			}
			if got := Fresh(r, etag); got != tt.want {
				t.Errorf("Fresh = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteCached(t *testing.T) {
	body := []byte(`{"ok":true}`)

	t.Run("first request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		WriteCached(w, r, "application/json", body)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		if w.Body.String() != string(body) {
			t.Errorf("body = %q", w.Body.String())
		}
		if w.Header().Get("ETag") == "" {
			t.Error("missing ETag header")
		}
		if got := w.Header().Get("Content-Type"); got != "application/json" {
			t.Errorf("content type = %q", got)
		}
	})

	t.Run("revalidation", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("If-None-Match", ETag(body))

		WriteCached(w, r, "application/json", body)

		if w.Code != http.StatusNotModified {
			t.Errorf("status = %d, want 304", w.Code)
		}
		if w.Body.Len() != 0 {
			t.Errorf("304 must have no body, got %q", w.Body.String())
		}
	})

	t.Run("stale validator", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("If-None-Match", `"stale"`)

		WriteCached(w, r, "application/json", body)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}
