package state

import (
	"maps"
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestFromURL(t *testing.T) {
	encoded := Encode(set("ci", "vc"))

	t.Run("present", func(t *testing.T) {
		u := mustParse(t, "https://example.org/?view=tree&adopted="+url.QueryEscape(encoded))
		got, present := FromURL(u)
		if !present {
			t.Fatal("parameter not detected")
		}
		if !maps.Equal(got, set("ci", "vc")) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("absent", func(t *testing.T) {
		got, present := FromURL(mustParse(t, "https://example.org/?view=tree"))
		if present {
			t.Errorf("absent parameter reported present: %v", got)
		}
	})

	t.Run("explicitly empty", func(t *testing.T) {
		// Present-but-empty is distinct from absent: it means "no practices".
		got, present := FromURL(mustParse(t, "https://example.org/?adopted="))
		if !present {
			t.Fatal("empty parameter must still count as present")
		}
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})

	t.Run("legacy parameter read", func(t *testing.T) {
		u := mustParse(t, "https://example.org/?state="+url.QueryEscape(encoded))
		got, present := FromURL(u)
		if !present || !maps.Equal(got, set("ci", "vc")) {
			t.Errorf("legacy parameter not honored: present=%v got=%v", present, got)
		}
	})

	t.Run("nil URL", func(t *testing.T) {
		if _, present := FromURL(nil); present {
			t.Error("nil URL reported present")
		}
	})
}

func TestUpdateURL(t *testing.T) {
	t.Run("preserves other parameters", func(t *testing.T) {
		u := mustParse(t, "https://example.org/tree?view=detailed&zoom=2")
		got := UpdateURL(u, set("ci"))

		q := got.Query()
		if q.Get("view") != "detailed" || q.Get("zoom") != "2" {
			t.Errorf("other parameters lost: %s", got.RawQuery)
		}
		if q.Get(ParamAdopted) != Encode(set("ci")) {
			t.Errorf("adopted = %q", q.Get(ParamAdopted))
		}
		if got.Path != "/tree" {
			t.Errorf("path = %q", got.Path)
		}
	})

	t.Run("empty set removes parameter", func(t *testing.T) {
		u := mustParse(t, "https://example.org/?adopted=abc&view=tree")
		got := UpdateURL(u, nil)
		if got.Query().Has(ParamAdopted) {
			t.Errorf("parameter not removed: %s", got.RawQuery)
		}
		if got.Query().Get("view") != "tree" {
			t.Error("unrelated parameter lost")
		}
	})

	t.Run("legacy parameter dropped on write", func(t *testing.T) {
		u := mustParse(t, "https://example.org/?state=old")
		got := UpdateURL(u, set("ci"))
		if got.Query().Has("state") {
			t.Errorf("legacy parameter survived write: %s", got.RawQuery)
		}
	})

	t.Run("input unchanged", func(t *testing.T) {
		u := mustParse(t, "https://example.org/?view=tree")
		_ = UpdateURL(u, set("ci"))
		if u.Query().Has(ParamAdopted) {
			t.Error("UpdateURL mutated its input")
		}
	})
}
