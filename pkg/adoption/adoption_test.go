package adoption

import (
	"slices"
	"testing"
)

// chainIndex is the canonical CD chain used across tests:
// cd -> ci -> vc, cd -> tbd -> vc.
var chainIndex = Index{
	"cd":  {"ci", "tbd"},
	"ci":  {"vc"},
	"tbd": {"vc"},
}

func TestToggle(t *testing.T) {
	s := NewSet("ci")

	on := Toggle(s, "vc")
	if !on.Has("vc") || !on.Has("ci") {
		t.Errorf("after toggle on: %v", on.IDs())
	}

	off := Toggle(on, "ci")
	if off.Has("ci") {
		t.Error("toggle must remove a present ID")
	}

	// Inputs are never mutated.
	if !s.Has("ci") || s.Has("vc") {
		t.Errorf("original set mutated: %v", s.IDs())
	}

	var nilSet Set
	if got := Toggle(nilSet, "x"); !got.Has("x") {
		t.Error("toggle on nil set must produce a one-element set")
	}
}

func TestCountAdoptedTransitive(t *testing.T) {
	// vc is reachable via both ci and tbd but counts once.
	adopted := NewSet("ci", "vc")

	got, total := CountAdopted([]string{"ci", "tbd"}, adopted, chainIndex)
	if total != 3 {
		t.Errorf("total = %d, want 3 (ci, tbd, vc each once)", total)
	}
	if got != 2 {
		t.Errorf("adopted = %d, want 2", got)
	}
}

func TestCountAdoptedChain(t *testing.T) {
	index := Index{
		"cd":  {"ci"},
		"ci":  {"tbd"},
		"tbd": {"vc"},
		"vc":  {"git"},
	}
	adopted := NewSet("ci", "tbd", "vc", "git")

	got, total := CountAdopted([]string{"ci"}, adopted, index)
	if got != 4 || total != 4 {
		t.Errorf("got %d/%d, want 4/4", got, total)
	}
}

func TestCountAdoptedDirectOnly(t *testing.T) {
	// A nil index degrades to counting the direct dependencies only.
	adopted := NewSet("ci")

	got, total := CountAdopted([]string{"ci", "tbd"}, adopted, nil)
	if got != 1 || total != 2 {
		t.Errorf("got %d/%d, want 1/2", got, total)
	}
}

func TestCountAdoptedCyclicIndex(t *testing.T) {
	index := Index{"a": {"b"}, "b": {"a"}}

	got, total := CountAdopted([]string{"a"}, NewSet("a"), index)
	if total != 2 || got != 1 {
		t.Errorf("got %d/%d, want 1/2 on cyclic index", got, total)
	}
}

func TestCountAdoptedSkipsEmptyIDs(t *testing.T) {
	_, total := CountAdopted([]string{"", "ci", ""}, Set{}, nil)
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

func TestDependencyIDs(t *testing.T) {
	entries := []any{
		"ci",
		nil,
		map[string]any{"id": "tbd"},
		map[string]any{"name": "no id"},
		map[string]any{"id": 42},
		depEntry{"vc"},
		"",
	}

	got := DependencyIDs(entries)
	if !slices.Equal(got, []string{"ci", "tbd", "vc"}) {
		t.Errorf("DependencyIDs = %v, want [ci tbd vc]", got)
	}
}

type depEntry struct{ id string }

func (d depEntry) DependencyID() string { return d.id }

func TestAdoptedDependencies(t *testing.T) {
	entries := []any{"ci", map[string]any{"id": "tbd"}}

	got, total := AdoptedDependencies(entries, NewSet("ci", "vc"), chainIndex)
	if total != 3 || got != 2 {
		t.Errorf("got %d/%d, want 2/3", got, total)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		adopted, total, want int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{5, 0, 0},
		{-1, 10, 0},
		{1, 3, 33},
		{2, 3, 67}, // rounds half up
		{1, 2, 50},
		{3, 3, 100},
		{7, 3, 100}, // clamped
	}

	for _, tt := range tests {
		if got := Percentage(tt.adopted, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.adopted, tt.total, got, tt.want)
		}
	}
}

func TestFilterValid(t *testing.T) {
	valid := NewSet("ci", "vc")

	got := FilterValid(NewSet("ci", "stale", "tampered"), valid)
	if len(got) != 1 || !got.Has("ci") {
		t.Errorf("FilterValid = %v, want [ci]", got.IDs())
	}

	// Case-sensitive: "CI" is not "ci".
	if got := FilterValid(NewSet("CI"), valid); len(got) != 0 {
		t.Errorf("case-insensitive match slipped through: %v", got.IDs())
	}

	if got := FilterValid(nil, valid); got == nil || len(got) != 0 {
		t.Error("nil candidates must yield an empty set")
	}
	if got := FilterValid(valid, nil); len(got) != 0 {
		t.Error("nil valid set must yield an empty set")
	}
}
