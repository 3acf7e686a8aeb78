package adoption

import (
	"sync"
	"testing"
	"time"
)

func TestStoreToggleAndSnapshot(t *testing.T) {
	s := NewStore(NewSet("ci"))

	next := s.Toggle("vc")
	if !next.Has("ci") || !next.Has("vc") {
		t.Errorf("after toggle: %v", next.IDs())
	}

	// Snapshots are independent copies.
	snap := s.Snapshot()
	delete(snap, "ci")
	if !s.Snapshot().Has("ci") {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestStoreImportAndClear(t *testing.T) {
	s := NewStore(NewSet("old"))

	s.Import(NewSet("a", "b"))
	snap := s.Snapshot()
	if snap.Has("old") || len(snap) != 2 {
		t.Errorf("after import: %v", snap.IDs())
	}

	s.Clear()
	if len(s.Snapshot()) != 0 {
		t.Error("clear must empty the store")
	}
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore(nil)

	var got []int
	s.Subscribe(func(snap Set) { got = append(got, len(snap)) })

	s.Toggle("a")
	s.Toggle("b")
	s.Toggle("a")

	want := []int{1, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPersisterCoalesces(t *testing.T) {
	var mu sync.Mutex
	var saves []Set

	p := NewPersister(func(s Set) error {
		mu.Lock()
		defer mu.Unlock()
		saves = append(saves, s)
		return nil
	}, 50*time.Millisecond, nil)

	// A burst of changes within the window collapses into one write.
	p.Notify(NewSet("a"))
	p.Notify(NewSet("a", "b"))
	p.Notify(NewSet("a", "b", "c"))

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(saves))
	}
	if len(saves[0]) != 3 {
		t.Errorf("saved set = %v, want the last notified state", saves[0].IDs())
	}
}

func TestPersisterFlush(t *testing.T) {
	var mu sync.Mutex
	count := 0

	p := NewPersister(func(Set) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		return nil
	}, time.Hour, nil)

	p.Notify(NewSet("a"))
	p.Flush()

	mu.Lock()
	if count != 1 {
		t.Errorf("flush wrote %d times, want 1", count)
	}
	mu.Unlock()

	// Flush with nothing pending is a no-op.
	p.Flush()
	mu.Lock()
	if count != 1 {
		t.Errorf("idle flush wrote again: %d", count)
	}
	mu.Unlock()
}

func TestFileStateStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/state.json"
	store, err := NewFileStateStore(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	// No prior state.
	set, had := store.Load()
	if had || len(set) != 0 {
		t.Errorf("fresh store: had=%v set=%v", had, set.IDs())
	}

	if err := store.Save(NewSet("ci", "vc")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	set, had = store.Load()
	if !had {
		t.Error("saved state not reported as prior")
	}
	if len(set) != 2 || !set.Has("ci") || !set.Has("vc") {
		t.Errorf("loaded = %v", set.IDs())
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, had = store.Load(); had {
		t.Error("state survived Clear")
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
