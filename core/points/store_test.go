package points

import (
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.Add(Award{ID: "a1", UserID: "u1", Activity: "Walking", Points: 20, RecordedAt: now})
	store.Add(Award{ID: "a2", UserID: "u1", Activity: "Cycling", Points: 15, RecordedAt: now})
	store.Add(Award{ID: "a3", UserID: "u2", Activity: "Walking", Points: 5, RecordedAt: now})

	if got := store.List(Filter{UserID: "u1"}); len(got) != 2 {
		t.Fatalf("expected 2 awards for u1, got %d", len(got))
	}
	if got := store.List(Filter{Activity: "Walking"}); len(got) != 2 {
		t.Fatalf("expected 2 walking awards, got %d", len(got))
	}
	if got := store.List(Filter{}); len(got) != 3 || got[0].ID != "a1" {
		t.Fatalf("expected sorted full listing, got %+v", got)
	}
	if got := store.Total("u1"); got != 35 {
		t.Fatalf("expected total 35, got %d", got)
	}
	if got := store.Total(""); got != 40 {
		t.Fatalf("expected grand total 40, got %d", got)
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()
	store.Add(Award{ID: "a1", UserID: "u1", Points: 10})
	store.Add(Award{ID: "a1", UserID: "u1", Points: 12})
	if got := store.Total("u1"); got != 12 {
		t.Fatalf("re-adding an id must overwrite, got %d", got)
	}
}
