package session

import (
	"testing"
	"time"

	"github.com/notAbhay321/monkeytype-streak-notifier/internal/profile"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore(ttl time.Duration) (*Store, *clock) {
	c := &clock{t: time.Date(2025, time.May, 5, 10, 0, 0, 0, time.UTC)}
	s := NewStore(ttl)
	s.now = c.now
	return s, c
}

func TestStore_SetGetClear(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	if got := s.Get("1"); got.Step != None {
		t.Fatalf("want None, got %v", got.Step)
	}

	s.Set("1", State{Step: AwaitingOffset, Credential: "k", Profile: &profile.Profile{Name: "a"}})
	got := s.Get("1")
	if got.Step != AwaitingOffset || got.Credential != "k" || got.Profile.Name != "a" {
		t.Fatalf("unexpected state %+v", got)
	}

	s.Clear("1")
	if got := s.Get("1"); got.Step != None {
		t.Fatalf("want None after clear, got %v", got.Step)
	}
}

func TestStore_SetNoneClears(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	s.Set("1", State{Step: AwaitingCredential})
	s.Set("1", State{})
	if s.Len() != 0 {
		t.Fatalf("want empty store, got %d", s.Len())
	}
}

func TestStore_Expiry(t *testing.T) {
	s, c := newTestStore(30 * time.Minute)
	s.Set("1", State{Step: AwaitingCredential})
	s.Set("2", State{Step: AwaitingCredential})

	c.t = c.t.Add(29 * time.Minute)
	if s.Get("1").Step != AwaitingCredential {
		t.Fatal("state expired too early")
	}
	s.Set("2", State{Step: AwaitingOffset})

	c.t = c.t.Add(2 * time.Minute)
	if s.Get("1").Step != None {
		t.Fatal("state should have expired")
	}
	if s.Get("2").Step != AwaitingOffset {
		t.Fatal("refreshed state should still be live")
	}

	c.t = c.t.Add(time.Hour)
	if n := s.Prune(); n != 1 {
		t.Fatalf("want 1 pruned, got %d", n)
	}
	if s.Len() != 0 {
		t.Fatalf("want empty store, got %d", s.Len())
	}
}

func TestStore_NoTTL(t *testing.T) {
	s, c := newTestStore(0)
	s.Set("1", State{Step: AwaitingCredential})
	c.t = c.t.Add(1000 * time.Hour)
	if s.Get("1").Step != AwaitingCredential {
		t.Fatal("state must not expire without ttl")
	}
}
