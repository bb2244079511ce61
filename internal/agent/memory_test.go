package agent

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemory_AppendAndLen(t *testing.T) {
	m := NewMemory()
	if m.Len() != 0 {
		t.Fatalf("expected empty memory, got %d", m.Len())
	}

	m.Append(Exchange{User: "hi", Reply: "hello"})
	m.Append(Exchange{User: "refund?", Reply: "sure"})

	if m.Len() != 2 {
		t.Fatalf("expected 2 exchanges, got %d", m.Len())
	}
	got := m.Exchanges()
	if got[0].User != "hi" || got[1].User != "refund?" {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be stamped")
	}
	if got[0].Timestamp.Location() != time.UTC {
		t.Errorf("expected UTC timestamp, got %v", got[0].Timestamp.Location())
	}
}

func TestMemory_KeepsExplicitTimestamp(t *testing.T) {
	m := NewMemory()
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	m.Append(Exchange{User: "a", Reply: "b", Timestamp: ts})

	if got := m.Exchanges()[0].Timestamp; !got.Equal(ts) {
		t.Errorf("expected %v, got %v", ts, got)
	}
}

func TestMemory_Last(t *testing.T) {
	m := NewMemory()
	for i := 1; i <= 7; i++ {
		m.Append(Exchange{User: fmt.Sprintf("u%d", i), Reply: fmt.Sprintf("r%d", i)})
	}

	last := m.Last(5)
	if len(last) != 5 {
		t.Fatalf("expected 5, got %d", len(last))
	}
	if last[0].User != "u3" || last[4].User != "u7" {
		t.Errorf("expected u3..u7, got %s..%s", last[0].User, last[4].User)
	}

	if got := m.Last(20); len(got) != 7 {
		t.Errorf("expected whole log when n exceeds length, got %d", len(got))
	}
	if got := m.Last(0); len(got) != 0 {
		t.Errorf("expected empty slice for n=0, got %d", len(got))
	}
	if m.Len() != 7 {
		t.Errorf("Last must not trim storage, got %d", m.Len())
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	m := NewMemory()
	m.Append(Exchange{User: "original", Reply: "kept"})

	snapshot := m.Exchanges()
	snapshot[0].Reply = "tampered"
	window := m.Last(1)
	window[0].User = "tampered"

	got := m.Exchanges()[0]
	if got.User != "original" || got.Reply != "kept" {
		t.Errorf("stored exchange was modified through a copy: %+v", got)
	}
}

func TestMemory_ConcurrentAppend(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Append(Exchange{User: fmt.Sprintf("u%d", i)})
			_ = m.Last(5)
		}(i)
	}
	wg.Wait()

	if m.Len() != 50 {
		t.Errorf("expected 50 exchanges, got %d", m.Len())
	}
}
