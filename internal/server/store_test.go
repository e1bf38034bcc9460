package server

import (
	"fmt"
	"sync"
	"testing"

	"omr-grader/internal/omr"
)

func storedRecord(score int) *SheetRecord {
	return &SheetRecord{
		Result: &omr.SheetResult{
			Evaluation: &omr.EvaluationResult{Score: score, Total: 4, Attempted: score},
		},
	}
}

func TestNewResultStore(t *testing.T) {
	store := NewResultStore()
	if store == nil {
		t.Fatal("NewResultStore returned nil")
	}
	if store.records == nil {
		t.Fatal("NewResultStore did not initialize records map")
	}
}

func TestResultStore_PutGet(t *testing.T) {
	store := NewResultStore()
	record := storedRecord(3)

	store.Put("abc", record)

	got, ok := store.Get("abc")
	if !ok {
		t.Fatal("Get did not find stored record")
	}
	if got != record {
		t.Error("Get returned a different record than stored")
	}
}

func TestResultStore_GetMissing(t *testing.T) {
	store := NewResultStore()
	if _, ok := store.Get("missing"); ok {
		t.Error("Get reported a record for an unknown ID")
	}
}

func TestResultStore_PutReplaces(t *testing.T) {
	store := NewResultStore()
	store.Put("abc", storedRecord(1))

	replacement := storedRecord(4)
	store.Put("abc", replacement)

	got, ok := store.Get("abc")
	if !ok || got != replacement {
		t.Error("Put did not replace the existing record")
	}
	if store.Len() != 1 {
		t.Errorf("Len: got %d, want 1", store.Len())
	}
}

func TestResultStore_Evict(t *testing.T) {
	store := NewResultStore()
	store.Put("abc", storedRecord(2))

	store.Evict("abc")

	if _, ok := store.Get("abc"); ok {
		t.Error("Evict did not remove the record")
	}
}

func TestResultStore_Evict_NonExistent(t *testing.T) {
	store := NewResultStore()
	// Should not panic
	store.Evict("missing")
}

func TestResultStore_Clear(t *testing.T) {
	store := NewResultStore()
	for i := 0; i < 5; i++ {
		store.Put(fmt.Sprintf("id-%d", i), storedRecord(i))
	}

	store.Clear()

	if store.Len() != 0 {
		t.Errorf("Clear did not empty store: %d records remain", store.Len())
	}
}

func TestResultStore_ConcurrentAccess(t *testing.T) {
	store := NewResultStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("id-%d", n%10)
			store.Put(id, storedRecord(n%5))
			if _, ok := store.Get(id); !ok {
				t.Errorf("record %s missing after Put", id)
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 10 {
		t.Errorf("Len: got %d, want 10", store.Len())
	}
}
