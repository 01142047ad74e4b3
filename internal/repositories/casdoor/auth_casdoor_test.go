package casdoor

import (
	"sync"
	"testing"
)

func TestMemoryTokenStore_ConcurrentAccess(t *testing.T) {
	store := &MemoryTokenStore{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			store.Save("token")
		}()
		go func() {
			defer wg.Done()
			if _, err := store.Load(); err != nil {
				t.Errorf("Load failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			store.Clear()
		}()
	}
	wg.Wait()

	if err := store.Save("final"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "final" {
		t.Errorf("token = %q, want %q", token, "final")
	}
}

func TestNoopTokenStore_NeverPersists(t *testing.T) {
	store := NoopTokenStore{}

	if err := store.Save("secret-bearer-token"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty: one caller's session must not leak to another", token)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
}
