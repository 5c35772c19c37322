package lock

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	const workers = 16
	var inSection int
	var maxInSection int
	var guard sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("bus:7:2025-04-01")
			guard.Lock()
			inSection++
			if inSection > maxInSection {
				maxInSection = inSection
			}
			guard.Unlock()

			time.Sleep(time.Millisecond)

			guard.Lock()
			inSection--
			guard.Unlock()
			km.Unlock("bus:7:2025-04-01")
		}()
	}
	wg.Wait()

	if maxInSection != 1 {
		t.Fatalf("critical section overlap: %d goroutines at once", maxInSection)
	}
}

func TestKeyedMutexDistinctKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()
	km.Lock("bus:1:2025-04-01")
	defer km.Unlock("bus:1:2025-04-01")

	done := make(chan struct{})
	go func() {
		km.Lock("bus:2:2025-04-01")
		km.Unlock("bus:2:2025-04-01")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a different key blocked behind an unrelated holder")
	}
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	km := NewKeyedMutex()
	for i := 0; i < 100; i++ {
		km.Lock("k")
		km.Unlock("k")
	}
	km.mu.Lock()
	n := len(km.entries)
	km.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected entry map to drain, %d entries remain", n)
	}
}
