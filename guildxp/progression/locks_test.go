package progression

import (
	"sync"
	"testing"
)

func TestLockManager_SerializesSameKey(t *testing.T) {
	var lm lockManager
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := lm.lock("user", "group")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestLockManager_IndependentKeysDoNotBlock(t *testing.T) {
	var lm lockManager

	unlockA := lm.lock("user-a", "group")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := lm.lock("user-b", "group")
		unlockB()
		close(done)
	}()

	<-done
}
