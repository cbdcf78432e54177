package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager_Acquire_MutualExclusion(t *testing.T) {
	m := NewManager()

	var mu sync.Mutex
	var order []int
	var inside, maxInside int
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			release := m.Acquire([]byte("k"))
			defer release()

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			order = append(order, i)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}(i)
	}

	wg.Wait()
	assert.Len(t, order, 5)
	assert.Equal(t, 1, maxInside)
}

func TestManager_AcquireMulti_DedupesSameKey(t *testing.T) {
	m := NewManager()

	release := m.AcquireMulti([]byte("same"), []byte("same"))
	done := make(chan struct{})
	go func() {
		r2 := m.Acquire([]byte("same"))
		r2()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected Acquire to block while AcquireMulti holds the lock")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	<-done
}

func TestManager_AcquireMulti_LocksEveryKey(t *testing.T) {
	m := NewManager()

	release := m.AcquireMulti([]byte("b"), []byte("a"))
	defer release()

	acquired := make(chan struct{})
	go func() {
		r := m.Acquire([]byte("a"))
		r()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("expected \"a\" to still be locked")
	case <-time.After(10 * time.Millisecond):
	}
}
