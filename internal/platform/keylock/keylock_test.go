package keylock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	m := New()

	release, err := m.Acquire(context.Background(), "book-1", time.Second)
	require.NoError(t, err)
	release()

	// The entry is dropped once nobody holds or waits on the key.
	m.mu.Lock()
	assert.Empty(t, m.entries)
	m.mu.Unlock()
}

func TestAcquireTimesOutWhileHeld(t *testing.T) {
	m := New()

	release, err := m.Acquire(context.Background(), "book-1", time.Second)
	require.NoError(t, err)
	defer release()

	_, err = m.Acquire(context.Background(), "book-1", 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestDifferentKeysDoNotContend(t *testing.T) {
	m := New()

	release, err := m.Acquire(context.Background(), "book-1", time.Second)
	require.NoError(t, err)
	defer release()

	release2, err := m.Acquire(context.Background(), "book-2", 20*time.Millisecond)
	require.NoError(t, err)
	release2()
}

func TestAcquireRespectsContext(t *testing.T) {
	m := New()

	release, err := m.Acquire(context.Background(), "book-1", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Acquire(ctx, "book-1", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMutualExclusion(t *testing.T) {
	m := New()

	const workers = 32
	var counter int
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			release, err := m.Acquire(context.Background(), "book-1", 5*time.Second)
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			counter++
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestReleaseIsIdempotent(t *testing.T) {
	m := New()

	release, err := m.Acquire(context.Background(), "book-1", time.Second)
	require.NoError(t, err)
	release()
	release()

	release2, err := m.Acquire(context.Background(), "book-1", time.Second)
	require.NoError(t, err)
	release2()
}
