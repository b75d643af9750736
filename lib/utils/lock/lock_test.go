package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWithDelaySerializes(t *testing.T) {
	key := Key("test", "serialize")
	var inside int32
	var maxInside int32
	results := make([]bool, 5)
	errs := make([]error, 5)
	wg := sync.WaitGroup{}
	for n := 0; n < 5; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], errs[n] = WithDelay(context.Background(), key, 5*time.Second, func() error {
				current := atomic.AddInt32(&inside, 1)
				if current > atomic.LoadInt32(&maxInside) {
					atomic.StoreInt32(&maxInside, current)
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}(n)
	}
	wg.Wait()
	for n := range results {
		require.True(t, results[n])
		require.NoError(t, errs[n])
	}
	require.EqualValues(t, 1, maxInside)
}

func TestWithDelayTimeout(t *testing.T) {
	key := Key("test", "timeout")
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = WithDelay(context.Background(), key, time.Second, func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	called := false
	ok, err := WithDelay(context.Background(), key, 50*time.Millisecond, func() error {
		called = true
		return nil
	})
	close(release)
	require.False(t, ok)
	require.NoError(t, err)
	require.False(t, called)
}

func TestWithDelayReturnsCodeError(t *testing.T) {
	ok, err := WithDelay(context.Background(), Key("test", "error"), time.Second, func() error {
		return errors.New("boom")
	})
	require.True(t, ok)
	require.EqualError(t, err, "boom")
}
