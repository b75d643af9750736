package lock

import (
	"context"
	"strings"
	"sync"
	"time"
)

var (
	lockMap sync.Map
)

const retryInterval = 20 * time.Millisecond

// WithDelay runs safeCode while holding key. success is false when the key stayed busy
// for the whole wait or ctx was cancelled first, safeCode is not called in that case
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timeout := time.NewTimer(wait)
	defer timeout.Stop()
	for {
		if _, loaded := lockMap.LoadOrStore(key, struct{}{}); !loaded {
			break
		}
		select {
		case <-timeout.C:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(retryInterval):
		}
	}
	defer lockMap.Delete(key)
	return true, safeCode()
}

func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
