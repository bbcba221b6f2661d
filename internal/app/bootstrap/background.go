// internal/app/bootstrap/background.go
package bootstrap

import (
	"sync"

	"github.com/dalemusser/bulletin/internal/app/system/ratelimit"
)

// BuildHandler receives DBDeps by value, so goroutine owners it starts are
// tracked here and stopped by Shutdown.
var background struct {
	mu       sync.Mutex
	limiters []*ratelimit.Limiter
}

func trackLimiter(l *ratelimit.Limiter) *ratelimit.Limiter {
	background.mu.Lock()
	defer background.mu.Unlock()
	background.limiters = append(background.limiters, l)
	return l
}

func stopBackground() {
	background.mu.Lock()
	defer background.mu.Unlock()
	for _, l := range background.limiters {
		l.Stop()
	}
	background.limiters = nil
}
