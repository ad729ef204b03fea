package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleAfter is how long a caller may stay silent before its limiter is dropped.
const idleAfter = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore keeps one token bucket per caller.
type limiterStore struct {
	mu        sync.Mutex
	perMinute int
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterStore(perMinute int) *limiterStore {
	return &limiterStore{
		perMinute: perMinute,
		visitors:  make(map[string]*visitor),
		now:       time.Now,
	}
}

// Allow reports whether the caller may proceed, consuming a token if so.
func (s *limiterStore) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > idleAfter {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) > idleAfter {
				delete(s.visitors, k)
			}
		}
		s.lastSweep = now
	}

	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}
