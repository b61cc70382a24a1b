package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultIdleTTL = time.Hour

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client. Each client may burst up to
// requests calls, refilled evenly over per. Clients idle for longer than the
// idle TTL are forgotten by a background loop until Stop is called.
type RateLimiter struct {
	mu          sync.Mutex
	limit       rate.Limit
	burst       int
	idleTTL     time.Duration
	clients     map[string]*client
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
	done        chan struct{}
}

func NewRateLimiter(requests int, per, idleTTL time.Duration) *RateLimiter {
	if requests < 1 {
		requests = 1
	}
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	rl := &RateLimiter{
		limit:       rate.Every(per / time.Duration(requests)),
		burst:       requests,
		idleTTL:     idleTTL,
		clients:     make(map[string]*client),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
		done:        make(chan struct{}),
	}
	go rl.cleanupLoop(idleTTL / 2)
	return rl
}

func (r *RateLimiter) cleanupLoop(interval time.Duration) {
	defer close(r.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for ip, c := range r.clients {
		if now.Sub(c.lastSeen) > r.idleTTL {
			delete(r.clients, ip)
		}
	}
}

// Stop ends the cleanup loop and waits for it to exit. It is safe to call
// more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
	<-r.done
}

func (r *RateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	c, ok := r.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (r *RateLimiter) clientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
