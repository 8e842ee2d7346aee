package filters

import (
	"sync"
	"time"

	"mesto-restful/apperr"

	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
	ips      *ClientIPResolver
	logger   *zap.Logger
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests per window for each client, refilled evenly.
// Clients are told apart by ips; nil keys on the peer address.
func NewRateLimiter(requests int, window time.Duration, ips *ClientIPResolver, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		idleTTL:  window,
		now:      time.Now,
		ips:      ips,
		logger:   logger,
	}
}

// Allow consumes one token for key.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Sweep forgets clients idle for longer than one window.
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idleTTL)
	for key, v := range rl.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Run sweeps periodically until stop is closed.
func (rl *RateLimiter) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(rl.idleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}

// Filter rejects clients that ran out of tokens.
func (rl *RateLimiter) Filter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	ip := rl.ips.ClientIP(req.Request)
	if !rl.Allow(ip) {
		rl.logger.Warn("Rate limit exceeded", zap.String("client_ip", ip), zap.String("path", req.Request.URL.Path))
		apperr.WriteResponse(resp, apperr.RateLimited("Too many requests, please try again later"), rl.logger)
		return
	}
	chain.ProcessFilter(req, resp)
}
