// Package health serves the /livez and /readyz probes.
//
// Registered checks run on one shared background ticker. A check has to fail
// three times in a row before it takes its probe down, so a single timeout
// does not flap the service out of the load balancer; one success brings it
// back.
package health

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

// CheckFunc reports the health of one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// downAfter is the consecutive-failure count that marks a check down.
const downAfter = 3

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	mu     sync.Mutex
	fails  int
	down   bool
	reason string
}

// run executes the check once and folds the result into the failure streak.
func (c *check) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	err := c.fn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.fails = 0
		c.down = false
		c.reason = ""
		return
	}
	c.fails++
	c.reason = err.Error()
	if c.fails >= downAfter {
		c.down = true
	}
}

func (c *check) status() (down bool, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.down {
		return false, ""
	}
	if c.reason == "" {
		return true, "check failed"
	}
	return true, c.reason
}

// Service runs health checks and serves the probe endpoints. The zero state
// is not ready; call SetReady(true) once initialization finishes and
// SetReady(false) to drain before shutdown.
type Service struct {
	ready atomic.Bool

	mu        sync.Mutex
	liveness  []*check
	readiness []*check
	stop      context.CancelFunc
}

func New() *Service {
	return &Service{}
}

// AddLivenessCheck registers a check for /livez. Liveness failures mean the
// process itself is broken and should be restarted.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, &check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check for /readyz. Readiness failures mean a
// dependency is unavailable and traffic should be routed elsewhere.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, &check{name: name, timeout: timeout, fn: fn})
}

// Start runs every registered check once, then again on each tick, until the
// context is cancelled or Stop is called. Register all checks before Start.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.stop = cancel
	checks := append(slices.Clone(s.liveness), s.readiness...)
	s.mu.Unlock()

	go func() {
		for _, c := range checks {
			c.run(ctx)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, c := range checks {
					c.run(ctx)
				}
			}
		}
	}()
}

// Stop cancels the background check loop. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// SetReady flips the manual readiness gate.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the service accepts traffic: the manual gate is
// open and no readiness check is down.
func (s *Service) IsReady() bool {
	if !s.ready.Load() {
		return false
	}
	for _, c := range s.snapshot(&s.readiness) {
		if down, _ := c.status(); down {
			return false
		}
	}
	return true
}

// LiveEndpoint handles /livez: 200 while every liveness check is up, 503
// with the failing checks otherwise.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, failures(s.snapshot(&s.liveness)))
}

// ReadyEndpoint handles /readyz: 200 once SetReady(true) was called and
// every readiness check is up, 503 with the reasons otherwise.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	fails := failures(s.snapshot(&s.readiness))
	if !s.ready.Load() {
		fails["service"] = "not marked ready"
	}
	writeStatus(w, fails)
}

func (s *Service) snapshot(checks *[]*check) []*check {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(*checks)
}

func failures(checks []*check) map[string]string {
	fails := make(map[string]string)
	for _, c := range checks {
		if down, reason := c.status(); down {
			fails[c.name] = reason
		}
	}
	return fails
}

func writeStatus(w http.ResponseWriter, fails map[string]string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		if len(fails) == 0 {
			e.Field("status", func(e *jx.Encoder) { e.Str("ok") })
			return
		}
		e.Field("status", func(e *jx.Encoder) { e.Str("unhealthy") })
		e.Field("checks", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				for _, name := range slices.Sorted(maps.Keys(fails)) {
					e.Field(name, func(e *jx.Encoder) { e.Str(fails[name]) })
				}
			})
		})
	})

	w.Header().Set("Content-Type", "application/json")
	if len(fails) == 0 {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_, _ = w.Write(e.Bytes())
}
