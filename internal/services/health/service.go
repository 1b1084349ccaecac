package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// Service encapsulates health-related checks.
type Service struct {
	mu      sync.RWMutex
	checks  map[string]Check
	timeout time.Duration
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{checks: map[string]Check{}, timeout: 2 * time.Second}
}

// Register adds a named dependency check.
func (s *Service) Register(name string, check Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Status runs every check and reports overall health plus per-check results.
func (s *Service) Status(ctx context.Context) (bool, map[string]string) {
	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)

	ok := true
	results := make(map[string]string, len(names))
	for _, name := range names {
		s.mu.RLock()
		check := s.checks[name]
		s.mu.RUnlock()

		checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := check(checkCtx)
		cancel()
		if err != nil {
			ok = false
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}
	return ok, results
}

// Handler serves the status as JSON; 503 when any check fails.
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, checks := s.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ok": ok, "checks": checks})
	}
}
