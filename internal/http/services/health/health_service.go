// Package health reports liveness and dependency readiness.
package health

import (
	"context"
	"time"
)

// Pinger is satisfied by repository.Store and cache.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type CheckResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

type Report struct {
	Status  string        `json:"status"` // "ok" | "degraded"
	Version string        `json:"version,omitempty"`
	Checks  []CheckResult `json:"checks"`
}

func (r Report) Ready() bool { return r.Status == "ok" }

type Service interface {
	Readiness(ctx context.Context) Report
}

type Deps struct {
	Version string
	Timeout time.Duration
	Checks  map[string]Pinger
	// Order fixes the report order; names missing from Checks are skipped.
	Order []string
}

type service struct {
	deps Deps
}

func NewService(d Deps) Service {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	return &service{deps: d}
}

func (s *service) Readiness(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()

	rep := Report{Status: "ok", Version: s.deps.Version}
	for _, name := range s.deps.Order {
		p, ok := s.deps.Checks[name]
		if !ok || p == nil {
			continue
		}
		start := time.Now()
		err := p.Ping(ctx)
		res := CheckResult{Name: name, OK: err == nil, LatencyMs: time.Since(start).Milliseconds()}
		if err != nil {
			res.Error = err.Error()
			rep.Status = "degraded"
		}
		rep.Checks = append(rep.Checks, res)
	}
	return rep
}
