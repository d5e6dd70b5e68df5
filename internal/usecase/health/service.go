// Package health reports service and dependency readiness.
package health

import "context"

// Service runs dependency checks.
type Service struct {
	db DBPinger
}

// New creates a health service.
func New(db DBPinger) *Service {
	return &Service{db: db}
}

// Check pings dependencies and aggregates the results. Any failed check
// makes the report unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckResult{Status: CheckError, Error: err.Error()}
		status = Unhealthy
	} else {
		checks["database"] = CheckResult{Status: CheckOK}
	}

	return Report{Status: status, Checks: checks}
}
