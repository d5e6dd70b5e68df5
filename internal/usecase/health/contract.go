package health

import "context"

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Status is the aggregate health state.
type Status string

// Aggregate statuses.
const (
	Healthy   Status = "ok"
	Unhealthy Status = "error"
)

// Check statuses.
const (
	CheckOK    = "ok"
	CheckError = "error"
)

// CheckResult is the outcome of a single dependency check.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report aggregates dependency checks.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}
