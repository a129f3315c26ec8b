package ports

import "context"

// HealthChecker reports whether an external dependency is reachable. The
// health endpoint aggregates one checker per dependency.
type HealthChecker interface {
	// Ping verifies connectivity, returning nil when healthy.
	Ping(ctx context.Context) error
	// Name identifies the dependency, e.g. "postgresql" or "redis".
	Name() string
}
