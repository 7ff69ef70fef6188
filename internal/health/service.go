package health

import (
	"context"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for health check. If nil, database is reported as
// disconnected.
type DBPinger interface {
	Ping() error
}

// CollectResult is the /health/json shape.
type CollectResult struct {
	Status       string               `json:"status"`
	GoVersion    string               `json:"goVersion"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// CollectHealth pings the database and Redis.
func CollectHealth(ctx context.Context, rdb *redis.Client, db DBPinger) CollectResult {
	result := CollectResult{
		GoVersion:    runtime.Version(),
		Dependencies: make(map[string]DepStatus),
	}

	result.Dependencies["database"] = ping(func() error {
		if db == nil {
			return errNotConfigured
		}
		return db.Ping()
	})
	result.Dependencies["redis"] = ping(func() error {
		if rdb == nil {
			return errNotConfigured
		}
		return rdb.Ping(ctx).Err()
	})

	result.Status = "ok"
	for _, dep := range result.Dependencies {
		if dep.Status != "connected" {
			result.Status = "issue"
		}
	}
	return result
}

type notConfigured struct{}

func (notConfigured) Error() string { return "not configured" }

var errNotConfigured = notConfigured{}

func ping(f func() error) DepStatus {
	start := time.Now()
	if err := f(); err != nil {
		return DepStatus{Status: "disconnected"}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: "connected", PingMs: &ms}
}
