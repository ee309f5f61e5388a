package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const checkTimeout = 5 * time.Second

// PoolStats summarizes connection pool pressure for the health endpoint.
type PoolStats struct {
	InUse        int32  `json:"in_use"`
	Idle         int32  `json:"idle"`
	Max          int32  `json:"max"`
	WaitCount    int64  `json:"wait_count"`
	WaitDuration string `json:"wait_duration"`
}

func poolStats(pool *pgxpool.Pool) PoolStats {
	stat := pool.Stat()
	return PoolStats{
		InUse:        stat.AcquiredConns(),
		Idle:         stat.IdleConns(),
		Max:          stat.MaxConns(),
		WaitCount:    stat.EmptyAcquireCount(),
		WaitDuration: stat.AcquireDuration().String(),
	}
}

// Check is a named dependency check run by the health endpoint, for
// dependencies beyond the database itself (client state storage, caches).
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// buildHealth folds check results into a response body and status code.
// Any failing check degrades the whole service to 503.
func buildHealth(pingErr error, stats PoolStats, results map[string]error) (int, map[string]interface{}) {
	code := http.StatusOK

	database := map[string]interface{}{
		"status": "ok",
		"pool":   stats,
	}
	if pingErr != nil {
		code = http.StatusServiceUnavailable
		database["status"] = "error"
		database["error"] = pingErr.Error()
	}

	checks := map[string]string{}
	for name, err := range results {
		if err != nil {
			code = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	status := "ok"
	if code != http.StatusOK {
		status = "degraded"
	}
	body := map[string]interface{}{
		"status":   status,
		"database": database,
	}
	if len(checks) > 0 {
		body["checks"] = checks
	}
	return code, body
}

// HealthHandler reports database reachability, pool pressure, and the outcome
// of each registered dependency check.
func HealthHandler(pool *pgxpool.Pool, checks ...Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), checkTimeout)
		defer cancel()

		pingErr := pool.Ping(ctx)

		results := make(map[string]error, len(checks))
		for _, chk := range checks {
			results[chk.Name] = chk.Run(ctx)
		}

		code, body := buildHealth(pingErr, poolStats(pool), results)
		return c.JSON(code, body)
	}
}
