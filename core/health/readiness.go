package health

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/response"
)

// Check probes one dependency.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

// DefaultTimeout bounds a readiness probe run.
const DefaultTimeout = 5 * time.Second

// Readiness runs every check concurrently within DefaultTimeout. It answers
// 200 with each check's status when all pass and 503 otherwise. Failures are
// logged, never exposed.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	if log == nil {
		log = logger.Nop()
	}

	return func(ctx C) handler.Response {
		probeCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()

		var (
			mu     sync.Mutex
			status = make(map[string]string, len(checks))
			failed bool
		)
		g := new(errgroup.Group)
		for _, c := range checks {
			g.Go(func() error {
				err := c.Probe(probeCtx)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed = true
					status[c.Name] = "unavailable"
					log.ErrorContext(ctx, "readiness check failed",
						logger.Component("health"),
						slog.String("check", c.Name),
						logger.Error(err))
					return nil
				}
				status[c.Name] = "ok"
				return nil
			})
		}
		_ = g.Wait()

		if failed {
			return response.JSONWithStatus(status, http.StatusServiceUnavailable)
		}
		return response.JSON(status)
	}
}
