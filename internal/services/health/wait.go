package health

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/max-moser/invenio-cli/internal/process"
)

// Status codes reported for a single point-in-time service probe.
const (
	// CodeHealthy means the service answered its health check.
	CodeHealthy = 0
	// CodeUnhealthy means the service failed its health check.
	CodeUnhealthy = 1
	// CodeNoCheck means no health check is registered for the service name.
	CodeNoCheck = 2
)

// WaitOptions bounds the readiness polling loop.
type WaitOptions struct {
	// MaxRetries is the number of probe attempts per service.
	MaxRetries int
	// Interval is the delay between consecutive attempts for one service.
	Interval time.Duration
}

// DefaultWaitOptions returns the polling budget used when the caller does not
// override it: up to 6 attempts per service, 5 seconds apart.
func DefaultWaitOptions() WaitOptions {
	return WaitOptions{
		MaxRetries: 6,
		Interval:   5 * time.Second,
	}
}

// WaitForServices polls every named service until it reports healthy or its
// attempt budget is exhausted. Services are probed concurrently and
// independently: one service exhausting its budget does not stop the probing
// of the others, and the returned result names every service that timed out,
// not just the first. Unknown service names are reported but do not fail the
// wait.
func (r Registry) WaitForServices(ctx context.Context, logger *slog.Logger, services []string, params Params, opts WaitOptions) process.Result {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultWaitOptions().MaxRetries
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultWaitOptions().Interval
	}

	var (
		mu      sync.Mutex
		failed  []string
		unknown []string
	)

	var wg sync.WaitGroup
	for _, service := range services {
		check, ok := r[service]
		if !ok {
			mu.Lock()
			unknown = append(unknown, service)
			mu.Unlock()
			if logger != nil {
				logger.Warn("no health check defined for service", "service", service)
			}
			continue
		}

		wg.Add(1)
		go func(service string, check Check) {
			defer wg.Done()
			if waitForService(ctx, logger, service, check, params, opts) {
				return
			}
			mu.Lock()
			failed = append(failed, service)
			mu.Unlock()
		}(service, check)
	}
	wg.Wait()

	if len(failed) > 0 {
		sort.Strings(failed)
		return process.Failure(1, fmt.Sprintf(
			"services not healthy after %d attempts: %s",
			opts.MaxRetries, strings.Join(failed, ", ")))
	}

	msg := "All services are up and healthy."
	if len(unknown) > 0 {
		sort.Strings(unknown)
		msg = fmt.Sprintf("Services are up; no health check defined for: %s.", strings.Join(unknown, ", "))
	}
	return process.Success(msg)
}

// waitForService probes one service with bounded retries and a fixed delay.
func waitForService(ctx context.Context, logger *slog.Logger, service string, check Check, params Params, opts WaitOptions) bool {
	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		result := check(ctx, params)
		if result.OK() {
			if logger != nil {
				logger.Debug("service is healthy", "service", service, "attempt", attempt)
			}
			return true
		}

		if logger != nil {
			logger.Debug("service not ready", "service", service, "attempt", attempt, "error", result.Error)
		}

		if attempt == opts.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(opts.Interval):
		}
	}
	return false
}

// Statuses probes each named service exactly once and returns one status code
// per service, in input order.
func (r Registry) Statuses(ctx context.Context, services []string, params Params) []int {
	codes := make([]int, 0, len(services))
	for _, service := range services {
		check, ok := r[service]
		if !ok {
			codes = append(codes, CodeNoCheck)
			continue
		}
		if check(ctx, params).OK() {
			codes = append(codes, CodeHealthy)
		} else {
			codes = append(codes, CodeUnhealthy)
		}
	}
	return codes
}
