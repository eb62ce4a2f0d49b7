package health

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/max-moser/invenio-cli/internal/process"
)

// flakyCheck fails until the given attempt number, then succeeds.
// succeedOn 0 means it never succeeds. The probe count is observable.
func flakyCheck(succeedOn int) (Check, *atomic.Int32) {
	var calls atomic.Int32
	check := func(context.Context, Params) process.Result {
		n := int(calls.Add(1))
		if succeedOn > 0 && n >= succeedOn {
			return process.Success("pong")
		}
		return process.Failure(1, "not ready")
	}
	return check, &calls
}

// testWaitOptions keeps polling fast in tests.
func testWaitOptions(retries int) WaitOptions {
	return WaitOptions{MaxRetries: retries, Interval: time.Millisecond}
}

// TestWaitForServices_SucceedsAfterKAttempts tests that a service becoming
// healthy on attempt k is probed exactly k times.
func TestWaitForServices_SucceedsAfterKAttempts(t *testing.T) {
	check, calls := flakyCheck(3)
	registry := Registry{"db": check}

	res := registry.WaitForServices(context.Background(), nil, []string{"db"}, Params{}, testWaitOptions(5))

	require.True(t, res.OK())
	assert.Equal(t, int32(3), calls.Load())
}

// TestWaitForServices_BudgetExhausted tests that a service never becoming
// healthy fails the wait after exactly the budgeted number of probes.
func TestWaitForServices_BudgetExhausted(t *testing.T) {
	check, calls := flakyCheck(0)
	registry := Registry{"db": check}

	start := time.Now()
	res := registry.WaitForServices(context.Background(), nil, []string{"db"}, Params{}, testWaitOptions(4))

	assert.False(t, res.OK())
	assert.Contains(t, res.Error, "db")
	assert.Equal(t, int32(4), calls.Load())
	// 4 attempts with 1ms delays must terminate well within the test timeout.
	assert.Less(t, time.Since(start), time.Second)
}

// TestWaitForServices_ReportsAllFailures tests that every timed-out service
// is named, not just the first.
func TestWaitForServices_ReportsAllFailures(t *testing.T) {
	okCheck, _ := flakyCheck(1)
	badCache, _ := flakyCheck(0)
	badSearch, _ := flakyCheck(0)
	registry := Registry{
		"redis":      badCache,
		"postgresql": okCheck,
		"es":         badSearch,
	}

	res := registry.WaitForServices(context.Background(), nil, []string{"redis", "postgresql", "es"}, Params{}, testWaitOptions(2))

	assert.False(t, res.OK())
	assert.Contains(t, res.Error, "es")
	assert.Contains(t, res.Error, "redis")
	assert.NotContains(t, res.Error, "postgresql")
}

// TestWaitForServices_MixedAttempts tests the scenario where two services are
// immediately healthy and one needs four attempts within a budget of five.
func TestWaitForServices_MixedAttempts(t *testing.T) {
	cache, cacheCalls := flakyCheck(1)
	db, dbCalls := flakyCheck(4)
	search, searchCalls := flakyCheck(1)
	registry := Registry{
		"redis":      cache,
		"postgresql": db,
		"es":         search,
	}

	res := registry.WaitForServices(context.Background(), nil, []string{"redis", "postgresql", "es"}, Params{}, testWaitOptions(5))

	require.True(t, res.OK())
	assert.Equal(t, int32(1), cacheCalls.Load())
	assert.Equal(t, int32(4), dbCalls.Load())
	assert.Equal(t, int32(1), searchCalls.Load())
}

// TestWaitForServices_UnknownService tests that a service without a
// registered check is reported but does not fail the wait.
func TestWaitForServices_UnknownService(t *testing.T) {
	check, _ := flakyCheck(1)
	registry := Registry{"redis": check}

	res := registry.WaitForServices(context.Background(), nil, []string{"redis", "mq"}, Params{}, testWaitOptions(2))

	require.True(t, res.OK())
	assert.Contains(t, res.Output, "mq")
}

// TestWaitForServices_ContextCancelled tests that cancellation stops the
// polling loop between attempts.
func TestWaitForServices_ContextCancelled(t *testing.T) {
	check, calls := flakyCheck(0)
	registry := Registry{"db": check}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := registry.WaitForServices(ctx, nil, []string{"db"}, Params{}, WaitOptions{MaxRetries: 100, Interval: time.Minute})

	assert.False(t, res.OK())
	assert.Equal(t, int32(1), calls.Load())
}

// TestStatuses tests single-probe status codes in input order.
func TestStatuses(t *testing.T) {
	healthy, _ := flakyCheck(1)
	unhealthy, _ := flakyCheck(0)
	registry := Registry{
		"redis":      healthy,
		"postgresql": unhealthy,
	}

	codes := registry.Statuses(context.Background(), []string{"redis", "postgresql", "mq"}, Params{})

	assert.Equal(t, []int{CodeHealthy, CodeUnhealthy, CodeNoCheck}, codes)
}

// TestStatuses_Idempotent tests that probing twice without state change
// yields identical output.
func TestStatuses_Idempotent(t *testing.T) {
	healthy := func(context.Context, Params) process.Result { return process.Success("pong") }
	unhealthy := func(context.Context, Params) process.Result { return process.Failure(1, "down") }
	registry := Registry{"redis": healthy, "es": unhealthy}

	services := []string{"redis", "es", "unknown"}
	first := registry.Statuses(context.Background(), services, Params{})
	second := registry.Statuses(context.Background(), services, Params{})

	assert.Equal(t, first, second)
}

// TestNewRegistry_ClosedSet tests the fixed service kinds of the default registry.
func TestNewRegistry_ClosedSet(t *testing.T) {
	registry := NewRegistry()

	for _, service := range []string{"redis", "postgresql", "mysql", "es"} {
		assert.Contains(t, registry, service)
	}
	assert.Len(t, registry, 4)
}
