// Package health probes the readiness of the containerized services backing
// a project: cache, database and search index.
package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/max-moser/invenio-cli/internal/compose"
	"github.com/max-moser/invenio-cli/internal/process"
)

// Params carries the inputs every health check receives.
type Params struct {
	// Filepath is the container-topology descriptor used to resolve the
	// compose project and its service containers.
	Filepath string
	// Verbose streams probe command output to the terminal.
	Verbose bool
	// ProjectShortname is the compose project name.
	ProjectShortname string
}

// Check probes a single service once and reports the outcome as a Result.
type Check func(ctx context.Context, params Params) process.Result

// Registry maps a service identifier to its health-check strategy. The key
// set is fixed at process start; there is no runtime registration.
type Registry map[string]Check

// NewRegistry builds the registry for the closed set of known service kinds.
func NewRegistry() Registry {
	return Registry{
		"redis":      CheckRedis,
		"postgresql": CheckPostgres,
		"mysql":      CheckMySQL,
		"es":         CheckSearch,
	}
}

// searchHealthURL is the cluster health endpoint of the local search index.
// A yellow status is acceptable for single-node development clusters.
var searchHealthURL = "http://localhost:9200/_cluster/health?wait_for_status=yellow&timeout=5s"

// CheckRedis pings the cache container.
func CheckRedis(ctx context.Context, params Params) process.Result {
	return execProbe(ctx, params, "cache", "redis-cli", "ping")
}

// CheckPostgres asks the database container whether it accepts connections.
func CheckPostgres(ctx context.Context, params Params) process.Result {
	return execProbe(ctx, params, "db", "pg_isready")
}

// CheckMySQL pings the database container's server.
func CheckMySQL(ctx context.Context, params Params) process.Result {
	return execProbe(ctx, params, "db", "mysqladmin", "ping", "-h", "localhost")
}

// CheckSearch queries the search cluster health endpoint over HTTP.
func CheckSearch(ctx context.Context, params Params) process.Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchHealthURL, nil)
	if err != nil {
		return process.Failuref("build search health request: %v", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return process.Failuref("search cluster unreachable: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return process.Failure(1, fmt.Sprintf("search cluster unhealthy (HTTP %d): %s",
			resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return process.Success(strings.TrimSpace(string(body)))
}

// execProbe runs a probe command inside a service container of the project.
func execProbe(ctx context.Context, params Params, service string, command ...string) process.Result {
	runner := process.NewRunner(params.Verbose)
	args := compose.ExecArgs(params.Filepath, params.ProjectShortname, service, command...)
	return runner.Run(ctx, args, nil)
}
