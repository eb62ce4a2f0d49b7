package process

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResult_OK tests the success predicate on results.
func TestResult_OK(t *testing.T) {
	assert.True(t, Result{}.OK())
	assert.True(t, Success("done").OK())
	assert.False(t, Failure(1, "boom").OK())
	assert.False(t, Failure(2, "boom").OK())
}

// TestFailure_CoercesZeroStatus tests that a failure never carries status 0.
func TestFailure_CoercesZeroStatus(t *testing.T) {
	res := Failure(0, "boom")
	assert.Equal(t, 1, res.StatusCode)
	assert.Equal(t, "boom", res.Error)
}

// TestFailuref tests formatted failure construction.
func TestFailuref(t *testing.T) {
	res := Failuref("service %s down", "db")
	assert.Equal(t, 1, res.StatusCode)
	assert.Equal(t, "service db down", res.Error)
}

// TestRunner_Run_Success tests that a successful command produces its output
// and status 0.
func TestRunner_Run_Success(t *testing.T) {
	runner := NewRunner(false)

	res := runner.Run(context.Background(), []string{"sh", "-c", "echo hello"}, nil)

	require.True(t, res.OK())
	assert.Equal(t, "hello\n", res.Output)
	assert.Empty(t, res.Error)
}

// TestRunner_Run_NonZeroExit tests that a failing command is reported as data
// rather than as an error.
func TestRunner_Run_NonZeroExit(t *testing.T) {
	runner := NewRunner(false)

	res := runner.Run(context.Background(), []string{"sh", "-c", "echo oops >&2; exit 3"}, nil)

	assert.Equal(t, 3, res.StatusCode)
	assert.Contains(t, res.Error, "oops")
}

// TestRunner_Run_MissingBinary tests that an unrunnable command still yields a
// structured result.
func TestRunner_Run_MissingBinary(t *testing.T) {
	runner := NewRunner(false)

	res := runner.Run(context.Background(), []string{"definitely-not-a-real-binary-42"}, nil)

	assert.False(t, res.OK())
	assert.Contains(t, res.Error, "definitely-not-a-real-binary-42")
}

// TestRunner_Run_EmptyCommand tests the empty argument vector edge case.
func TestRunner_Run_EmptyCommand(t *testing.T) {
	runner := NewRunner(false)

	res := runner.Run(context.Background(), nil, nil)

	assert.Equal(t, 1, res.StatusCode)
	assert.Equal(t, "empty command", res.Error)
}

// TestRunner_Run_OverlayWins tests that overlay keys shadow inherited
// environment variables.
func TestRunner_Run_OverlayWins(t *testing.T) {
	t.Setenv("INVENIO_TEST_VAR", "inherited")

	runner := NewRunner(false)
	res := runner.Run(
		context.Background(),
		[]string{"sh", "-c", "printf %s \"$INVENIO_TEST_VAR\""},
		map[string]string{"INVENIO_TEST_VAR": "overlay"},
	)

	require.True(t, res.OK())
	assert.Equal(t, "overlay", res.Output)
}

// TestRunner_Run_VerboseStreams tests that verbose mode mirrors output while
// still capturing it.
func TestRunner_Run_VerboseStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	runner := NewRunner(true)
	runner.Stdout = &stdout
	runner.Stderr = &stderr

	res := runner.Run(context.Background(), []string{"sh", "-c", "echo out; echo err >&2"}, nil)

	require.True(t, res.OK())
	assert.Equal(t, "out\n", res.Output)
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

// TestMergeEnviron tests overlay merging over an inherited environment.
func TestMergeEnviron(t *testing.T) {
	tests := []struct {
		name      string
		inherited []string
		overlay   map[string]string
		want      []string
	}{
		{
			name:      "no overlay returns inherited",
			inherited: []string{"A=1", "B=2"},
			overlay:   nil,
			want:      []string{"A=1", "B=2"},
		},
		{
			name:      "overlay adds new key",
			inherited: []string{"A=1"},
			overlay:   map[string]string{"B": "2"},
			want:      []string{"A=1", "B=2"},
		},
		{
			name:      "overlay shadows inherited key",
			inherited: []string{"A=1", "B=2"},
			overlay:   map[string]string{"A": "overlay"},
			want:      []string{"A=overlay", "B=2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeEnviron(tt.inherited, tt.overlay)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}
