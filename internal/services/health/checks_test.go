package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCheckSearch tests the HTTP probe against a stubbed cluster health endpoint.
func TestCheckSearch(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		wantOK bool
	}{
		{
			name:   "healthy cluster",
			status: http.StatusOK,
			body:   `{"status":"green"}`,
			wantOK: true,
		},
		{
			name:   "unhealthy cluster",
			status: http.StatusServiceUnavailable,
			body:   `{"status":"red"}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			orig := searchHealthURL
			searchHealthURL = srv.URL
			defer func() { searchHealthURL = orig }()

			res := CheckSearch(context.Background(), Params{})

			if tt.wantOK {
				require.True(t, res.OK())
				assert.Contains(t, res.Output, "green")
				return
			}
			assert.Equal(t, 1, res.StatusCode)
			assert.Contains(t, res.Error, "red")
		})
	}
}

// TestCheckSearch_Unreachable tests that a connection failure is reported as
// data, not raised.
func TestCheckSearch_Unreachable(t *testing.T) {
	orig := searchHealthURL
	searchHealthURL = "http://127.0.0.1:1/_cluster/health"
	defer func() { searchHealthURL = orig }()

	res := CheckSearch(context.Background(), Params{})

	assert.False(t, res.OK())
	assert.Contains(t, res.Error, "unreachable")
}
