package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks the exposition output for a sample matching name,
// a partial label pattern and value. The exporter adds scope labels we ignore.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("biz_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "biz_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "clip", "secret_create", "success")
	bm.RecordOperation(ctx, "clip", "secret_create", "success")
	bm.RecordOperation(ctx, "clip", "secret_fetch", "error")
	bm.RecordDuration(ctx, "clip", "secret_create", 5*time.Millisecond, "success")
	bm.RecordDuration(ctx, "clip", "secret_create", 7*time.Millisecond, "success")

	output := scrape(t, provider)

	assertMetricLine(
		t, output, `biz_test_operations_total`,
		`domain="clip".*operation="secret_create".*status="success"`, `2`,
	)
	assertMetricLine(
		t, output, `biz_test_operations_total`,
		`domain="clip".*operation="secret_fetch".*status="error"`, `1`,
	)
	assertMetricLine(
		t, output, `biz_test_operation_duration_seconds_count`,
		`domain="clip".*operation="secret_create".*status="success"`, `2`,
	)
}

func TestRegisterStoreBackend(t *testing.T) {
	tests := []struct {
		name     string
		driver   string
		durable  bool
		expected string
	}{
		{"Durable", "redis", true, "1"},
		{"Fallback", "memory", false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider("store_test")
			require.NoError(t, err)

			require.NoError(t, RegisterStoreBackend(provider.MeterProvider(), "store_test", tt.driver, tt.durable))

			assertMetricLine(t, scrape(t, provider), `store_test_store_durable`, `driver="`+tt.driver+`"`, tt.expected)
		})
	}
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()

	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)
	noOp.RecordOperation(context.Background(), "clip", "secret_create", "success")
	noOp.RecordDuration(context.Background(), "clip", "secret_create", time.Millisecond, "success")
}
