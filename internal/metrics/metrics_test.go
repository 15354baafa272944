package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelivery(t *testing.T) {
	m := New()

	m.Delivery("none", false)
	m.Delivery("none", true)
	m.Delivery("wide", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.deliveries.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("wide")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wickets))
}

func TestRejected_DefaultsCode(t *testing.T) {
	m := New()

	m.Rejected("record_delivery", "SEQUENCE")
	m.Rejected("record_delivery", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("record_delivery", "SEQUENCE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("record_delivery", "INTERNAL")))
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.InningsClosed()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.inningsClosed))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.inningsClosed))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Match("created")
	m.PublishFailed()
	m.Observe("record_delivery", time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `scorebook_matches_total{event="created"} 1`)
	assert.Contains(t, string(body), "scorebook_publish_failures_total 1")
	assert.Contains(t, string(body), `scorebook_operation_duration_seconds_count{operation="record_delivery"} 1`)
}
