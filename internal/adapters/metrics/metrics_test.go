package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCast(t *testing.T) {
	m := New()

	m.ObserveCast("created")
	m.ObserveCast("created")
	m.ObserveCast("dropped")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.casts.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.casts.WithLabelValues("dropped")))
}

func TestHandlerExposesCasts(t *testing.T) {
	m := New()
	m.ObserveCast("changed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `polls_vote_casts_total{outcome="changed"} 1`)
}
