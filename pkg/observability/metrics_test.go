package observability

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Recorders(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordACLDecision("stores", "delete", "deny")
	m.RecordACLDecision("stores", "delete", "deny")
	m.RecordACLDecision("stores", "read", "allow")
	m.RecordCacheHit("roles")
	m.RecordCacheMiss("roles")
	m.RecordCacheMiss("roles")
	m.RecordSearch("search_stores", 10*time.Millisecond, nil)
	m.RecordSearch("search_stores", 10*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ACLDecisionsTotal.WithLabelValues("stores", "delete", "deny")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ACLDecisionsTotal.WithLabelValues("stores", "read", "allow")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("roles")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("roles")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchRequestsTotal.WithLabelValues("search_stores", "error")))
}

func TestMetrics_RecordDBStats(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordDBStats(sql.DBStats{InUse: 3, Idle: 2, WaitCount: 7, WaitDuration: 2 * time.Second})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.DBConnectionsActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DBConnectionsIdle))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.DBConnectionsWaitCount))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DBConnectionsWaitDuration))
}

func TestHTTPMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(HTTPMetricsMiddleware(m))
	router.HandleFunc("/stores/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}).Methods(http.MethodGet)

	for _, id := range []string{"1", "2", "3"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/stores/"+id, nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/stores/{id}", "404")))
}

func TestRegisterMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.RecordCacheHit("categories")

	serveMux := http.NewServeMux()
	RegisterMetricsEndpoint(serveMux, registry)

	rr := httptest.NewRecorder()
	serveMux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `stores_cache_hits_total{cache="categories"} 1`))
}
