package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/platinummonkey/stores/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCluster records the last query and answers with a canned body
type fakeCluster struct {
	mu     sync.Mutex
	path   string
	query  map[string]interface{}
	status int
	body   string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.path = r.URL.Path
	f.query = nil
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &f.query)
	}
	if f.status != 0 {
		w.WriteHeader(f.status)
	}
	_, _ = io.WriteString(w, f.body)
}

func (f *fakeCluster) respond(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.body = body
}

func (f *fakeCluster) lastPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}

func (f *fakeCluster) lastQuery() map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

type recordedSearch struct {
	op  string
	err error
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recordedSearch
}

func (r *fakeRecorder) RecordSearch(op string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedSearch{op: op, err: err})
}

func newTestClient(t *testing.T, cluster *fakeCluster, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(cluster)
	t.Cleanup(server.Close)
	c, err := New(server.URL, 5*time.Second, opts...)
	require.NoError(t, err)
	return c
}

const hitsBody = `{"hits": {"total": {"value": 2, "relation": "eq"}, "hits": [{"_id": "7"}, {"_id": "3"}]}}`

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("ftp://example.com", time.Second)
	assert.Error(t, err)
}

func TestNilClientIsDisabled(t *testing.T) {
	var c *Client
	ctx := context.Background()

	_, err := c.SearchStores(ctx, models.StoreSearch{Name: "acme"}, 10, 0)
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = c.PriceRange(ctx, models.ProductSearch{})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, c.Ping(ctx), ErrDisabled)
}

func TestSearchStores(t *testing.T) {
	cluster := &fakeCluster{body: hitsBody}
	recorder := &fakeRecorder{}
	c := newTestClient(t, cluster, WithRecorder(recorder))

	country := "NL"
	ids, err := c.SearchStores(context.Background(), models.StoreSearch{
		Name:    "acme",
		Options: &models.StoreSearchOptions{Country: &country},
	}, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 3}, ids)
	assert.Equal(t, "/stores/_search", cluster.lastPath())

	q := cluster.lastQuery()
	assert.EqualValues(t, 10, q["size"])
	assert.EqualValues(t, 20, q["from"])
	filter := q["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	assert.Len(t, filter, 2)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, "search_stores", recorder.events[0].op)
	assert.NoError(t, recorder.events[0].err)
}

func TestSearchBaseProducts_Filters(t *testing.T) {
	cluster := &fakeCluster{body: hitsBody}
	c := newTestClient(t, cluster)

	storeID := int64(5)
	lo, hi := 10.0, 50.0
	currency := models.CurrencyUSD
	_, err := c.SearchBaseProducts(context.Background(), models.ProductSearch{
		Name: "shirt",
		Options: &models.ProductSearchOptions{
			CategoryIDs: []int64{3, 4},
			StoreID:     &storeID,
			PriceFilter: &models.RangeFilter{Min: &lo, Max: &hi},
			Currency:    &currency,
			AttrFilters: []models.AttributeFilter{{ID: 9, Equal: []string{"XL"}}},
		},
	}, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "/products/_search", cluster.lastPath())

	q := cluster.lastQuery()
	_, hasFrom := q["from"]
	assert.False(t, hasFrom)
	filter := q["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	// status, categories, store, price, one attribute
	assert.Len(t, filter, 5)
}

func TestAutoComplete(t *testing.T) {
	cluster := &fakeCluster{body: `{"suggest": {"name_suggest": [{"options": [{"text": "Acme"}, {"text": "Acme Shoes"}]}]}}`}
	c := newTestClient(t, cluster)

	names, err := c.AutoCompleteStores(context.Background(), "ac", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Acme Shoes"}, names)

	storeID := int64(1)
	_, err = c.AutoCompleteProducts(context.Background(), models.AutoCompleteRequest{Name: "ac", StoreID: &storeID}, 5)
	require.NoError(t, err)
	completion := cluster.lastQuery()["suggest"].(map[string]interface{})["name_suggest"].(map[string]interface{})["completion"].(map[string]interface{})
	assert.Contains(t, completion, "contexts")
}

func TestStoreNameExists(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"object total", `{"hits": {"total": {"value": 1}, "hits": []}}`, true},
		{"numeric total", `{"hits": {"total": 0, "hits": []}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeCluster{body: tt.body})
			exists, err := c.StoreNameExists(context.Background(), "Acme")
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestMostViewedAndMostDiscount(t *testing.T) {
	cluster := &fakeCluster{body: hitsBody}
	c := newTestClient(t, cluster)

	ids, err := c.MostViewedBaseProducts(context.Background(), nil, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 3}, ids)
	assert.Contains(t, cluster.lastQuery(), "sort")

	_, err = c.MostDiscountBaseProducts(context.Background(), nil, 10, 0)
	require.NoError(t, err)
	filter := cluster.lastQuery()["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	assert.Len(t, filter, 2)
}

func TestPriceRange(t *testing.T) {
	cluster := &fakeCluster{body: `{"hits": {"total": 3, "hits": []},
		"aggregations": {"variants": {"doc_count": 3, "min_price": {"value": 4.5}, "max_price": {"value": 99}}}}`}
	c := newTestClient(t, cluster)

	r, err := c.PriceRange(context.Background(), models.ProductSearch{Name: "shirt"})
	require.NoError(t, err)
	assert.Equal(t, 4.5, r.MinPrice)
	assert.Equal(t, 99.0, r.MaxPrice)

	cluster.respond(`{"hits": {"total": 0, "hits": []}, "aggregations": {"variants": {"min_price": {"value": null}, "max_price": {"value": null}}}}`)
	r, err = c.PriceRange(context.Background(), models.ProductSearch{Name: "nothing"})
	require.NoError(t, err)
	assert.Zero(t, r.MinPrice)
	assert.Zero(t, r.MaxPrice)
}

func TestRemoteError(t *testing.T) {
	cluster := &fakeCluster{status: http.StatusServiceUnavailable, body: `{"error": "cluster_block_exception"}`}
	recorder := &fakeRecorder{}
	c := newTestClient(t, cluster, WithRecorder(recorder))

	_, err := c.SearchBaseProducts(context.Background(), models.ProductSearch{Name: "x"}, 1, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)

	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusServiceUnavailable, remote.StatusCode)
	assert.Contains(t, remote.Body, "cluster_block_exception")

	require.Len(t, recorder.events, 1)
	assert.Error(t, recorder.events[0].err)
}

func TestMalformedDocumentID(t *testing.T) {
	c := newTestClient(t, &fakeCluster{body: `{"hits": {"hits": [{"_id": "abc"}]}}`})

	_, err := c.SearchStores(context.Background(), models.StoreSearch{Name: "x"}, 1, 0)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRemote))
}

func TestPing(t *testing.T) {
	cluster := &fakeCluster{body: `{"cluster_name": "test"}`}
	c := newTestClient(t, cluster)
	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, "/", cluster.lastPath())
}
