package search

import (
	"context"
	"testing"

	"github.com/platinummonkey/stores/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productAggsBody = `{"hits": {"total": {"value": 4}, "hits": []},
	"aggregations": {
		"categories": {"buckets": [{"key": 12, "doc_count": 3}, {"key": 7, "doc_count": 1}]},
		"variants": {
			"doc_count": 6,
			"min_price": {"value": 9.5},
			"max_price": {"value": 120},
			"attrs": {"doc_count": 9, "by_attr": {"buckets": [
				{"key": 5, "doc_count": 4, "str_values": {"buckets": []}, "min_float": {"value": 36}, "max_float": {"value": 44}},
				{"key": 2, "doc_count": 5, "str_values": {"buckets": [{"key": "red"}, {"key": "blue"}]}, "min_float": {"value": null}, "max_float": {"value": null}},
				{"key": 8, "doc_count": 1, "str_values": {"buckets": []}, "min_float": {"value": null}, "max_float": {"value": null}}
			]}}
		}
	}}`

func TestProductFilters(t *testing.T) {
	cluster := &fakeCluster{body: productAggsBody}
	recorder := &fakeRecorder{}
	c := newTestClient(t, cluster, WithRecorder(recorder))

	f, err := c.ProductFilters(context.Background(), models.ProductSearch{Name: "shoes"})
	require.NoError(t, err)

	assert.Equal(t, "/products/_search", cluster.lastPath())
	q := cluster.lastQuery()
	assert.EqualValues(t, 0, q["size"])
	assert.Contains(t, q["aggregations"], "categories")
	assert.Contains(t, q["aggregations"], "variants")

	assert.Equal(t, []int64{12, 7}, f.CategoryIDs)
	require.NotNil(t, f.PriceFilter)
	assert.Equal(t, 9.5, *f.PriceFilter.Min)
	assert.Equal(t, 120.0, *f.PriceFilter.Max)

	require.Len(t, f.AttrFilters, 2)
	assert.Equal(t, int64(2), f.AttrFilters[0].ID)
	assert.Equal(t, []string{"blue", "red"}, f.AttrFilters[0].Equal)
	assert.Nil(t, f.AttrFilters[0].Range)
	assert.Equal(t, int64(5), f.AttrFilters[1].ID)
	assert.Empty(t, f.AttrFilters[1].Equal)
	require.NotNil(t, f.AttrFilters[1].Range)
	assert.Equal(t, 36.0, *f.AttrFilters[1].Range.Min)
	assert.Equal(t, 44.0, *f.AttrFilters[1].Range.Max)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, "product_filters", recorder.events[0].op)
}

func TestProductFilters_NoMatches(t *testing.T) {
	c := newTestClient(t, &fakeCluster{body: `{"hits": {"total": 0, "hits": []}}`})

	f, err := c.ProductFilters(context.Background(), models.ProductSearch{Name: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, f.CategoryIDs)
	assert.Empty(t, f.AttrFilters)
	assert.Nil(t, f.PriceFilter)
}

func TestProductFilters_MalformedBucket(t *testing.T) {
	c := newTestClient(t, &fakeCluster{body: `{"hits": {"hits": []},
		"aggregations": {"categories": {"buckets": [{"key": "twelve"}]}}}`})

	_, err := c.ProductFilters(context.Background(), models.ProductSearch{})
	assert.Error(t, err)
}

func TestCounts(t *testing.T) {
	cluster := &fakeCluster{body: `{"hits": {"total": {"value": 42, "relation": "eq"}, "hits": []}}`}
	c := newTestClient(t, cluster)
	ctx := context.Background()

	n, err := c.CountBaseProducts(ctx, models.ProductSearch{Name: "shirt"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, "/products/_search", cluster.lastPath())
	assert.Equal(t, true, cluster.lastQuery()["track_total_hits"])

	n, err = c.CountStores(ctx, models.StoreSearch{Name: "acme"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, "/stores/_search", cluster.lastPath())
}

func TestStoreFilters(t *testing.T) {
	cluster := &fakeCluster{}
	c := newTestClient(t, cluster)
	ctx := context.Background()

	cluster.respond(`{"hits": {"hits": []}, "aggregations": {"countries": {"buckets": [{"key": "RU"}, {"key": "DE"}]}}}`)
	countries, err := c.StoreCountries(ctx, models.StoreSearch{Name: "acme"})
	require.NoError(t, err)
	assert.Equal(t, []string{"DE", "RU"}, countries)
	countryAgg := cluster.lastQuery()["aggregations"].(map[string]interface{})["countries"].(map[string]interface{})
	assert.Equal(t, "country", countryAgg["terms"].(map[string]interface{})["field"])

	cluster.respond(`{"hits": {"hits": []}, "aggregations": {"categories": {"buckets": [{"key": 3}, {"key": 11}]}}}`)
	ids, err := c.StoreCategories(ctx, models.StoreSearch{Name: "acme"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 11}, ids)
}

func TestFiltersDisabled(t *testing.T) {
	var c *Client
	ctx := context.Background()

	_, err := c.ProductFilters(ctx, models.ProductSearch{})
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = c.CountStores(ctx, models.StoreSearch{})
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = c.StoreCountries(ctx, models.StoreSearch{})
	assert.ErrorIs(t, err, ErrDisabled)
}
