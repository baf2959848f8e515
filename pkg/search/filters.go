package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/platinummonkey/stores/pkg/models"
)

// maxBuckets bounds every terms aggregation
const maxBuckets = 1000

type bucket struct {
	Key json.RawMessage `json:"key"`
}

type terms struct {
	Buckets []bucket `json:"buckets"`
}

type metric struct {
	Value *float64 `json:"value"`
}

func termsOf(field string) M {
	return M{"terms": M{"field": field, "size": maxBuckets}}
}

// intKeys reads bucket keys of a numeric field
func (t terms) intKeys() ([]int64, error) {
	out := make([]int64, 0, len(t.Buckets))
	for _, b := range t.Buckets {
		var id int64
		if err := json.Unmarshal(b.Key, &id); err != nil {
			return nil, fmt.Errorf("unexpected bucket key %s: %w", b.Key, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// stringKeys reads bucket keys of a keyword field
func (t terms) stringKeys() ([]string, error) {
	out := make([]string, 0, len(t.Buckets))
	for _, b := range t.Buckets {
		var s string
		if err := json.Unmarshal(b.Key, &s); err != nil {
			return nil, fmt.Errorf("unexpected bucket key %s: %w", b.Key, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// aggregate runs query without hits and decodes the named aggregation into out
func (c *Client) aggregate(ctx context.Context, op, index string, query M, name string, agg M, out interface{}) error {
	body := M{
		"size":         0,
		"_source":      false,
		"query":        query,
		"aggregations": M{name: agg},
	}
	res, err := c.search(ctx, op, index, body)
	if err != nil {
		return err
	}
	raw, ok := res.Aggregations[name]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to %s: failed to decode aggregation: %w", op, err)
	}
	return nil
}

func (c *Client) count(ctx context.Context, op, index string, query M) (int64, error) {
	body := M{"size": 0, "_source": false, "track_total_hits": true, "query": query}
	res, err := c.search(ctx, op, index, body)
	if err != nil {
		return 0, err
	}
	return res.Hits.count(), nil
}

// CountStores returns how many published stores match s
func (c *Client) CountStores(ctx context.Context, s models.StoreSearch) (int64, error) {
	return c.count(ctx, "count_stores", StoresIndex, storeQuery(s))
}

// StoreCountries returns the countries of the published stores matching s
func (c *Client) StoreCountries(ctx context.Context, s models.StoreSearch) ([]string, error) {
	var agg terms
	if err := c.aggregate(ctx, "store_countries", StoresIndex, storeQuery(s), "countries", termsOf("country"), &agg); err != nil {
		return nil, err
	}
	countries, err := agg.stringKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to store_countries: %w", err)
	}
	sort.Strings(countries)
	return countries, nil
}

// StoreCategories returns the ids of the categories used by the published stores matching s
func (c *Client) StoreCategories(ctx context.Context, s models.StoreSearch) ([]int64, error) {
	var agg terms
	if err := c.aggregate(ctx, "store_categories", StoresIndex, storeQuery(s), "categories", termsOf("category_ids"), &agg); err != nil {
		return nil, err
	}
	ids, err := agg.intKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to store_categories: %w", err)
	}
	return ids, nil
}

// CountBaseProducts returns how many published base products match s
func (c *Client) CountBaseProducts(ctx context.Context, s models.ProductSearch) (int64, error) {
	return c.count(ctx, "count_base_products", ProductsIndex, productQuery(s.Name, s.Options))
}

type attrBucket struct {
	Key       int64  `json:"key"`
	StrValues terms  `json:"str_values"`
	MinFloat  metric `json:"min_float"`
	MaxFloat  metric `json:"max_float"`
}

type variantAggregations struct {
	MinPrice metric `json:"min_price"`
	MaxPrice metric `json:"max_price"`
	Attrs    struct {
		ByAttr struct {
			Buckets []attrBucket `json:"buckets"`
		} `json:"by_attr"`
	} `json:"attrs"`
}

// ProductFilters collects the categories, attribute values and price bounds
// found among the published base products matching s. String attribute values
// become equal filters and float values become range filters.
func (c *Client) ProductFilters(ctx context.Context, s models.ProductSearch) (*models.ProductFilters, error) {
	const op = "product_filters"
	body := M{
		"size":    0,
		"_source": false,
		"query":   productQuery(s.Name, s.Options),
		"aggregations": M{
			"categories": termsOf("category_id"),
			"variants": M{
				"nested": M{"path": "variants"},
				"aggregations": M{
					"min_price": M{"min": M{"field": "variants.price"}},
					"max_price": M{"max": M{"field": "variants.price"}},
					"attrs": M{
						"nested": M{"path": "variants.attrs"},
						"aggregations": M{"by_attr": M{
							"terms": M{"field": "variants.attrs.attr_id", "size": maxBuckets},
							"aggregations": M{
								"str_values": termsOf("variants.attrs.str_val"),
								"min_float":  M{"min": M{"field": "variants.attrs.float_val"}},
								"max_float":  M{"max": M{"field": "variants.attrs.float_val"}},
							},
						}},
					},
				},
			},
		},
	}
	res, err := c.search(ctx, op, ProductsIndex, body)
	if err != nil {
		return nil, err
	}

	var (
		categories terms
		variants   variantAggregations
	)
	for name, dest := range map[string]interface{}{"categories": &categories, "variants": &variants} {
		raw, ok := res.Aggregations[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dest); err != nil {
			return nil, fmt.Errorf("failed to %s: failed to decode %s aggregation: %w", op, name, err)
		}
	}

	ids, err := categories.intKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	out := &models.ProductFilters{CategoryIDs: ids, AttrFilters: []models.AttributeFilter{}}
	if variants.MinPrice.Value != nil && variants.MaxPrice.Value != nil {
		out.PriceFilter = &models.RangeFilter{Min: variants.MinPrice.Value, Max: variants.MaxPrice.Value}
	}
	for _, b := range variants.Attrs.ByAttr.Buckets {
		values, err := b.StrValues.stringKeys()
		if err != nil {
			return nil, fmt.Errorf("failed to %s: attribute %d: %w", op, b.Key, err)
		}
		filter := models.AttributeFilter{ID: b.Key}
		if len(values) > 0 {
			sort.Strings(values)
			filter.Equal = values
		}
		if b.MinFloat.Value != nil && b.MaxFloat.Value != nil {
			filter.Range = &models.RangeFilter{Min: b.MinFloat.Value, Max: b.MaxFloat.Value}
		}
		if filter.Equal == nil && filter.Range == nil {
			continue
		}
		out.AttrFilters = append(out.AttrFilters, filter)
	}
	sort.Slice(out.AttrFilters, func(i, j int) bool { return out.AttrFilters[i].ID < out.AttrFilters[j].ID })
	return out, nil
}
