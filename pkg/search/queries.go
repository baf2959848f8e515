package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/platinummonkey/stores/pkg/models"
)

// M is a JSON object in a query body
type M = map[string]interface{}

const (
	publishedStatus = string(models.StatusPublished)
	suggestName     = "name_suggest"
)

func nested(path string, query M) M {
	return M{"nested": M{"path": path, "query": query}}
}

func term(field string, value interface{}) M {
	return M{"term": M{field: value}}
}

func nameMatch(name string) M {
	return nested("name", M{"match": M{"name.text": name}})
}

func rangeOf(field string, r *models.RangeFilter) M {
	bounds := M{}
	if r.Min != nil {
		bounds["gte"] = *r.Min
	}
	if r.Max != nil {
		bounds["lte"] = *r.Max
	}
	return M{"range": M{field: bounds}}
}

// storeQuery builds the bool query shared by store searches
func storeQuery(s models.StoreSearch) M {
	must := []M{}
	if s.Name != "" {
		must = append(must, nameMatch(s.Name))
	}
	filter := []M{term("status", publishedStatus)}
	if o := s.Options; o != nil {
		if o.CategoryID != nil {
			filter = append(filter, term("category_ids", *o.CategoryID))
		}
		if o.Country != nil {
			filter = append(filter, term("country", *o.Country))
		}
	}
	return M{"bool": M{"must": must, "filter": filter}}
}

// productQuery builds the bool query shared by base product searches
func productQuery(name string, o *models.ProductSearchOptions) M {
	must := []M{}
	if name != "" {
		must = append(must, nameMatch(name))
	}
	filter := []M{term("status", publishedStatus)}
	if o == nil {
		return M{"bool": M{"must": must, "filter": filter}}
	}

	switch {
	case len(o.CategoryIDs) > 0:
		filter = append(filter, M{"terms": M{"category_id": o.CategoryIDs}})
	case o.CategoryID != nil:
		filter = append(filter, term("category_id", *o.CategoryID))
	}
	if o.StoreID != nil {
		filter = append(filter, term("store_id", *o.StoreID))
	}
	if o.PriceFilter != nil {
		price := []M{rangeOf("variants.price", o.PriceFilter)}
		if o.Currency != nil {
			price = append(price, term("variants.currency", string(*o.Currency)))
		}
		filter = append(filter, nested("variants", M{"bool": M{"filter": price}}))
	}
	for _, af := range o.AttrFilters {
		attr := []M{term("variants.attrs.attr_id", af.ID)}
		if len(af.Equal) > 0 {
			attr = append(attr, M{"terms": M{"variants.attrs.str_val": af.Equal}})
		}
		if af.Range != nil {
			attr = append(attr, rangeOf("variants.attrs.float_val", af.Range))
		}
		filter = append(filter, nested("variants.attrs", M{"bool": M{"filter": attr}}))
	}
	return M{"bool": M{"must": must, "filter": filter}}
}

func page(query M, count, offset int) M {
	body := M{"query": query, "size": count, "_source": false}
	if offset > 0 {
		body["from"] = offset
	}
	return body
}

func (c *Client) ids(ctx context.Context, op, index string, body M) ([]int64, error) {
	res, err := c.search(ctx, op, index, body)
	if err != nil {
		return nil, err
	}
	ids, err := res.Hits.ids()
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return ids, nil
}

func (c *Client) suggestions(ctx context.Context, op, index string, body M) ([]string, error) {
	res, err := c.search(ctx, op, index, body)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, s := range res.Suggest[suggestName] {
		for _, o := range s.Options {
			names = append(names, o.Text)
		}
	}
	return names, nil
}

// SearchStores returns the ids of published stores matching s, best match first
func (c *Client) SearchStores(ctx context.Context, s models.StoreSearch, count, offset int) ([]int64, error) {
	return c.ids(ctx, "search_stores", StoresIndex, page(storeQuery(s), count, offset))
}

// AutoCompleteStores returns up to count store names starting with name
func (c *Client) AutoCompleteStores(ctx context.Context, name string, count int) ([]string, error) {
	body := M{
		"_source": false,
		"suggest": M{suggestName: M{
			"prefix":     name,
			"completion": M{"field": "suggest", "size": count, "skip_duplicates": true},
		}},
	}
	return c.suggestions(ctx, "auto_complete_stores", StoresIndex, body)
}

// StoreNameExists reports whether a store already uses exactly name
func (c *Client) StoreNameExists(ctx context.Context, name string) (bool, error) {
	body := M{
		"size":    0,
		"query":   nested("name", M{"term": M{"name.text.keyword": name}}),
		"_source": false,
	}
	res, err := c.search(ctx, "store_name_exists", StoresIndex, body)
	if err != nil {
		return false, err
	}
	return res.Hits.count() > 0, nil
}

// SearchBaseProducts returns the ids of published base products matching s
func (c *Client) SearchBaseProducts(ctx context.Context, s models.ProductSearch, count, offset int) ([]int64, error) {
	return c.ids(ctx, "search_base_products", ProductsIndex, page(productQuery(s.Name, s.Options), count, offset))
}

// AutoCompleteProducts returns up to count product names starting with req.Name,
// limited to one store when req.StoreID is set
func (c *Client) AutoCompleteProducts(ctx context.Context, req models.AutoCompleteRequest, count int) ([]string, error) {
	completion := M{"field": "suggest", "size": count, "skip_duplicates": true}
	if req.StoreID != nil {
		completion["contexts"] = M{"store": []string{strconv.FormatInt(*req.StoreID, 10)}}
	}
	body := M{
		"_source": false,
		"suggest": M{suggestName: M{"prefix": req.Name, "completion": completion}},
	}
	return c.suggestions(ctx, "auto_complete_products", ProductsIndex, body)
}

// MostViewedBaseProducts returns base product ids ordered by views
func (c *Client) MostViewedBaseProducts(ctx context.Context, opts *models.ProductSearchOptions, count, offset int) ([]int64, error) {
	body := page(productQuery("", opts), count, offset)
	body["sort"] = []M{{"views": M{"order": "desc"}}}
	return c.ids(ctx, "most_viewed_base_products", ProductsIndex, body)
}

// MostDiscountBaseProducts returns discounted base product ids, largest discount first
func (c *Client) MostDiscountBaseProducts(ctx context.Context, opts *models.ProductSearchOptions, count, offset int) ([]int64, error) {
	query := productQuery("", opts)
	filter := query["bool"].(M)["filter"].([]M)
	filter = append(filter, nested("variants", M{"range": M{"variants.discount": M{"gt": 0}}}))
	query["bool"].(M)["filter"] = filter

	body := page(query, count, offset)
	body["sort"] = []M{{"variants.discount": M{
		"order":  "desc",
		"mode":   "max",
		"nested": M{"path": "variants"},
	}}}
	return c.ids(ctx, "most_discount_base_products", ProductsIndex, body)
}

// PriceRange returns the lowest and highest variant price among matching base products
func (c *Client) PriceRange(ctx context.Context, s models.ProductSearch) (*models.PriceRange, error) {
	body := M{
		"size":    0,
		"_source": false,
		"query":   productQuery(s.Name, s.Options),
		"aggregations": M{"variants": M{
			"nested": M{"path": "variants"},
			"aggregations": M{
				"min_price": M{"min": M{"field": "variants.price"}},
				"max_price": M{"max": M{"field": "variants.price"}},
			},
		}},
	}
	res, err := c.search(ctx, "price_range", ProductsIndex, body)
	if err != nil {
		return nil, err
	}

	var agg struct {
		Min struct {
			Value *float64 `json:"value"`
		} `json:"min_price"`
		Max struct {
			Value *float64 `json:"value"`
		} `json:"max_price"`
	}
	if raw, ok := res.Aggregations["variants"]; ok {
		if err := json.Unmarshal(raw, &agg); err != nil {
			return nil, fmt.Errorf("failed to decode price aggregation: %w", err)
		}
	}

	out := &models.PriceRange{}
	if agg.Min.Value != nil {
		out.MinPrice = *agg.Min.Value
	}
	if agg.Max.Value != nil {
		out.MaxPrice = *agg.Max.Value
	}
	return out, nil
}
