package models

// RangeFilter bounds a numeric value; nil ends are open
type RangeFilter struct {
	Min *float64 `json:"min_value,omitempty"`
	Max *float64 `json:"max_value,omitempty"`
}

// AttributeFilter matches variants by one attribute
type AttributeFilter struct {
	ID    int64        `json:"id"`
	Equal []string     `json:"equal,omitempty"`
	Range *RangeFilter `json:"range,omitempty"`
}

// ProductSearchOptions narrows a base product search
type ProductSearchOptions struct {
	CategoryID  *int64            `json:"category_id,omitempty"`
	CategoryIDs []int64           `json:"category_ids,omitempty"`
	StoreID     *int64            `json:"store_id,omitempty"`
	PriceFilter *RangeFilter      `json:"price_filter,omitempty"`
	AttrFilters []AttributeFilter `json:"attr_filters,omitempty"`
	Currency    *Currency         `json:"currency,omitempty"`
}

// ProductSearch is the body of a base product search request
type ProductSearch struct {
	Name    string                `json:"name"`
	Options *ProductSearchOptions `json:"options,omitempty"`
}

// AutoCompleteRequest is the body of an autocomplete request
type AutoCompleteRequest struct {
	Name    string `json:"name"`
	StoreID *int64 `json:"store_id,omitempty"`
}

// MostViewedRequest is the body of a most viewed or most discount request
type MostViewedRequest struct {
	Options *ProductSearchOptions `json:"options,omitempty"`
}

// PriceRange is the cheapest and most expensive variant price matching a search
type PriceRange struct {
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

// ProductFilters are the filter values present among the base products
// matching a search
type ProductFilters struct {
	CategoryIDs []int64           `json:"categories_ids"`
	AttrFilters []AttributeFilter `json:"attr_filters"`
	PriceFilter *RangeFilter      `json:"price_filter,omitempty"`
}
