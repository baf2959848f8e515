// Package search queries the Elasticsearch indexes of stores and base products.
//
// The client speaks the Elasticsearch REST API over net/http with an otelhttp
// transport. Every query returns ids or names only; callers hydrate entities
// through the repositories so authorization applies to search results too.
//
// # Indexes
//
// The stores index holds one document per store:
//
//	{"id": 1, "name": [{"lang": "en", "text": "Acme"}], "status": "published",
//	 "country": "NL", "category_ids": [3, 7], "suggest": {...}}
//
// The products index holds one document per base product with its variants
// nested:
//
//	{"id": 100, "store_id": 1, "category_id": 7, "views": 42, "status": "published",
//	 "name": [...], "suggest": {...},
//	 "variants": [{"prod_id": 1000, "price": 10.5, "currency": "USD",
//	               "discount": 0.1, "attrs": [{"attr_id": 3, "str_val": "XL"}]}]}
//
// Index ingestion happens outside this service.
//
// # Errors
//
// A nil *Client answers every query with ErrDisabled. Responses outside the 2xx
// range become a *RemoteError matching ErrRemote.
package search
