package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/stores/pkg/httputil"
	"github.com/platinummonkey/stores/pkg/models"
)

type currencyRequest struct {
	Currency models.Currency `json:"currency"`
}

func (s *Server) registerBaseProductRoutes(router *mux.Router) {
	router.HandleFunc("/base_products", s.listBaseProducts).Methods("GET")
	router.HandleFunc("/base_products", s.createBaseProduct).Methods("POST")
	router.HandleFunc("/base_products/by_product/{id:[0-9]+}", s.getBaseProductByProduct).Methods("GET")
	router.HandleFunc("/base_products/search", s.searchBaseProducts).Methods("POST")
	router.HandleFunc("/base_products/search/filters/price", s.searchPriceRange).Methods("POST")
	router.HandleFunc("/base_products/search/filters/category", s.searchFiltersCategories).Methods("POST")
	router.HandleFunc("/base_products/search/filters/attributes", s.searchFiltersAttributes).Methods("POST")
	router.HandleFunc("/base_products/search/filters/count", s.searchFiltersCount).Methods("POST")
	router.HandleFunc("/base_products/auto_complete", s.autoCompleteProducts).Methods("POST")
	router.HandleFunc("/base_products/most_viewed", s.mostViewedBaseProducts).Methods("POST")
	router.HandleFunc("/base_products/most_discount", s.mostDiscountBaseProducts).Methods("POST")
	router.HandleFunc("/base_products/{id:[0-9]+}", s.getBaseProduct).Methods("GET")
	router.HandleFunc("/base_products/{id:[0-9]+}", s.updateBaseProduct).Methods("PUT")
	router.HandleFunc("/base_products/{id:[0-9]+}", s.deactivateBaseProduct).Methods("DELETE")
	router.HandleFunc("/base_products/{id:[0-9]+}/with_variants", s.getBaseProductWithVariants).Methods("GET")
	router.HandleFunc("/base_products/{id:[0-9]+}/update_view", s.incrementBaseProductViews).Methods("POST")
	router.HandleFunc("/base_products/{id:[0-9]+}/currency", s.setBaseProductCurrency).Methods("PUT")
	router.HandleFunc("/base_products/{id:[0-9]+}/moderate", s.moderateBaseProduct).Methods("PUT")
}

func (s *Server) listBaseProducts(w http.ResponseWriter, r *http.Request) {
	page, ok := httputil.ParsePageOrError(w, r, "from")
	if !ok {
		return
	}
	products, err := s.svc.ListBaseProducts(r.Context(), page.From, page.Count)
	writeResult(w, r, http.StatusOK, products, err)
}

func (s *Server) getBaseProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	bp, err := s.svc.GetBaseProduct(r.Context(), id)
	writeResult(w, r, http.StatusOK, bp, err)
}

func (s *Server) getBaseProductWithVariants(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	bp, err := s.svc.GetBaseProductWithVariants(r.Context(), id)
	writeResult(w, r, http.StatusOK, bp, err)
}

func (s *Server) getBaseProductByProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	bp, err := s.svc.GetBaseProductByProduct(r.Context(), id)
	writeResult(w, r, http.StatusOK, bp, err)
}

func (s *Server) createBaseProduct(w http.ResponseWriter, r *http.Request) {
	var payload models.NewBaseProductWithVariants
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	bp, err := s.svc.CreateBaseProduct(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, bp, err)
}

func (s *Server) updateBaseProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var payload models.UpdateBaseProduct
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	bp, err := s.svc.UpdateBaseProduct(r.Context(), id, &payload)
	writeResult(w, r, http.StatusOK, bp, err)
}

func (s *Server) deactivateBaseProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	bp, err := s.svc.DeactivateBaseProduct(r.Context(), id)
	writeResult(w, r, http.StatusOK, bp, err)
}

func (s *Server) incrementBaseProductViews(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	bp, err := s.svc.IncrementBaseProductViews(r.Context(), id)
	writeResult(w, r, http.StatusOK, bp, err)
}

func (s *Server) setBaseProductCurrency(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var req currencyRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	bp, err := s.svc.SetBaseProductCurrency(r.Context(), id, req.Currency)
	writeResult(w, r, http.StatusOK, bp, err)
}

func (s *Server) searchBaseProducts(w http.ResponseWriter, r *http.Request) {
	page, ok := httputil.ParsePageOrError(w, r, "offset")
	if !ok {
		return
	}
	var req models.ProductSearch
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	found, err := s.svc.SearchBaseProducts(r.Context(), req, page.Count, int(page.From))
	writeResult(w, r, http.StatusOK, found, err)
}

func (s *Server) autoCompleteProducts(w http.ResponseWriter, r *http.Request) {
	count, ok := parseCountOrError(w, r)
	if !ok {
		return
	}
	var req models.AutoCompleteRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	names, err := s.svc.AutoCompleteProducts(r.Context(), req, count)
	writeResult(w, r, http.StatusOK, names, err)
}

func (s *Server) mostViewedBaseProducts(w http.ResponseWriter, r *http.Request) {
	page, ok := httputil.ParsePageOrError(w, r, "offset")
	if !ok {
		return
	}
	var req models.MostViewedRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	found, err := s.svc.MostViewedBaseProducts(r.Context(), req, page.Count, int(page.From))
	writeResult(w, r, http.StatusOK, found, err)
}

func (s *Server) mostDiscountBaseProducts(w http.ResponseWriter, r *http.Request) {
	page, ok := httputil.ParsePageOrError(w, r, "offset")
	if !ok {
		return
	}
	var req models.MostViewedRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	found, err := s.svc.MostDiscountBaseProducts(r.Context(), req, page.Count, int(page.From))
	writeResult(w, r, http.StatusOK, found, err)
}

func (s *Server) searchPriceRange(w http.ResponseWriter, r *http.Request) {
	var req models.ProductSearch
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	prices, err := s.svc.SearchPriceRange(r.Context(), req)
	writeResult(w, r, http.StatusOK, prices, err)
}

func (s *Server) searchFiltersCategories(w http.ResponseWriter, r *http.Request) {
	var req models.ProductSearch
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	tree, err := s.svc.SearchFiltersCategories(r.Context(), req)
	writeResult(w, r, http.StatusOK, tree, err)
}

func (s *Server) searchFiltersAttributes(w http.ResponseWriter, r *http.Request) {
	var req models.ProductSearch
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	attrs, err := s.svc.SearchFiltersAttributes(r.Context(), req)
	writeResult(w, r, http.StatusOK, attrs, err)
}

func (s *Server) searchFiltersCount(w http.ResponseWriter, r *http.Request) {
	var req models.ProductSearch
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	n, err := s.svc.SearchFiltersCount(r.Context(), req)
	writeResult(w, r, http.StatusOK, n, err)
}

func (s *Server) moderateBaseProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var payload models.Moderation
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	bp, err := s.svc.ModerateBaseProduct(r.Context(), id, &payload)
	writeResult(w, r, http.StatusOK, bp, err)
}
