package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/stores/pkg/httputil"
	"github.com/platinummonkey/stores/pkg/models"
)

func (s *Server) registerProductRoutes(router *mux.Router) {
	router.HandleFunc("/products", s.listProducts).Methods("GET")
	router.HandleFunc("/products", s.createProduct).Methods("POST")
	router.HandleFunc("/products/by_base_product/{id:[0-9]+}", s.listProductsByBaseProduct).Methods("GET")
	router.HandleFunc("/products/store_id", s.getProductStoreID).Methods("GET")
	router.HandleFunc("/products/{id:[0-9]+}", s.getProduct).Methods("GET")
	router.HandleFunc("/products/{id:[0-9]+}", s.updateProduct).Methods("PUT")
	router.HandleFunc("/products/{id:[0-9]+}", s.deactivateProduct).Methods("DELETE")
	router.HandleFunc("/products/{id:[0-9]+}/attributes", s.listProductAttributes).Methods("GET")
	router.HandleFunc("/products/{id:[0-9]+}/attributes", s.setProductAttributes).Methods("PUT")
	router.HandleFunc("/products/{id:[0-9]+}/seller_price", s.getProductSellerPrice).Methods("GET")
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	page, ok := httputil.ParsePageOrError(w, r, "from")
	if !ok {
		return
	}
	products, err := s.svc.ListProducts(r.Context(), page.From, page.Count)
	writeResult(w, r, http.StatusOK, products, err)
}

func (s *Server) listProductsByBaseProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	products, err := s.svc.ListProductsByBaseProduct(r.Context(), id)
	writeResult(w, r, http.StatusOK, products, err)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	p, err := s.svc.GetProduct(r.Context(), id)
	writeResult(w, r, http.StatusOK, p, err)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload models.NewProductWithAttributes
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	p, err := s.svc.CreateProduct(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, p, err)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var payload models.UpdateProductWithAttributes
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	p, err := s.svc.UpdateProduct(r.Context(), id, &payload)
	writeResult(w, r, http.StatusOK, p, err)
}

func (s *Server) deactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	p, err := s.svc.DeactivateProduct(r.Context(), id)
	writeResult(w, r, http.StatusOK, p, err)
}

func (s *Server) listProductAttributes(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	attrs, err := s.svc.ListProductAttributes(r.Context(), id)
	writeResult(w, r, http.StatusOK, attrs, err)
}

func (s *Server) setProductAttributes(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var values []models.AttrValue
	if !httputil.ParseJSONOrError(w, r, &values) {
		return
	}
	attrs, err := s.svc.SetProductAttributes(r.Context(), id, values)
	writeResult(w, r, http.StatusOK, attrs, err)
}

func (s *Server) getProductStoreID(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseQueryInt64(r, "product_id", 0)
	if err != nil || id <= 0 {
		httputil.WriteBadRequest(w, "query param product_id must be a positive integer")
		return
	}
	storeID, err := s.svc.GetProductStoreID(r.Context(), id)
	writeResult(w, r, http.StatusOK, storeID, err)
}

func (s *Server) getProductSellerPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	price, err := s.svc.GetProductSellerPrice(r.Context(), id)
	writeResult(w, r, http.StatusOK, price, err)
}
