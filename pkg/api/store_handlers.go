package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/stores/pkg/httputil"
	"github.com/platinummonkey/stores/pkg/models"
)

func (s *Server) registerStoreRoutes(router *mux.Router) {
	router.HandleFunc("/stores", s.listStores).Methods("GET")
	router.HandleFunc("/stores", s.createStore).Methods("POST")
	router.HandleFunc("/stores/count", s.countStores).Methods("GET")
	router.HandleFunc("/stores/slug_exists", s.storeSlugExists).Methods("GET")
	router.HandleFunc("/stores/name_exists", s.storeNameExists).Methods("GET")
	router.HandleFunc("/stores/by_user_id/{user_id:[0-9]+}", s.getStoreByUserID).Methods("GET")
	router.HandleFunc("/stores/by_slug/{slug}", s.getStoreBySlug).Methods("GET")
	router.HandleFunc("/stores/search", s.searchStores).Methods("POST")
	router.HandleFunc("/stores/search/filters/count", s.storeSearchFiltersCount).Methods("POST")
	router.HandleFunc("/stores/search/filters/country", s.storeSearchFiltersCountries).Methods("POST")
	router.HandleFunc("/stores/search/filters/category", s.storeSearchFiltersCategories).Methods("POST")
	router.HandleFunc("/stores/cart", s.storesCart).Methods("POST")
	router.HandleFunc("/stores/auto_complete", s.autoCompleteStores).Methods("POST")
	router.HandleFunc("/stores/{id:[0-9]+}", s.getStore).Methods("GET")
	router.HandleFunc("/stores/{id:[0-9]+}", s.updateStore).Methods("PUT")
	router.HandleFunc("/stores/{id:[0-9]+}", s.deactivateStore).Methods("DELETE")
	router.HandleFunc("/stores/{id:[0-9]+}/products", s.listStoreProducts).Methods("GET")
	router.HandleFunc("/stores/{id:[0-9]+}/products/count", s.countStoreProducts).Methods("GET")
	router.HandleFunc("/stores/{id:[0-9]+}/moderate", s.moderateStore).Methods("PUT")
}

func (s *Server) listStores(w http.ResponseWriter, r *http.Request) {
	page, ok := httputil.ParsePageOrError(w, r, "from")
	if !ok {
		return
	}
	stores, err := s.svc.ListStores(r.Context(), page.From, page.Count)
	writeResult(w, r, http.StatusOK, stores, err)
}

func (s *Server) countStores(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.CountStores(r.Context())
	writeResult(w, r, http.StatusOK, n, err)
}

func (s *Server) storeSlugExists(w http.ResponseWriter, r *http.Request) {
	slug := httputil.ParseQueryString(r, "slug", "")
	if slug == "" {
		httputil.WriteBadRequest(w, "query param slug is required")
		return
	}
	exists, err := s.svc.StoreSlugExists(r.Context(), slug)
	writeResult(w, r, http.StatusOK, exists, err)
}

func (s *Server) storeNameExists(w http.ResponseWriter, r *http.Request) {
	name := httputil.ParseQueryString(r, "name", "")
	if name == "" {
		httputil.WriteBadRequest(w, "query param name is required")
		return
	}
	exists, err := s.svc.StoreNameExists(r.Context(), name)
	writeResult(w, r, http.StatusOK, exists, err)
}

func (s *Server) getStore(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	store, err := s.svc.GetStore(r.Context(), id)
	writeResult(w, r, http.StatusOK, store, err)
}

func (s *Server) getStoreByUserID(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathInt64OrError(w, r, "user_id")
	if !ok {
		return
	}
	store, err := s.svc.GetStoreByUserID(r.Context(), userID)
	writeResult(w, r, http.StatusOK, store, err)
}

func (s *Server) getStoreBySlug(w http.ResponseWriter, r *http.Request) {
	slug, ok := httputil.ParsePathStringOrError(w, r, "slug")
	if !ok {
		return
	}
	store, err := s.svc.GetStoreBySlug(r.Context(), slug)
	writeResult(w, r, http.StatusOK, store, err)
}

func (s *Server) createStore(w http.ResponseWriter, r *http.Request) {
	var payload models.NewStore
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	store, err := s.svc.CreateStore(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, store, err)
}

func (s *Server) updateStore(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var payload models.UpdateStore
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	store, err := s.svc.UpdateStore(r.Context(), id, &payload)
	writeResult(w, r, http.StatusOK, store, err)
}

func (s *Server) moderateStore(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var payload models.Moderation
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	store, err := s.svc.ModerateStore(r.Context(), id, &payload)
	writeResult(w, r, http.StatusOK, store, err)
}

func (s *Server) deactivateStore(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	store, err := s.svc.DeactivateStore(r.Context(), id)
	writeResult(w, r, http.StatusOK, store, err)
}

func (s *Server) listStoreProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	page, ok := httputil.ParsePageOrError(w, r, "from")
	if !ok {
		return
	}
	products, err := s.svc.ListStoreProducts(r.Context(), id, page.From, page.Count)
	writeResult(w, r, http.StatusOK, products, err)
}

func (s *Server) countStoreProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	n, err := s.svc.CountStoreProducts(r.Context(), id)
	writeResult(w, r, http.StatusOK, n, err)
}

func (s *Server) searchStores(w http.ResponseWriter, r *http.Request) {
	page, ok := httputil.ParsePageOrError(w, r, "offset")
	if !ok {
		return
	}
	var req models.StoreSearch
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	stores, err := s.svc.SearchStores(r.Context(), req, page.Count, int(page.From))
	writeResult(w, r, http.StatusOK, stores, err)
}

func (s *Server) storeSearchFiltersCount(w http.ResponseWriter, r *http.Request) {
	var req models.StoreSearch
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	n, err := s.svc.StoreSearchFiltersCount(r.Context(), req)
	writeResult(w, r, http.StatusOK, n, err)
}

func (s *Server) storeSearchFiltersCountries(w http.ResponseWriter, r *http.Request) {
	var req models.StoreSearch
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	countries, err := s.svc.StoreSearchFiltersCountries(r.Context(), req)
	writeResult(w, r, http.StatusOK, countries, err)
}

func (s *Server) storeSearchFiltersCategories(w http.ResponseWriter, r *http.Request) {
	var req models.StoreSearch
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	tree, err := s.svc.StoreSearchFiltersCategories(r.Context(), req)
	writeResult(w, r, http.StatusOK, tree, err)
}

func (s *Server) autoCompleteStores(w http.ResponseWriter, r *http.Request) {
	count, ok := parseCountOrError(w, r)
	if !ok {
		return
	}
	var req models.AutoCompleteRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	names, err := s.svc.AutoCompleteStores(r.Context(), req.Name, count)
	writeResult(w, r, http.StatusOK, names, err)
}

func (s *Server) storesCart(w http.ResponseWriter, r *http.Request) {
	var lines []models.CartProduct
	if !httputil.ParseJSONOrError(w, r, &lines) {
		return
	}
	cart, err := s.svc.StoresCart(r.Context(), lines)
	writeResult(w, r, http.StatusOK, cart, err)
}
