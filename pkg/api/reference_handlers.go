package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/stores/pkg/httputil"
	"github.com/platinummonkey/stores/pkg/models"
)

func (s *Server) registerReferenceRoutes(router *mux.Router) {
	router.HandleFunc("/attributes", s.listAttributes).Methods("GET")
	router.HandleFunc("/attributes", s.createAttribute).Methods("POST")
	router.HandleFunc("/attributes/{id:[0-9]+}", s.getAttribute).Methods("GET")
	router.HandleFunc("/attributes/{id:[0-9]+}", s.updateAttribute).Methods("PUT")
	router.HandleFunc("/attributes/{id:[0-9]+}/values", s.listAttributeValues).Methods("GET")
	router.HandleFunc("/attribute_values", s.createAttributeValue).Methods("POST")
	router.HandleFunc("/attribute_values/{id:[0-9]+}", s.updateAttributeValue).Methods("PUT")
	router.HandleFunc("/attribute_values/{id:[0-9]+}", s.deleteAttributeValue).Methods("DELETE")

	router.HandleFunc("/categories", s.categoryTree).Methods("GET")
	router.HandleFunc("/categories", s.createCategory).Methods("POST")
	router.HandleFunc("/categories/attributes", s.addCategoryAttribute).Methods("POST")
	router.HandleFunc("/categories/attributes", s.removeCategoryAttribute).Methods("DELETE")
	router.HandleFunc("/categories/{id:[0-9]+}", s.getCategory).Methods("GET")
	router.HandleFunc("/categories/{id:[0-9]+}", s.updateCategory).Methods("PUT")
	router.HandleFunc("/categories/{id:[0-9]+}/attributes", s.listCategoryAttributes).Methods("GET")

	router.HandleFunc("/currency_exchange", s.latestCurrencyExchange).Methods("GET")
	router.HandleFunc("/currency_exchange", s.updateCurrencyExchange).Methods("POST")
}

func (s *Server) listAttributes(w http.ResponseWriter, r *http.Request) {
	attrs, err := s.svc.ListAttributes(r.Context())
	writeResult(w, r, http.StatusOK, attrs, err)
}

func (s *Server) getAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	attr, err := s.svc.GetAttribute(r.Context(), id)
	writeResult(w, r, http.StatusOK, attr, err)
}

func (s *Server) createAttribute(w http.ResponseWriter, r *http.Request) {
	var payload models.NewAttribute
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	attr, err := s.svc.CreateAttribute(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, attr, err)
}

func (s *Server) updateAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var payload models.UpdateAttribute
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	attr, err := s.svc.UpdateAttribute(r.Context(), id, &payload)
	writeResult(w, r, http.StatusOK, attr, err)
}

func (s *Server) categoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.svc.CategoryTree(r.Context())
	writeResult(w, r, http.StatusOK, tree, err)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	category, err := s.svc.GetCategory(r.Context(), id)
	writeResult(w, r, http.StatusOK, category, err)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var payload models.NewCategory
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	category, err := s.svc.CreateCategory(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, category, err)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var payload models.UpdateCategory
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	category, err := s.svc.UpdateCategory(r.Context(), id, &payload)
	writeResult(w, r, http.StatusOK, category, err)
}

func (s *Server) listCategoryAttributes(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	attrs, err := s.svc.ListCategoryAttributes(r.Context(), id)
	writeResult(w, r, http.StatusOK, attrs, err)
}

func (s *Server) addCategoryAttribute(w http.ResponseWriter, r *http.Request) {
	var payload models.NewCategoryAttr
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	link, err := s.svc.AddCategoryAttribute(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, link, err)
}

func (s *Server) removeCategoryAttribute(w http.ResponseWriter, r *http.Request) {
	var payload models.OldCategoryAttr
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	link, err := s.svc.RemoveCategoryAttribute(r.Context(), &payload)
	writeResult(w, r, http.StatusOK, link, err)
}

func (s *Server) latestCurrencyExchange(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.svc.LatestCurrencyExchange(r.Context())
	writeResult(w, r, http.StatusOK, snapshot, err)
}

func (s *Server) updateCurrencyExchange(w http.ResponseWriter, r *http.Request) {
	var payload models.NewCurrencyExchange
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	snapshot, err := s.svc.UpdateCurrencyExchange(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, snapshot, err)
}

func (s *Server) listAttributeValues(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	values, err := s.svc.ListAttributeValues(r.Context(), id)
	writeResult(w, r, http.StatusOK, values, err)
}

func (s *Server) createAttributeValue(w http.ResponseWriter, r *http.Request) {
	var payload models.NewAttributeValue
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	value, err := s.svc.CreateAttributeValue(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, value, err)
}

func (s *Server) updateAttributeValue(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var payload models.UpdateAttributeValue
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	value, err := s.svc.UpdateAttributeValue(r.Context(), id, &payload)
	writeResult(w, r, http.StatusOK, value, err)
}

func (s *Server) deleteAttributeValue(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	value, err := s.svc.DeleteAttributeValue(r.Context(), id)
	writeResult(w, r, http.StatusOK, value, err)
}
