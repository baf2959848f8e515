package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/stores/pkg/httputil"
	"github.com/platinummonkey/stores/pkg/models"
)

func (s *Server) registerExtraRoutes(router *mux.Router) {
	router.HandleFunc("/wizard_stores", s.getWizardStore).Methods("GET")
	router.HandleFunc("/wizard_stores", s.createWizardStore).Methods("POST")
	router.HandleFunc("/wizard_stores", s.updateWizardStore).Methods("PUT")
	router.HandleFunc("/wizard_stores", s.deleteWizardStore).Methods("DELETE")

	router.HandleFunc("/moderator_product_comments", s.createModeratorProductComment).Methods("POST")
	router.HandleFunc("/moderator_product_comments/{base_product_id:[0-9]+}", s.listModeratorProductComments).Methods("GET")
	router.HandleFunc("/moderator_store_comments", s.createModeratorStoreComment).Methods("POST")
	router.HandleFunc("/moderator_store_comments/{store_id:[0-9]+}", s.listModeratorStoreComments).Methods("GET")

	router.HandleFunc("/custom_attributes", s.createCustomAttribute).Methods("POST")
	router.HandleFunc("/custom_attributes/by_base_product/{id:[0-9]+}", s.listCustomAttributes).Methods("GET")
	router.HandleFunc("/custom_attributes/{id:[0-9]+}", s.deleteCustomAttribute).Methods("DELETE")

	router.HandleFunc("/coupons", s.createCoupon).Methods("POST")
	router.HandleFunc("/coupons/by_code/{code}", s.getCouponByCode).Methods("GET")
	router.HandleFunc("/coupons/by_store/{store_id:[0-9]+}", s.listStoreCoupons).Methods("GET")
	router.HandleFunc("/coupons/{id:[0-9]+}", s.getCoupon).Methods("GET")
	router.HandleFunc("/coupons/{id:[0-9]+}", s.updateCoupon).Methods("PUT")
	router.HandleFunc("/coupons/{id:[0-9]+}", s.deleteCoupon).Methods("DELETE")
	router.HandleFunc("/coupons/base_products", s.addCouponBaseProduct).Methods("POST")
	router.HandleFunc("/coupons/{id:[0-9]+}/base_products", s.listCouponBaseProducts).Methods("GET")
	router.HandleFunc("/coupons/{id:[0-9]+}/base_products/{base_product_id:[0-9]+}", s.removeCouponBaseProduct).Methods("DELETE")
	router.HandleFunc("/coupons/{id:[0-9]+}/use", s.useCoupon).Methods("POST")
	router.HandleFunc("/coupons/{id:[0-9]+}/used/{user_id:[0-9]+}", s.couponUsedByUser).Methods("GET")
}

func (s *Server) getWizardStore(w http.ResponseWriter, r *http.Request) {
	wizard, err := s.svc.GetWizardStore(r.Context())
	writeResult(w, r, http.StatusOK, wizard, err)
}

func (s *Server) createWizardStore(w http.ResponseWriter, r *http.Request) {
	wizard, err := s.svc.CreateWizardStore(r.Context())
	writeResult(w, r, http.StatusCreated, wizard, err)
}

func (s *Server) updateWizardStore(w http.ResponseWriter, r *http.Request) {
	var payload models.UpdateWizardStore
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	wizard, err := s.svc.UpdateWizardStore(r.Context(), &payload)
	writeResult(w, r, http.StatusOK, wizard, err)
}

func (s *Server) deleteWizardStore(w http.ResponseWriter, r *http.Request) {
	wizard, err := s.svc.DeleteWizardStore(r.Context())
	writeResult(w, r, http.StatusOK, wizard, err)
}

func (s *Server) listModeratorProductComments(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "base_product_id")
	if !ok {
		return
	}
	comments, err := s.svc.ListModeratorProductComments(r.Context(), id)
	writeResult(w, r, http.StatusOK, comments, err)
}

func (s *Server) createModeratorProductComment(w http.ResponseWriter, r *http.Request) {
	var payload models.NewModeratorProductComment
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	comment, err := s.svc.CreateModeratorProductComment(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, comment, err)
}

func (s *Server) listModeratorStoreComments(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "store_id")
	if !ok {
		return
	}
	comments, err := s.svc.ListModeratorStoreComments(r.Context(), id)
	writeResult(w, r, http.StatusOK, comments, err)
}

func (s *Server) createModeratorStoreComment(w http.ResponseWriter, r *http.Request) {
	var payload models.NewModeratorStoreComment
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	comment, err := s.svc.CreateModeratorStoreComment(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, comment, err)
}

func (s *Server) listCustomAttributes(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	attrs, err := s.svc.ListCustomAttributes(r.Context(), id)
	writeResult(w, r, http.StatusOK, attrs, err)
}

func (s *Server) createCustomAttribute(w http.ResponseWriter, r *http.Request) {
	var payload models.NewCustomAttribute
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	attr, err := s.svc.CreateCustomAttribute(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, attr, err)
}

func (s *Server) deleteCustomAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	attr, err := s.svc.DeleteCustomAttribute(r.Context(), id)
	writeResult(w, r, http.StatusOK, attr, err)
}

func (s *Server) getCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	coupon, err := s.svc.GetCoupon(r.Context(), id)
	writeResult(w, r, http.StatusOK, coupon, err)
}

func (s *Server) getCouponByCode(w http.ResponseWriter, r *http.Request) {
	code, ok := httputil.ParsePathStringOrError(w, r, "code")
	if !ok {
		return
	}
	coupon, err := s.svc.GetCouponByCode(r.Context(), code)
	writeResult(w, r, http.StatusOK, coupon, err)
}

func (s *Server) listStoreCoupons(w http.ResponseWriter, r *http.Request) {
	storeID, ok := httputil.ParsePathInt64OrError(w, r, "store_id")
	if !ok {
		return
	}
	coupons, err := s.svc.ListStoreCoupons(r.Context(), storeID)
	writeResult(w, r, http.StatusOK, coupons, err)
}

func (s *Server) createCoupon(w http.ResponseWriter, r *http.Request) {
	var payload models.NewCoupon
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	coupon, err := s.svc.CreateCoupon(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, coupon, err)
}

func (s *Server) updateCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var payload models.UpdateCoupon
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	coupon, err := s.svc.UpdateCoupon(r.Context(), id, &payload)
	writeResult(w, r, http.StatusOK, coupon, err)
}

func (s *Server) deleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	coupon, err := s.svc.DeleteCoupon(r.Context(), id)
	writeResult(w, r, http.StatusOK, coupon, err)
}

func (s *Server) listCouponBaseProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	scopes, err := s.svc.ListCouponBaseProducts(r.Context(), id)
	writeResult(w, r, http.StatusOK, scopes, err)
}

func (s *Server) addCouponBaseProduct(w http.ResponseWriter, r *http.Request) {
	var payload models.NewCouponScopeBaseProduct
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	scope, err := s.svc.AddCouponBaseProduct(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, scope, err)
}

func (s *Server) removeCouponBaseProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	baseProductID, ok := httputil.ParsePathInt64OrError(w, r, "base_product_id")
	if !ok {
		return
	}
	scope, err := s.svc.RemoveCouponBaseProduct(r.Context(), id, baseProductID)
	writeResult(w, r, http.StatusOK, scope, err)
}

// useCoupon redeems the coupon for the user in the body
func (s *Server) useCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var payload models.NewUsedCoupon
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	payload.CouponID = id
	used, err := s.svc.UseCoupon(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, used, err)
}

func (s *Server) couponUsedByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	userID, ok := httputil.ParsePathInt64OrError(w, r, "user_id")
	if !ok {
		return
	}
	used, err := s.svc.CouponUsedByUser(r.Context(), id, userID)
	writeResult(w, r, http.StatusOK, used, err)
}
