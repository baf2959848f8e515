package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/stores/pkg/httputil"
	"github.com/platinummonkey/stores/pkg/models"
)

func (s *Server) registerRoleRoutes(router *mux.Router) {
	router.HandleFunc("/user_roles", s.grantRole).Methods("POST")
	router.HandleFunc("/user_roles", s.revokeRole).Methods("DELETE")
	router.HandleFunc("/user_roles/by_user_id/{user_id:[0-9]+}", s.revokeAllRoles).Methods("DELETE")
	router.HandleFunc("/user_roles/{user_id:[0-9]+}", s.listUserRoles).Methods("GET")
	router.HandleFunc("/user_roles/{id:[0-9]+}", s.revokeRoleByID).Methods("DELETE")
	router.HandleFunc("/roles/default/{user_id:[0-9]+}", s.grantDefaultRole).Methods("POST")
}

func (s *Server) listUserRoles(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathInt64OrError(w, r, "user_id")
	if !ok {
		return
	}
	roles, err := s.svc.ListUserRoles(r.Context(), userID)
	writeResult(w, r, http.StatusOK, roles, err)
}

func (s *Server) grantRole(w http.ResponseWriter, r *http.Request) {
	var payload models.NewUserRole
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	role, err := s.svc.GrantRole(r.Context(), &payload)
	writeResult(w, r, http.StatusCreated, role, err)
}

func (s *Server) revokeRole(w http.ResponseWriter, r *http.Request) {
	var payload models.OldUserRole
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}
	role, err := s.svc.RevokeRole(r.Context(), &payload)
	writeResult(w, r, http.StatusOK, role, err)
}

func (s *Server) revokeRoleByID(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	role, err := s.svc.RevokeRoleByID(r.Context(), id)
	writeResult(w, r, http.StatusOK, role, err)
}

func (s *Server) revokeAllRoles(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathInt64OrError(w, r, "user_id")
	if !ok {
		return
	}
	roles, err := s.svc.RevokeAllRoles(r.Context(), userID)
	writeResult(w, r, http.StatusOK, roles, err)
}

func (s *Server) grantDefaultRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathInt64OrError(w, r, "user_id")
	if !ok {
		return
	}
	role, err := s.svc.GrantDefaultRole(r.Context(), userID)
	writeResult(w, r, http.StatusOK, role, err)
}
