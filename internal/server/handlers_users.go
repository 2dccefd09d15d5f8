package server

import (
	"net/http"
	"strings"

	"squido/internal/app"
	"squido/pkg/domain"
)

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	page, pageSize := pageParams(r)
	result, err := s.app.ListUsers(r.URL.Query().Get("keyword"), page, pageSize)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request, _ domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if id == "" || strings.Contains(id, "/") {
		notFound(w)
		return
	}
	switch r.Method {
	case http.MethodGet:
		user, err := s.app.GetUser(id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodPut:
		var input app.UserUpdateInput
		if !decodeJSON(w, r, &input) {
			return
		}
		user, err := s.app.UpdateUser(id, input)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodDelete:
		if err := s.app.DeleteUser(id); err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}
