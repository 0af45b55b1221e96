package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/vkarpenko/drivespace/internal/common"
	"github.com/vkarpenko/drivespace/internal/server/services"
)

// adminOnly gates the user-administration endpoints on the caller's role.
func (s *Server) adminOnly(w http.ResponseWriter, r *http.Request) bool {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrUnauthorized)
		return false
	}
	if p.Role != "Admin" {
		writeError(w, common.ErrForbidden)
		return false
	}
	return true
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if !s.adminOnly(w, r) {
		return
	}

	list, err := s.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if !s.adminOnly(w, r) {
		return
	}

	user, err := s.users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if !s.adminOnly(w, r) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		FullName string `json:"fullName"`
		Role     string `json:"role"`
		IsActive *bool  `json:"isActive"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Update(r.Context(), mux.Vars(r)["id"], services.UpdateRequest{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !s.adminOnly(w, r) {
		return
	}

	if err := s.users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
