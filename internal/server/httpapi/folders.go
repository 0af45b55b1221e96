package httpapi

import (
	"net/http"
	"time"

	"github.com/vkarpenko/drivespace/internal/common"
	"github.com/vkarpenko/drivespace/internal/server/models"
)

type folderResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ParentFolderID *string   `json:"parentFolderId"`
	StoragePath    string    `json:"storagePath"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toFolderResponse(f *models.Folder) folderResponse {
	return folderResponse{
		ID:             f.ID,
		Name:           f.Name,
		ParentFolderID: f.ParentID,
		StoragePath:    f.StoragePath,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrUnauthorized)
		return
	}

	var req struct {
		FolderName     string  `json:"folderName"`
		ParentFolderID *string `json:"parentFolderId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	folder, err := s.namespace.CreateFolder(r.Context(), p, req.FolderName, req.ParentFolderID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFolderResponse(folder))
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrUnauthorized)
		return
	}

	summaries, err := s.listing.ListFolders(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}

	type folderSummary struct {
		Name       string `json:"name"`
		TotalItems int    `json:"totalItems"`
	}
	out := make([]folderSummary, 0, len(summaries))
	for _, f := range summaries {
		out = append(out, folderSummary{Name: f.Name, TotalItems: f.TotalItems})
	}

	writeJSON(w, http.StatusOK, struct {
		Folders      []folderSummary `json:"folders"`
		TotalFolders int             `json:"totalFolders"`
		Prefix       string          `json:"prefix"`
	}{Folders: out, TotalFolders: len(out), Prefix: p.Username + "/"})
}
