package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/vkarpenko/drivespace/internal/common"
	"github.com/vkarpenko/drivespace/internal/server/models"
)

type fileResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	FileType  string    `json:"fileType"`
	Size      int64     `json:"size"`
	AccessURL string    `json:"accessUrl"`
	FolderID  string    `json:"folderId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toFileResponse(f *models.File) fileResponse {
	return fileResponse{
		ID:        f.ID,
		FileName:  f.Filename,
		FileType:  f.ContentType,
		Size:      f.Size,
		AccessURL: f.AccessURL,
		FolderID:  f.FolderID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (s *Server) handleRequestUpload(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrUnauthorized)
		return
	}

	var req struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
		Folder   string `json:"folder"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := s.namespace.RequestUpload(r.Context(), p, req.Folder, req.FileName, req.FileType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		UploadURL string `json:"uploadUrl"`
		Key       string `json:"key"`
	}{UploadURL: ticket.UploadURL, Key: ticket.Key})
}

func (s *Server) handleConfirmUpload(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrUnauthorized)
		return
	}

	var req struct {
		Key      string `json:"key"`
		Size     int64  `json:"size"`
		FileType string `json:"fileType"`
		Folder   string `json:"folder"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	file, err := s.namespace.ConfirmUpload(r.Context(), p, req.Key, req.Folder, req.FileType, req.Size)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFileResponse(file))
}

func (s *Server) handleListFolderFiles(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrUnauthorized)
		return
	}

	folderName := mux.Vars(r)["folder"]

	entries, err := s.listing.ListFolderFiles(r.Context(), p, folderName)
	if err != nil {
		writeError(w, err)
		return
	}

	type fileEntry struct {
		Name string `json:"name"`
		Key  string `json:"key"`
		Size int64  `json:"size"`
		URL  string `json:"url"`
	}
	out := make([]fileEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, fileEntry{Name: e.Name, Key: e.Key, Size: e.Size, URL: e.URL})
	}

	writeJSON(w, http.StatusOK, struct {
		Files      []fileEntry `json:"files"`
		TotalItems int         `json:"totalItems"`
	}{Files: out, TotalItems: len(out)})
}

func (s *Server) handleRenameFile(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrUnauthorized)
		return
	}

	var req struct {
		Key         string `json:"key"`
		NewFileName string `json:"newFileName"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	file, err := s.namespace.RenameFile(r.Context(), p, req.Key, req.NewFileName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileResponse(file))
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrUnauthorized)
		return
	}

	var req struct {
		Key string `json:"key"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.namespace.DeleteFile(r.Context(), p, req.Key); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "file deleted"})
}
