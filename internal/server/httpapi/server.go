// Package httpapi is the HTTP boundary: routing, token verification, JSON
// request/response shapes, and the mapping from sentinel errors to statuses.
// No namespace logic lives here; handlers parse, delegate to a service, and
// encode.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vkarpenko/drivespace/internal/logging"
	"github.com/vkarpenko/drivespace/internal/server/metrics"
	"github.com/vkarpenko/drivespace/internal/server/services"
)

type Server struct {
	router    *mux.Router
	namespace *services.NamespaceService
	listing   *services.ListingService
	users     *services.UserService
	logger    logging.Logger
}

func New(
	namespace *services.NamespaceService,
	listing *services.ListingService,
	users *services.UserService,
	secretKey []byte,
	logger logging.Logger,
) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		namespace: namespace,
		listing:   listing,
		users:     users,
		logger:    logger.With("component", "http"),
	}

	s.router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	authRoutes := s.router.PathPrefix("/api/auth").Subrouter()
	authRoutes.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware(secretKey))

	api.HandleFunc("/folders/create-folder", s.handleCreateFolder).Methods(http.MethodPost)
	api.HandleFunc("/folders/list-folders", s.handleListFolders).Methods(http.MethodGet)

	api.HandleFunc("/files/upload", s.handleRequestUpload).Methods(http.MethodPost)
	api.HandleFunc("/files/confirm-upload", s.handleConfirmUpload).Methods(http.MethodPost)
	api.HandleFunc("/files/rename", s.handleRenameFile).Methods(http.MethodPut)
	api.HandleFunc("/files/delete", s.handleDeleteFile).Methods(http.MethodDelete)
	api.HandleFunc("/files/{folder}", s.handleListFolderFiles).Methods(http.MethodGet)

	api.HandleFunc("/users", s.handleListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", s.handleGetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", s.handleUpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", s.handleDeleteUser).Methods(http.MethodDelete)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
