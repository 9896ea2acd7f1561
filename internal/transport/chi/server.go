// Package chi exposes the professional dataset over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openregistry/prodex/internal/domain"
	adminuc "github.com/openregistry/prodex/internal/usecase/admin"
	cataloguc "github.com/openregistry/prodex/internal/usecase/catalog"
	healthuc "github.com/openregistry/prodex/internal/usecase/health"
	searchuc "github.com/openregistry/prodex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server wires the use-case services to HTTP handlers.
type Server struct {
	search        *searchuc.Service
	catalog       *cataloguc.Service
	admin         *adminuc.Service
	health        *healthuc.Service
	apiKeys       []string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	catalog *cataloguc.Service,
	admin *adminuc.Service,
	health *healthuc.Service,
	apiKeys []string,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:  search,
		catalog: catalog,
		admin:   admin,
		health:  health,
		apiKeys: apiKeys,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidFilename, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmptyImport, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Routes mounts all API routes on r. Read endpoints are open (the marketplace
// UI calls them anonymously); admin endpoints require a bearer key when keys
// are configured.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/professionals", s.SearchProfessionals)
		r.Get("/professionals/stats", s.GetStats)
		r.Get("/professionals/by-slug/{slug}", s.GetProfessionalBySlug)
		r.Get("/professionals/{id}", s.GetProfessionalByID)

		r.Route("/admin", func(r chi.Router) {
			r.Use(BearerAuthMiddleware(s.apiKeys))
			r.Post("/import", s.ImportSource)
			r.Post("/reload", s.Reload)
		})
	})

	r.Get("/health", s.Health)
}

// SearchProfessionals handles GET /api/v1/professionals.
func (s *Server) SearchProfessionals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := searchuc.Params{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		City:     q.Get("city"),
		Zip:      q.Get("zip"),
		County:   q.Get("county"),
		Limit:    intParam(q.Get("limit")),
		Offset:   intParam(q.Get("offset")),
	}

	page, err := s.search.Search(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Data:   page.Data,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// GetProfessionalByID handles GET /api/v1/professionals/{id}.
func (s *Server) GetProfessionalByID(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetProfessionalBySlug handles GET /api/v1/professionals/by-slug/{slug}.
func (s *Server) GetProfessionalBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetStats handles GET /api/v1/professionals/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.catalog.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Total:      stats.Total,
		ByCategory: stats.ByCategory,
		LastLoaded: stats.LastLoaded,
	})
}

// ImportSource handles POST /api/v1/admin/import.
func (s *Server) ImportSource(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	count, err := s.admin.ImportSource(r.Context(), req.Filename, req.Content)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{Filename: req.Filename, ImportedCount: count})
}

// Reload handles POST /api/v1/admin/reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	snap, stats, err := s.admin.Reload(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reloadResponse{
		Total:      len(snap.Records),
		LastLoaded: snap.LoadedAt,
		Stats:      stats,
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Check(r.Context()))
}

// handleDomainError walks the sentinel chain and falls back to a logged 500.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func intParam(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
