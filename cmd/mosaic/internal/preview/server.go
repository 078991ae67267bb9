// Package preview serves composed pages over HTTP for local inspection.
package preview

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/orkinosai25-org/mosaic/cmd/mosaic/internal/pagefile"
	"github.com/orkinosai25-org/mosaic/internal/composer"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/internal/themes"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// Config wires the preview handler.
type Config struct {
	Composer composer.Service
	// Assets resolves /themes/{name}/assets/* requests. Nil disables asset serving.
	Assets themes.AssetResolver
	Logger interfaces.Logger
}

type errorBody struct {
	Errors []string `json:"errors"`
}

// Server maps page documents to composed HTML.
type Server struct {
	cfg    Config
	logger interfaces.Logger

	mu    sync.RWMutex
	pages map[string]*pagefile.Document
}

// New constructs a preview server.
func New(cfg Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: logging.Or(cfg.Logger),
		pages:  make(map[string]*pagefile.Document),
	}
}

// AddPage makes doc reachable at /sites/{site}/pages/{page}.
func (s *Server) AddPage(doc *pagefile.Document) {
	if doc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[pageKey(doc.Site, doc.Page)] = doc
}

func (s *Server) page(site, page string) (*pagefile.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.pages[pageKey(site, page)]
	return doc, ok
}

// Handler returns the chi router.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Get("/sites/{site}/pages/{page}", s.handlePage)
	if s.cfg.Assets != nil {
		router.Get("/themes/{theme}/assets/*", s.handleAsset)
	}
	return router
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	site := chi.URLParam(r, "site")
	page := chi.URLParam(r, "page")
	doc, ok := s.page(site, page)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Errors: []string{"page not found"}})
		return
	}

	ctx := r.Context()
	if id := middleware.GetReqID(ctx); id != "" {
		ctx = logging.ContextWithFields(ctx, map[string]any{"request_id": id})
	}
	result := s.cfg.Composer.ComposePage(ctx, doc.Request())
	if !result.Success {
		s.logger.Warn("preview.page.failed", "site_id", site, "page_id", page, "errors", result.Errors)
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Errors: result.Errors})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, result.HTML)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	theme := chi.URLParam(r, "theme")
	asset := chi.URLParam(r, "*")
	file, err := s.cfg.Assets.Open(theme, asset)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, themes.ErrAssetPathInvalid):
			status = http.StatusBadRequest
		case errors.Is(err, fs.ErrNotExist):
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorBody{Errors: []string{err.Error()}})
		return
	}
	defer file.Close()

	if contentType := mime.TypeByExtension(path.Ext(asset)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, file)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func pageKey(site, page string) string {
	return strings.ToLower(strings.TrimSpace(site)) + "/" + strings.ToLower(strings.TrimSpace(page))
}
