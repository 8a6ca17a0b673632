package httpapi

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"pkt.systems/matrixterm/internal/content"
	"pkt.systems/matrixterm/internal/logx"
	"pkt.systems/matrixterm/schema"
)

// Server publishes page payloads and catalogs over HTTP.
type Server struct {
	cfg      Config
	pages    fs.FS
	basePath string
}

// CatalogsPayload lists the page names of both layouts.
type CatalogsPayload struct {
	Terminal []string `json:"terminal"`
	Modern   []string `json:"modern"`
}

// NewServer constructs a content server.
func NewServer(cfg Config) *Server {
	pages := content.EmbeddedPages()
	if dir := strings.TrimSpace(cfg.DataDir); dir != "" {
		pages = os.DirFS(dir)
	}
	return &Server{
		cfg:      cfg,
		pages:    pages,
		basePath: normalizeBasePath(cfg.BasePath),
	}
}

// Pages returns the filesystem pages are served from.
func (s *Server) Pages() fs.FS {
	return s.pages
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /data/{file}", s.handlePage)
	mux.HandleFunc("GET /api/catalogs", s.handleCatalogs)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return mountAt(s.basePath, withRequestLogging(mux))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	name, ok := strings.CutSuffix(file, ".json")
	if !ok {
		writeError(w, http.StatusNotFound, schema.ErrPageNotFound)
		return
	}
	page, err := schema.NormalizePageName(name)
	if err != nil || string(page) != name {
		writeError(w, http.StatusNotFound, schema.ErrPageNotFound)
		return
	}
	log := logx.WithPage(logx.Ctx(r.Context()), page)
	data, err := fs.ReadFile(s.pages, content.PagePath(page))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, schema.ErrPageNotFound)
			return
		}
		log.Warn("page read failed", "err", err)
		writeError(w, http.StatusInternalServerError, errors.New("page unavailable"))
		return
	}
	if _, _, err := schema.DecodeBlocks(data); err != nil {
		log.Warn("page payload invalid", "err", err)
		writeError(w, http.StatusInternalServerError, errors.New("page unavailable"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleCatalogs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CatalogsPayload{
		Terminal: schema.TerminalPageNames(),
		Modern:   schema.ModernPageNames(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
