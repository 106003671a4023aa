package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"redbook_copy_assistant/config"
	"redbook_copy_assistant/generator"
)

// Server 暴露四个操作的 HTTP 接口。除了 Agent 外不持有任何状态。
type Server struct {
	agent  *generator.Agent
	cfg    config.Config
	logger zerolog.Logger
}

func New(agent *generator.Agent, cfg config.Config, logger zerolog.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	d := config.Default()
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = d.RequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = d.MaxBodyBytes
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = d.CORSOrigin
	}
	return &Server{agent: agent, cfg: cfg, logger: logger}, nil
}

// routes are registered both bare and under /api/.
var routes = []string{"/parse", "/verify", "/inspire", "/polish", "/import", "/directions", "/health"}

func (s *Server) Routes() http.Handler {
	handlers := map[string]http.HandlerFunc{
		"/parse":      s.post(s.handleParse),
		"/verify":     s.post(s.handleVerify),
		"/inspire":    s.post(s.handleInspire),
		"/polish":     s.post(s.handlePolish),
		"/import":     s.post(s.handleImport),
		"/directions": s.get(s.handleDirections),
		"/health":     s.get(s.handleHealth),
	}

	mux := http.NewServeMux()
	for _, p := range routes {
		mux.Handle(p, handlers[p])
		mux.Handle("/api"+p, handlers[p])
	}
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "接口不存在")
	})

	return s.chain(mux)
}

func (s *Server) post(h http.HandlerFunc) http.HandlerFunc {
	return method(http.MethodPost, h)
}

func (s *Server) get(h http.HandlerFunc) http.HandlerFunc {
	return method(http.MethodGet, h)
}

func method(m string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != m {
			w.Header().Set("Allow", m)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h(w, r)
	}
}

// routeLabel 把请求路径归一成有限的指标标签。
func routeLabel(path string) string {
	p := strings.TrimPrefix(path, "/api")
	for _, r := range routes {
		if p == r {
			return r
		}
	}
	if path == "/metrics" {
		return path
	}
	return "other"
}

// --- Helpers ---

type errorResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Error: msg})
}

// statusFor maps the generator error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var verr *generator.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	var perr *generator.ProviderError
	if errors.As(err, &perr) {
		if perr.StatusCode >= 400 && perr.StatusCode <= 599 {
			return perr.StatusCode
		}
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// outcome 是指标里 operation 结果的分类。
func outcome(err error) string {
	var (
		verr *generator.ValidationError
		perr *generator.ProviderError
		uerr *generator.UnparsableOutputError
		serr *generator.ShapeError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "validation"
	case errors.As(err, &perr):
		return "provider"
	case errors.Is(err, generator.ErrEmptyCompletion):
		return "empty"
	case errors.As(err, &uerr):
		return "unparsable"
	case errors.As(err, &serr):
		return "shape"
	default:
		return "error"
	}
}
