package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"redbook_copy_assistant/generator"
	"redbook_copy_assistant/importer"
	"redbook_copy_assistant/metrics"
)

// --- Requests ---

// looseParams accepts a JSON object whose values may be strings, numbers or booleans.
type looseParams generator.ParameterSet

func (p *looseParams) UnmarshalJSON(b []byte) error {
	params, err := generator.ParamsFromJSON(b)
	if err != nil {
		return err
	}
	*p = looseParams(params)
	return nil
}

type parseReq struct {
	generator.APIConfig
	Text string `json:"text"`
}

type copyReq struct {
	generator.APIConfig
	Params      looseParams `json:"params"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Direction   string      `json:"direction"`
	Inspiration string      `json:"inspiration"`
}

func (r copyReq) copy() generator.Copy {
	return generator.Copy{Title: r.Title, Content: r.Content}
}

// --- Responses ---

type parseResp struct {
	Params     generator.ParameterSet    `json:"params"`
	Categories []generator.CategoryGroup `json:"categories"`
}

type verifyResp struct {
	Result generator.VerificationResult `json:"result"`
}

type inspireResp struct {
	Inspirations []string `json:"inspirations"`
}

type polishResp struct {
	Result generator.PolishedResult `json:"result"`
}

type importResp struct {
	Text string `json:"text"`
}

type directionResp struct {
	generator.Direction
	Structure []string `json:"structure"`
}

// --- Handlers ---

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseReq
	if !decodeBody(w, r, &req) {
		return
	}
	metrics.InputChars.WithLabelValues(generator.OpParse).Observe(float64(utf8.RuneCountInString(req.Text)))

	ctx, cancel := s.opContext(r)
	defer cancel()
	start := time.Now()
	params, err := s.agent.Parse(ctx, req.APIConfig, req.Text)
	s.observe(generator.OpParse, start, err)
	if err != nil {
		s.fail(w, r, generator.OpParse, err)
		return
	}
	writeJSON(w, http.StatusOK, parseResp{Params: params, Categories: generator.GroupByCategory(params)})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req copyReq
	if !decodeBody(w, r, &req) {
		return
	}
	metrics.InputChars.WithLabelValues(generator.OpVerify).Observe(float64(utf8.RuneCountInString(req.Title + req.Content)))

	ctx, cancel := s.opContext(r)
	defer cancel()
	start := time.Now()
	res, err := s.agent.Verify(ctx, req.APIConfig, generator.VerifyInput{
		Params: generator.ParameterSet(req.Params),
		Copy:   req.copy(),
	})
	s.observe(generator.OpVerify, start, err)
	if err != nil {
		s.fail(w, r, generator.OpVerify, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResp{Result: res})
}

func (s *Server) handleInspire(w http.ResponseWriter, r *http.Request) {
	var req copyReq
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := s.opContext(r)
	defer cancel()
	start := time.Now()
	list, err := s.agent.Inspire(ctx, req.APIConfig, generator.InspireInput{
		Params:    generator.ParameterSet(req.Params),
		Direction: req.Direction,
		Copy:      req.copy(),
	})
	s.observe(generator.OpInspire, start, err)
	if err != nil {
		s.fail(w, r, generator.OpInspire, err)
		return
	}
	writeJSON(w, http.StatusOK, inspireResp{Inspirations: list})
}

func (s *Server) handlePolish(w http.ResponseWriter, r *http.Request) {
	var req copyReq
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := s.opContext(r)
	defer cancel()
	start := time.Now()
	res, err := s.agent.Polish(ctx, req.APIConfig, generator.PolishInput{
		Params:      generator.ParameterSet(req.Params),
		Direction:   req.Direction,
		Inspiration: req.Inspiration,
		Copy:        req.copy(),
	})
	s.observe(generator.OpPolish, start, err)
	if err != nil {
		s.fail(w, r, generator.OpPolish, err)
		return
	}
	writeJSON(w, http.StatusOK, polishResp{Result: res})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.MaxBodyBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "请求体过大")
			return
		}
		writeError(w, http.StatusBadRequest, "请上传 Excel 文件")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "请上传 Excel 文件")
		return
	}
	defer file.Close()

	text, err := importer.SheetToText(file)
	if err != nil {
		msg := importer.ErrUnreadable.Error()
		if errors.Is(err, importer.ErrNoRows) {
			msg = importer.ErrNoRows.Error()
		}
		s.logger.Warn().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("import failed")
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusOK, importResp{Text: text})
}

func (s *Server) handleDirections(w http.ResponseWriter, r *http.Request) {
	dirs := generator.Directions()
	out := make([]directionResp, 0, len(dirs))
	for _, d := range dirs {
		tpl, _ := generator.TemplateFor(d.Key)
		out = append(out, directionResp{Direction: d, Structure: tpl.Sections})
	}
	writeJSON(w, http.StatusOK, map[string]any{"directions": out})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Helpers ---

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "请求体过大")
			return false
		}
		writeError(w, http.StatusBadRequest, "请求体不是有效的 JSON")
		return false
	}
	return true
}

func (s *Server) opContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
}

func (s *Server) observe(op string, start time.Time, err error) {
	metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.OperationsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	ev := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		ev = s.logger.Error()
	}
	ev.Err(err).
		Str("op", op).
		Str("request_id", RequestIDFromContext(r.Context())).
		Int("status", status).
		Msg("operation failed")
	writeError(w, status, err.Error())
}
