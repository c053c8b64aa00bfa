package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cablemoment/pkg/buildinfo"
	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/io"
	"github.com/matzehuels/cablemoment/pkg/pipeline"
	"github.com/matzehuels/cablemoment/pkg/sizing"
	"github.com/matzehuels/cablemoment/pkg/store"
)

// MomentRequest is the body of POST /v1/moment.
type MomentRequest struct {
	Network io.Network     `json:"network"`
	Options RequestOptions `json:"options"`
}

// RequestOptions are the per-request computation settings. Zero fields
// fall back to the server defaults.
type RequestOptions struct {
	Tolerance float64         `json:"tolerance,omitempty"`
	Scale     float64         `json:"scale,omitempty"`
	Sizing    *sizing.Options `json:"sizing,omitempty"`
	Fix       bool            `json:"fix,omitempty"`
	Persist   bool            `json:"persist,omitempty"`
	Refresh   bool            `json:"refresh,omitempty"`
}

// ListResponse is the body of GET /v1/results.
type ListResponse struct {
	Results []*store.Record `json:"results"`
}

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// diagramTypes maps formats to response content types.
var diagramTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleMoment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req MomentRequest
	if err := dec.Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if stderrors.As(err, &tooBig) {
			writeError(w, r, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput),
				"request body exceeds "+strconv.FormatInt(tooBig.Limit, 10)+" bytes")
			return
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}

	opts := s.options(req.Options)
	rec, _, err := s.runner.ComputeWithCacheInfo(r.Context(), &req.Network, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !req.Options.Fix {
		rec.Network = nil // the caller already has it
	}
	writeJSON(w, http.StatusOK, rec)
}

// options merges request settings over the server defaults.
func (s *Server) options(ro RequestOptions) pipeline.Options {
	opts := s.cfg.Defaults
	opts.Logger = nil
	if ro.Tolerance != 0 {
		opts.Tolerance = ro.Tolerance
	}
	if ro.Scale != 0 {
		opts.Scale = ro.Scale
	}
	if ro.Sizing != nil {
		opts.Sizing = ro.Sizing
	}
	opts.Fix = ro.Fix
	opts.Persist = ro.Persist
	opts.Refresh = ro.Refresh
	return opts
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	st, ok := s.requireStore(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	recs, err := st.ListResults(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Results: recs})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRecord(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRecord(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		Formats:   []string{format},
		Detailed:  q.Get("detailed") == "true",
		Highlight: q.Get("highlight") == "true",
	}
	artifacts, err := s.runner.Render(r.Context(), rec, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", diagramTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	st, ok := s.requireStore(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := st.DeleteResult(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadRecord(w http.ResponseWriter, r *http.Request) (*store.Record, bool) {
	st, ok := s.requireStore(w, r)
	if !ok {
		return nil, false
	}
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	rec, err := st.GetResult(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return rec, true
}

func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) (store.Store, bool) {
	if s.runner.Store == nil {
		s.fail(w, r, errors.New(errors.ErrCodeUnsupported, "no result store is configured"))
		return nil, false
	}
	return s.runner.Store, true
}

// fail maps err onto a status code and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := clientMessage(err)
	if status >= 500 {
		s.logger.Error("request failed", "request_id", RequestIDFromContext(r.Context()), "err", err)
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	}
	writeError(w, r, status, code, msg)
}

// clientMessage is the error message without its code, followed by the
// cause when there is one.
func clientMessage(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return errors.UserMessage(err)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: msg},
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
