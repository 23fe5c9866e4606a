package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mermaidboard/pkg/buildinfo"
	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/history"
	"github.com/matzehuels/mermaidboard/pkg/pipeline"
	"github.com/matzehuels/mermaidboard/pkg/platform"
)

const maxHistoryLimit = 500

// ParseRequest is the body of POST /api/parse.
type ParseRequest struct {
	Code string `json:"code" validate:"required"`
}

// ErrorResponse is the body of every non-pipeline error.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     string      `json:"error"`
	Code      errors.Code `json:"code"`
	RequestID string      `json:"request_id,omitempty"`
}

// PlatformsResponse is the body of GET /api/platforms.
type PlatformsResponse struct {
	Platforms []platform.Status `json:"platforms"`
}

// HistoryResponse is the body of GET /api/history.
type HistoryResponse struct {
	History []history.Entry `json:"history"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		s.fail(w, r, err)
		return
	}

	out := s.runner.ParseOutput(r.Context(), req.Code)
	status := http.StatusOK
	if !out.Success {
		status = statusFor(out.Code)
	}
	s.respondJSON(w, status, out)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req pipeline.ConvertRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		s.fail(w, r, err)
		return
	}

	out, err := s.runner.Convert(r.Context(), req)
	if err != nil {
		status := statusFor(out.Code)
		if status >= http.StatusInternalServerError {
			s.logger.Warn("conversion failed",
				"platform", req.Platform,
				"code", out.Code,
				"shapes", out.ShapesCreated,
				"connectors", out.ConnectorsCreated,
				"err", err)
		}
		s.respondJSON(w, status, out)
		return
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	check := false
	if v := r.URL.Query().Get("check"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "check must be a boolean, got %q", v))
			return
		}
		check = b
	}
	s.respondJSON(w, http.StatusOK, PlatformsResponse{Platforms: s.runner.Platforms(r.Context(), check)})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be an integer, got %q", v))
			return
		}
		if err := validateVar("limit", n, "gte=0,lte="+strconv.Itoa(maxHistoryLimit)); err != nil {
			s.fail(w, r, err)
			return
		}
		limit = n
	}

	entries, err := s.runner.History(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, HistoryResponse{History: entries})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeParse, errors.ErrCodeUnsupportedKind,
		errors.ErrCodeGraphIntegrity, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodePlatformNotFound, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized, errors.ErrCodeForbidden, errors.ErrCodePlatformAPI,
		errors.ErrCodeNetwork, errors.ErrCodePartial:
		return http.StatusBadGateway
	case errors.ErrCodeRateLimited:
		return http.StatusServiceUnavailable
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
	}
	s.respondJSON(w, status, ErrorResponse{
		Error:     errors.UserMessage(err),
		Code:      code,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	code := errors.ErrCodeInvalidInput
	if status == http.StatusNotFound {
		code = errors.ErrCodeNotFound
	}
	s.respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}
