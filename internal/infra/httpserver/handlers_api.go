package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/infra/apiwire"
)

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req apiwire.BalanceRequest
	if err := dec.Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, apiwire.ErrorResponse{
			Error: apiwire.ErrorBody{
				Kind:    "bad_request",
				Message: decodeMessage(err),
			},
		})
		return
	}

	in, err := apiwire.MapRequest(req, s.cfg.Sweetener.Brix)
	if err != nil {
		s.writeError(w, err)
		return
	}
	policy, override, err := apiwire.MapDilution(req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	b, err := s.computeFor(policy, override).Execute(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}

	explain, _ := strconv.ParseBool(r.URL.Query().Get("explain"))
	s.writeJSON(w, http.StatusOK, apiwire.NewBalanceResponse(b, s.cfg.Display.Precision, explain))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.deps.Version,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, apiwire.ErrorResponse{
		Error: apiwire.ErrorBody{
			Kind:    string(domain.KindNotFound),
			Message: "no route for " + r.Method + " " + r.URL.Path,
		},
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.deps.Logger.Error("http.internal_error", "err", err)
	}
	s.writeJSON(w, status, apiwire.NewErrorResponse(err))
}

// writeJSON encodes v before writing the status so an encoding failure is
// reported as a 500 instead of an empty 200.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.deps.Logger.Error("http.encode_failed", "err", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(apiwire.NewErrorResponse(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// statusFor maps domain error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case domain.IsUserError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeMessage(err error) string {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return "request body too large"
	}
	return "malformed JSON body: " + err.Error()
}
