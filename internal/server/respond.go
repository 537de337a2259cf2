package server

import (
	"encoding/json"
	"net/http"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
)

type errorBody struct {
	Code  errs.Code `json:"code"`
	Error string    `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to its HTTP status.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidName, errs.ErrCodeInvalidFormula, errs.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeCircular:
		return http.StatusConflict
	case errs.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Code: code, Error: errs.UserMessage(err)})
}
