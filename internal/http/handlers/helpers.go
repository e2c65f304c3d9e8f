package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	httpmw "courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/logx"
)

const bodyLimit = 1 << 20

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Warn("json encode failed", logx.String("req_id", reqID(r.Context())), logx.Err(err))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	logger.Info("http error",
		logx.String("req_id", reqID(r.Context())),
		logx.Int("status", status),
		logx.String("msg", msg),
	)
	writeJSON(logger, w, r, status, errResponse{Error: msg})
}

// writeDomainError maps a usecase error onto a status. Unclassified errors
// are logged in full and answered with a generic 500.
func writeDomainError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", logx.String("req_id", reqID(r.Context())), logx.Err(err))
		writeError(logger, w, r, status, "internal error")
		return
	}
	writeError(logger, w, r, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidTransition), errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrAddressUnresolved):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	return true
}

func idFromURL(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// caller returns the identity put in the context by httpmw.Identify.
func caller(r *http.Request) (domain.Caller, bool) {
	return httpmw.CallerFrom(r.Context())
}

// self reports whether the caller acts on its own record.
func self(r *http.Request, role domain.Role, id int64) bool {
	c, ok := caller(r)
	return ok && c.Role == role && c.ID == id
}
