package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"go.uber.org/zap"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Page wraps list responses.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes err as a JSON error. Only apperr messages reach the client;
// anything else is logged and answered with a generic message.
func Error(w http.ResponseWriter, r *http.Request, log logger.ZapLogger, err error) {
	status, code := classify(err)
	msg := apperr.PublicMessage(err)

	if status >= http.StatusInternalServerError || msg == "" {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	if msg == "" || status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}

	JSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperr.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, apperr.ErrBusy):
		return http.StatusServiceUnavailable, "busy"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Wrap("httpx.Decode", apperr.ErrInvalidInput, "malformed request body", err)
	}
	return nil
}

// DecodeOptional is Decode for endpoints whose body may be omitted entirely.
func DecodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil
	}
	err := Decode(r, v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func QueryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func QueryFloat(r *http.Request, key string) *float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

func QueryBool(r *http.Request, key string) *bool {
	if v := r.URL.Query().Get(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return &b
		}
	}
	return nil
}

// MaxPageSize caps the page_size a client may request.
const MaxPageSize = 100

// Paging reads page and page_size. Pages start at 1; a missing, zero or
// negative page_size falls back to defaultSize, and larger sizes are capped.
func Paging(r *http.Request, defaultSize int) (page, pageSize int) {
	page = max(QueryInt(r, "page", 1), 1)
	pageSize = QueryInt(r, "page_size", defaultSize)
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	return page, min(pageSize, MaxPageSize)
}

// DateRange reads the from and to query parameters as YYYY-MM-DD. The returned
// upper bound is exclusive, so to covers the whole named day.
func DateRange(r *http.Request) (from, to *time.Time) {
	q := r.URL.Query()
	if t, err := time.Parse(time.DateOnly, q.Get("from")); err == nil {
		from = &t
	}
	if t, err := time.Parse(time.DateOnly, q.Get("to")); err == nil {
		end := t.AddDate(0, 0, 1)
		to = &end
	}
	return from, to
}
