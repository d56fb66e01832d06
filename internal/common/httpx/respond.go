package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
)

// WriteJSON отдаёт JSON с нужным статусом
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteProblem writes the simplified RFC 7807 error body used by every endpoint.
func WriteProblem(w http.ResponseWriter, code int, typ, detail string) {
	WriteJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

var ErrBodyTooLarge = errors.New("request body too large")

// ReadBody reads at most limit bytes of the request body.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = 1 << 20
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, ErrBodyTooLarge
		}
		return nil, err
	}
	return body, nil
}

// DecodeJSON reads, schema-validates (when schema is non-nil) and decodes the body into dst.
// It writes the error response itself and reports whether the caller may continue.
func DecodeJSON(w http.ResponseWriter, r *http.Request, limit int64, schema *Schema, dst any) bool {
	body, err := ReadBody(w, r, limit)
	if err != nil {
		if errors.Is(err, ErrBodyTooLarge) {
			WriteProblem(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
			return false
		}
		WriteProblem(w, http.StatusBadRequest, "bad_request", "cannot read body")
		return false
	}
	if schema != nil {
		if err := schema.Validate(body); err != nil {
			WriteProblem(w, http.StatusBadRequest, "validation_error", err.Error())
			return false
		}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		WriteProblem(w, http.StatusBadRequest, "bad_json", "Invalid JSON body")
		return false
	}
	return true
}

// AtoiDefault: безопасный парсер int с дефолтом
func AtoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
