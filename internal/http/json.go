package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// errCodeInvalidJSON labels request bodies that fail decoding; handlers keep
// their own, more specific error codes.
const errCodeInvalidJSON = "invalid_json"

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
// On failure the 400 response has already been written and false is returned.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: errCodeInvalidJSON, Err: err})
		return false
	}
	return true
}

// WriteJSON encodes v into a buffer before touching the ResponseWriter, so an
// encoding failure still yields a clean 500 rather than a half-written body.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// A short write here means the client went away; nothing left to do.
	_, _ = buf.WriteTo(w)
}

// ErrorParams carries the HTTP status, the machine-readable error code, and
// the error whose message becomes the response body.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes the standard error body: {"error": ..., "message": ...}.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}
