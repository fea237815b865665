package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const invalidDataMessage = "The given data was invalid."

type errorResponse struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
}

// writeJSON encodes payload before writing headers. An unencodable
// payload is answered with a 500 JSON error.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := encodeJSON(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = encodeJSON(errorResponse{Error: errEncodeResponse.Error()})
	}
	writeRawJSON(w, status, body)
}

func encodeJSON(payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errEncodeResponse, err)
	}
	return append(b, '\n'), nil
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func jsonValidationError(w http.ResponseWriter, errs map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: invalidDataMessage, Errors: errs})
}

// decodeJSON decodes an optional JSON body into dst. An empty body leaves
// dst unchanged.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
