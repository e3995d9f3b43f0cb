package store

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"
)

// readUpload splits a multipart media upload into its JSON metadata and
// its content.
func readUpload(t *testing.T, r *http.Request, meta any) []byte {
	t.Helper()
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		t.Errorf("upload content type: %v", err)
		return nil
	}
	mr := multipart.NewReader(r.Body, params["boundary"])

	part, err := mr.NextPart()
	if err != nil {
		t.Errorf("upload metadata part: %v", err)
		return nil
	}
	if err := json.NewDecoder(part).Decode(meta); err != nil {
		t.Errorf("upload metadata: %v", err)
		return nil
	}

	part, err = mr.NextPart()
	if err != nil {
		t.Errorf("upload media part: %v", err)
		return nil
	}
	data, err := io.ReadAll(part)
	if err != nil {
		t.Errorf("upload media: %v", err)
	}
	return data
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error": map[string]any{"code": http.StatusNotFound, "message": "Not Found"},
	})
}
