package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"veloura/ratelim"
)

func TestWrongMethodGetsJSONError(t *testing.T) {
	router := setupRouter(ratelim.NewRateLimiter())

	for _, path := range []string{"/api/create-order", "/api/verify-payment"} {
		req := httptest.NewRequest(http.MethodPut, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d, want 405", path, w.Code)
			continue
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s: Content-Type = %q, want application/json", path, ct)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Errorf("%s: body is not JSON: %v", path, err)
			continue
		}
		if body["error"] == "" {
			t.Errorf("%s: body %q carries no error field", path, w.Body.String())
		}
	}
}
