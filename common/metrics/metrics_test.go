package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandlerServesStatsviz(t *testing.T) {
	h, err := Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status expected 200, got %d", rec.Code)
	}
}
