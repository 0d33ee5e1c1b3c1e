package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter_CapturesStatus(t *testing.T) {
	wrapped := wrapResponseWriter(httptest.NewRecorder())

	if wrapped.Status() != 0 {
		t.Errorf("Status() = %d before any write, want 0", wrapped.Status())
	}

	wrapped.WriteHeader(http.StatusNotFound)
	if wrapped.Status() != http.StatusNotFound {
		t.Errorf("Status() = %d, want %d", wrapped.Status(), http.StatusNotFound)
	}

	wrapped.WriteHeader(http.StatusOK)
	if wrapped.Status() != http.StatusNotFound {
		t.Errorf("Status() = %d after second WriteHeader, want first status %d", wrapped.Status(), http.StatusNotFound)
	}
}

func TestResponseWriter_CountsBytes(t *testing.T) {
	wrapped := wrapResponseWriter(httptest.NewRecorder())

	wrapped.Write([]byte("hello"))
	wrapped.Write([]byte(" world"))

	if wrapped.bytes != 11 {
		t.Errorf("bytes = %d, want 11", wrapped.bytes)
	}
}

func TestLogging_PassesStatusThrough(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
}

func TestLogging_DefaultsToOKWhenOnlyBodyWritten(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "ok" {
		t.Errorf("body = %q, want %q", rr.Body.String(), "ok")
	}
}
