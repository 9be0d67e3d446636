package video

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPSearcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Reforma aprobada" {
			t.Errorf("unexpected query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url": " https://videos.example.com/reforma "}`))
	}))
	defer server.Close()

	s := NewHTTPSearcher(server.URL, nil)
	url, err := s.Search(context.Background(), "Reforma aprobada")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if url != "https://videos.example.com/reforma" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestHTTPSearcherNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"url": ""}`))
	}))
	defer server.Close()

	s := NewHTTPSearcher(server.URL, nil)
	url, err := s.Search(context.Background(), "sin resultados")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if url != "" {
		t.Fatalf("expected empty url on no match, got %q", url)
	}
}

func TestHTTPSearcherUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := NewHTTPSearcher(server.URL, nil)
	if _, err := s.Search(context.Background(), "x"); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}
