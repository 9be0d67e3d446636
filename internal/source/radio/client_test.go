package radio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchNormalizesStations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/stations/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("countrycode") != "MX" {
			t.Errorf("country must be uppercased, got %q", q.Get("countrycode"))
		}
		if q.Get("hidebroken") != "true" {
			t.Errorf("hidebroken must be set")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"stationuuid": "uuid-1", "name": " Radio Centro ", "countrycode": "mx", "tags": "noticias,hablado", "url_resolved": "https://stream.example.com/centro", "favicon": "https://example.com/centro.png", "bitrate": 128},
			{"stationuuid": "uuid-2", "name": "Sin stream", "countrycode": "MX", "tags": ""},
			{"stationuuid": "", "name": "Sin uuid", "url": "https://stream.example.com/x"}
		]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	stations, err := client.Search(context.Background(), SearchParams{CountryCode: "mx"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(stations) != 1 {
		t.Fatalf("entries without uuid or stream must be dropped, got %d", len(stations))
	}

	st := stations[0]
	if st.StationUUID != "uuid-1" {
		t.Fatalf("unexpected uuid %q", st.StationUUID)
	}
	if st.Name != "Radio Centro" {
		t.Fatalf("name must be trimmed, got %q", st.Name)
	}
	if st.CountryCode != "MX" {
		t.Fatalf("country must be uppercased, got %q", st.CountryCode)
	}
	if st.Genre != "noticias" {
		t.Fatalf("genre must be the first tag, got %q", st.Genre)
	}
	if st.StreamURL != "https://stream.example.com/centro" {
		t.Fatalf("unexpected stream URL %q", st.StreamURL)
	}
}

func TestSearchDirectoryError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Search(context.Background(), SearchParams{CountryCode: "MX"}); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestFirstTag(t *testing.T) {
	tests := []struct {
		tags string
		want string
	}{
		{"noticias,hablado", "noticias"},
		{" , Pop ,rock", "pop"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstTag(tt.tags); got != tt.want {
			t.Fatalf("firstTag(%q) = %q, want %q", tt.tags, got, tt.want)
		}
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("   "); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
