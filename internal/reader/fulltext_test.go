package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"collapses inline whitespace", "Una   nota\t importante", "Una nota importante"},
		{"normalizes crlf and drops blank lines", "Primer párrafo.\r\n\r\n\r\nSegundo párrafo.\r", "Primer párrafo.\n\nSegundo párrafo."},
		{"trims edges", "  \n  texto  \n  ", "texto"},
		{"empty input", "   \r\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.raw); got != tt.want {
				t.Fatalf("CleanText(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		maxChars    int
		want        string
		wantClipped bool
	}{
		{"short input untouched", "hola mundo", 20, "hola mundo", false},
		{"exact length untouched", "12345", 5, "12345", false},
		{"clipped with ellipsis", "La reforma fue aprobada", 11, "La reforma…", true},
		{"multibyte runes counted as chars", "ñandú ñandú", 6, "ñandú…", true},
		{"zero max disables clipping", "cualquier texto", 0, "cualquier texto", false},
		{"single char budget", "texto", 1, "…", true},
		{"blank input", "   ", 5, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clipped := TruncateText(tt.raw, tt.maxChars)
			if got != tt.want {
				t.Fatalf("TruncateText(%q, %d) = %q, want %q", tt.raw, tt.maxChars, got, tt.want)
			}
			if clipped != tt.wantClipped {
				t.Fatalf("TruncateText(%q, %d) clipped = %v, want %v", tt.raw, tt.maxChars, clipped, tt.wantClipped)
			}
		})
	}
}

func TestFetchTextPlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "noticias.lat") {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Primera  línea.\r\n\r\nSegunda   línea.\r\n"))
	}))
	defer server.Close()

	text, err := FetchText(context.Background(), server.URL, "Título")
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if text != "Primera línea.\n\nSegunda línea." {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestFetchTextExtractsArticleBody(t *testing.T) {
	paragraph := strings.Repeat("El congreso aprobó la reforma tras un largo debate en el pleno. ", 10)
	page := "<html><head><title>Nota</title></head><body>" +
		"<nav><a href=\"/\">Inicio</a></nav>" +
		"<article><h1>Reforma aprobada</h1><p>" + paragraph + "</p><p>" + paragraph + "</p></article>" +
		"</body></html>"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	text, err := FetchText(context.Background(), server.URL, "Reforma aprobada")
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if !strings.Contains(text, "El congreso aprobó la reforma") {
		t.Fatalf("extracted text must carry the article body, got %q", text)
	}
	if strings.Contains(text, "Inicio") {
		t.Fatalf("navigation chrome must be stripped, got %q", text)
	}
}

func TestFetchTextErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if _, err := FetchText(context.Background(), server.URL, "Título"); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestFetchTextRequiresURL(t *testing.T) {
	if _, err := FetchText(context.Background(), "   ", "Título"); err == nil {
		t.Fatal("expected error for empty source URL")
	}
}
