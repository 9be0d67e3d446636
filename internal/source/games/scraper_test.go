package games

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const listingFixture = `
<html><body>
<div class="grid">
  <div class="game-card">
    <h3>Carrera Turbo</h3>
    <a href="https://juegos.example.com/play/carrera-turbo/"><img src="https://cdn.example.com/turbo.webp"></a>
    <span class="category">Arcade</span>
    <p>Corre contra el tiempo.</p>
  </div>
  <div class="game-card">
    <h3>Sudoku Diario</h3>
    <a href="/play/sudoku-diario"></a>
  </div>
  <div class="game-card">
    <h3></h3>
    <a href="/play/sin-titulo"></a>
  </div>
</div>
</body></html>`

func newTestScraper(t *testing.T) *Scraper {
	t.Helper()
	s, err := NewScraper(Config{
		BaseURL:       "https://juegos.example.com",
		ItemSelector:  "div.game-card",
		PlayerBaseURL: "https://noticias.lat/juegos",
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewScraper: %v", err)
	}
	return s
}

func TestParseListing(t *testing.T) {
	s := newTestScraper(t)

	candidates, err := s.Parse(strings.NewReader(listingFixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.Key != "carrera-turbo" {
		t.Fatalf("slug must come from the last path segment, got %q", first.Key)
	}
	if first.Title != "Carrera Turbo" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if first.Category != "arcade" {
		t.Fatalf("category must be lowercased, got %q", first.Category)
	}
	if first.PlayURL != "https://noticias.lat/juegos/carrera-turbo" {
		t.Fatalf("unexpected play URL %q", first.PlayURL)
	}
	if first.ShortDescription != "Corre contra el tiempo." {
		t.Fatalf("unexpected description %q", first.ShortDescription)
	}

	second := candidates[1]
	if second.Key != "sudoku-diario" {
		t.Fatalf("unexpected slug %q", second.Key)
	}
	if second.ShortDescription != second.Title {
		t.Fatalf("missing description must fall back to the title, got %q", second.ShortDescription)
	}
}

// A redesigned page that no longer matches the selectors yields an empty
// result, not an error: the sync reports zero new items.
func TestParseStructureDrift(t *testing.T) {
	s := newTestScraper(t)

	candidates, err := s.Parse(strings.NewReader(`<html><body><section class="new-layout"></section></body></html>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected empty result on structure drift, got %d", len(candidates))
	}
}

func TestSlugFromHref(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"https://example.com/play/Mi-Juego/", "mi-juego"},
		{"/play/otro-juego", "otro-juego"},
		{"", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		if got := slugFromHref(tt.href); got != tt.want {
			t.Fatalf("slugFromHref(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
