package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"noticias.lat/hub/internal/langdetect"
	"noticias.lat/hub/internal/reader"
)

// DefaultMinInputChars is the smallest input worth a paid generation call.
const DefaultMinInputChars = 120

// maxPromptChars caps the source material sent to the provider; readability
// extractions of long pages can otherwise blow the provider's context window.
const maxPromptChars = 6000

// Input is the material available for one enrichment attempt.
type Input struct {
	Title    string
	Category string
	BodyText string
}

// Service wraps a Generator with the pipeline's enrichment policy: inputs
// below the minimum length are skipped, and any provider or transport
// failure degrades to "no enrichment". The empty string is a normal outcome,
// never an error.
type Service struct {
	gen           Generator
	minInputChars int
	logger        zerolog.Logger
}

func NewService(gen Generator, minInputChars int, logger zerolog.Logger) *Service {
	if minInputChars <= 0 {
		minInputChars = DefaultMinInputChars
	}
	return &Service{
		gen:           gen,
		minInputChars: minInputChars,
		logger:        logger.With().Str("component", "enrich").Logger(),
	}
}

// Enrich returns generated body text for the input, or "" when enrichment is
// skipped or fails.
func (s *Service) Enrich(ctx context.Context, in Input) string {
	if s == nil || s.gen == nil {
		return ""
	}

	material := buildMaterial(in)
	if len([]rune(material)) < s.minInputChars {
		s.logger.Debug().Str("title", in.Title).Msg("input below minimum length, skipping enrichment")
		return ""
	}

	material, clipped := reader.TruncateText(material, maxPromptChars)
	if clipped {
		s.logger.Debug().Str("title", in.Title).Msg("input clipped to prompt limit")
	}

	prompt := buildPrompt(in.Title, material)
	text, err := s.gen.Generate(ctx, Request{
		System: systemPromptFor(material),
		Prompt: prompt,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("title", in.Title).Msg("enrichment failed, continuing without it")
		return ""
	}
	return text
}

// buildMaterial prefers real body text; items without one fall back to
// title plus category.
func buildMaterial(in Input) string {
	if body := strings.TrimSpace(in.BodyText); body != "" {
		return body
	}
	parts := make([]string, 0, 2)
	if title := strings.TrimSpace(in.Title); title != "" {
		parts = append(parts, title)
	}
	if category := strings.TrimSpace(in.Category); category != "" {
		parts = append(parts, category)
	}
	return strings.Join(parts, " — ")
}

func buildPrompt(title, material string) string {
	return fmt.Sprintf("Título: %s\n\nTexto fuente:\n%s", strings.TrimSpace(title), material)
}

// systemPromptFor picks the instruction language to match the source text.
func systemPromptFor(material string) string {
	if langdetect.DetectISO6391(material) == "en" {
		return "You are an editor. Write a clear, neutral summary of the source text in two short paragraphs. Do not invent facts."
	}
	return "Eres un editor. Escribe un resumen claro y neutral del texto fuente en dos párrafos cortos. No inventes datos."
}
