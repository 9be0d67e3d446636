package payloadschema

import (
	"encoding/json"
	"testing"
)

func validPayload() map[string]any {
	return map[string]any{
		"titulo":      "Nueva reforma aprobada",
		"descripcion": "El congreso aprobó la reforma.",
		"categoria":   "politica",
		"sitio":       "noticias.lat",
		"pais":        "MX",
		"url":         "https://example.com/reforma",
		"imagen":      "https://example.com/reforma.jpg",
		"publicadoEn": "2025-06-01T12:00:00Z",
	}
}

func marshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func TestValidateArticleEntry(t *testing.T) {
	entry, err := ValidateArticleEntry(marshal(t, validPayload()))
	if err != nil {
		t.Fatalf("ValidateArticleEntry: %v", err)
	}

	if entry.Title != "Nueva reforma aprobada" {
		t.Fatalf("unexpected title %q", entry.Title)
	}
	if entry.SourceURL != "https://example.com/reforma" {
		t.Fatalf("unexpected url %q", entry.SourceURL)
	}
	if entry.PublishedAt == nil {
		t.Fatal("expected publicadoEn to be present")
	}
}

func TestValidateArticleEntryMissingRequired(t *testing.T) {
	for _, field := range []string{"titulo", "descripcion", "sitio", "url"} {
		payload := validPayload()
		delete(payload, field)

		if _, err := ValidateArticleEntry(marshal(t, payload)); err == nil {
			t.Fatalf("expected error for missing %s", field)
		}
	}
}

func TestValidateArticleEntryRejectsUnknownField(t *testing.T) {
	payload := validPayload()
	payload["campoDesconocido"] = "x"

	if _, err := ValidateArticleEntry(marshal(t, payload)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidateArticleEntryRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"blank title", "titulo", "   "},
		{"invalid url", "url", "not a url"},
		{"invalid image", "imagen", "::::"},
		{"invalid timestamp", "publicadoEn", "ayer"},
		{"numeric title", "titulo", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			payload[tt.key] = tt.value

			if _, err := ValidateArticleEntry(marshal(t, payload)); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestValidateArticleEntryRejectsMalformedJSON(t *testing.T) {
	if _, err := ValidateArticleEntry(json.RawMessage(`{"titulo": `)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if _, err := ValidateArticleEntry(json.RawMessage(``)); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := ValidateArticleEntry(json.RawMessage(`{}{}`)); err == nil {
		t.Fatal("expected error for trailing content")
	}
}
