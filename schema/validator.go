package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed article_entry.schema.json
var articleEntrySchemaJSON string

// ArticleEntry is a manually submitted article. The source URL doubles as the
// natural key.
type ArticleEntry struct {
	Title            string  `json:"titulo"`
	ShortDescription string  `json:"descripcion"`
	Category         string  `json:"categoria,omitempty"`
	SiteTag          string  `json:"sitio"`
	Country          string  `json:"pais,omitempty"`
	SourceURL        string  `json:"url"`
	ImageURL         string  `json:"imagen,omitempty"`
	Body             *string `json:"contenido,omitempty"`
	Language         string  `json:"idioma,omitempty"`
	PublishedAt      *string `json:"publicadoEn,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateArticleEntry checks a manual-entry payload against the embedded
// schema plus the semantic rules the schema cannot express.
func ValidateArticleEntry(payload json.RawMessage) (*ArticleEntry, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var entry ArticleEntry
	if err := json.Unmarshal(normalized, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := validateSemantics(&entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("article_entry.schema.json", strings.NewReader(articleEntrySchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("article_entry.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(entry *ArticleEntry) error {
	if entry == nil {
		return fmt.Errorf("payload is nil")
	}

	if strings.TrimSpace(entry.Title) == "" {
		return fmt.Errorf("titulo must not be empty")
	}
	if strings.TrimSpace(entry.ShortDescription) == "" {
		return fmt.Errorf("descripcion must not be empty")
	}
	if strings.TrimSpace(entry.SiteTag) == "" {
		return fmt.Errorf("sitio must not be empty")
	}

	if err := validateURI("url", entry.SourceURL); err != nil {
		return err
	}
	if strings.TrimSpace(entry.ImageURL) != "" {
		if err := validateURI("imagen", entry.ImageURL); err != nil {
			return err
		}
	}
	if entry.PublishedAt != nil {
		if _, err := time.Parse(time.RFC3339, strings.TrimSpace(*entry.PublishedAt)); err != nil {
			return fmt.Errorf("publicadoEn must be RFC3339: %w", err)
		}
	}

	return nil
}

func validateURI(fieldName, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("%s must not be empty", fieldName)
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return fmt.Errorf("%s is not a valid URI: %w", fieldName, err)
	}
	return nil
}
