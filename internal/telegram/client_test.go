package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"noticias.lat/hub/internal/db"
)

func TestSendMessage(t *testing.T) {
	var captured sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "@canal", WithBaseURL(server.URL))
	if err := client.SendMessage(context.Background(), "hola"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if captured.ChatID != "@canal" {
		t.Fatalf("unexpected chat id %q", captured.ChatID)
	}
	if captured.Text != "hola" {
		t.Fatalf("unexpected text %q", captured.Text)
	}
	if captured.ParseMode != "HTML" {
		t.Fatalf("unexpected parse mode %q", captured.ParseMode)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok": false, "error_code": 400, "description": "chat not found"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "@canal", WithBaseURL(server.URL))
	err := client.SendMessage(context.Background(), "hola")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("error must carry the API description, got %v", err)
	}
}

func TestSendMessageUnconfigured(t *testing.T) {
	client := NewClient("", "")
	if err := client.SendMessage(context.Background(), "hola"); err == nil {
		t.Fatal("expected error for unconfigured client")
	}
}

func TestFormatArticle(t *testing.T) {
	posted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	article := &db.Article{
		Title:            "Reforma <aprobada> & firmada",
		ShortDescription: "Detalles de la votación.",
		SourceURL:        "https://example.com/reforma",
		PublishedAt:      posted,
	}

	msg := FormatArticle(article)

	if !strings.HasPrefix(msg, "<b>Reforma &lt;aprobada&gt; &amp; firmada</b>") {
		t.Fatalf("title must be bold and escaped, got %q", msg)
	}
	if !strings.Contains(msg, "Detalles de la votación.") {
		t.Fatalf("description missing: %q", msg)
	}
	if !strings.Contains(msg, "https://example.com/reforma") {
		t.Fatalf("source link missing: %q", msg)
	}
}

func TestFormatArticleMinimal(t *testing.T) {
	msg := FormatArticle(&db.Article{Title: "Solo título"})
	if msg != "<b>Solo título</b>" {
		t.Fatalf("unexpected message %q", msg)
	}
}
