package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIClientTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Model != "gpt-4o-mini" {
			t.Fatalf("unexpected model: %s", payload.Model)
		}
		if len(payload.Messages) != 2 || payload.Messages[1].Content != "Translate: [bonjour]。" {
			t.Fatalf("unexpected messages: %+v", payload.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":" hello "}}]}`))
	}))
	defer server.Close()

	client := &openAIClient{
		apiKey:   "secret",
		endpoint: server.URL,
		model:    "gpt-4o-mini",
		template: "Translate:",
		client:   server.Client(),
	}
	got, err := client.Translate(context.Background(), "bonjour")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected translation: %q", got)
	}
}

func TestOpenAIClientNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := &openAIClient{apiKey: "k", endpoint: server.URL, model: "m", template: "t", client: server.Client()}
	if _, err := client.Translate(context.Background(), "x"); err == nil {
		t.Fatal("expected error when no choices are returned")
	}
}
