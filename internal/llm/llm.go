package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Backend selects the wire protocol used to reach the model.
type Backend string

const (
	BackendOllama Backend = "ollama"
	BackendOpenAI Backend = "openai"
)

const (
	DefaultOllamaEndpoint = "http://localhost:11434/api/generate"
	DefaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
)

// ErrEmptyText is returned when there is nothing to translate.
var ErrEmptyText = errors.New("text to translate is empty")

// Config describes how to build a Translator.
type Config struct {
	Backend        Backend
	Endpoint       string
	Model          string
	PromptTemplate string
	APIKey         string
	HTTPClient     *http.Client
}

// Translator sends one piece of text to a model and returns its translation.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	Name() string
}

// New builds the Translator for cfg.Backend. An empty backend means Ollama.
func New(cfg Config) (Translator, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if strings.TrimSpace(cfg.PromptTemplate) == "" {
		return nil, fmt.Errorf("prompt template is required")
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)

	switch cfg.Backend {
	case "", BackendOllama:
		if endpoint == "" {
			endpoint = DefaultOllamaEndpoint
		}
		return &ollamaClient{
			endpoint: endpoint,
			model:    model,
			template: cfg.PromptTemplate,
			client:   pickHTTPClient(cfg.HTTPClient),
		}, nil
	case BackendOpenAI:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, fmt.Errorf("openai backend requires an API key")
		}
		if endpoint == "" {
			endpoint = DefaultOpenAIEndpoint
		}
		return &openAIClient{
			apiKey:   cfg.APIKey,
			endpoint: endpoint,
			model:    model,
			template: cfg.PromptTemplate,
			client:   pickHTTPClient(cfg.HTTPClient),
		}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// No client-side timeout: a slow generation keeps the loading indicator up
	// until the caller's context gives up.
	return &http.Client{}
}

// BuildPrompt embeds text in the configured template the way the endpoint
// expects it: "<template> [<text>]。".
func BuildPrompt(template, text string) string {
	return fmt.Sprintf("%s [%s]。", strings.TrimSpace(template), text)
}
