package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
	twitter "github.com/anatolykoptev/go-twitter"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int

	// Local LLM fallback (Ollama). Empty OllamaURL disables the local backend.
	OllamaURL   string
	OllamaModel string
	EmbedModel  string

	FetchTimeout    time.Duration
	MaxFetchURLs    int
	MaxContentChars int

	// Pre-request jitter window. Both zero disables jitter (tests).
	MinJitter time.Duration
	MaxJitter time.Duration

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	// OutputDir is where search audit files are written.
	OutputDir string

	DatabaseURL string

	HTTPClient    *http.Client
	BrowserClient *BrowserClient  // nil = browser-backed scrapers disabled
	TwitterClient *twitter.Client // nil = Twitter sources disabled
	LLMClient     *llm.Client     // nil = cloud backend disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (jobs, jobserver).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
