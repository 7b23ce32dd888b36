// cyno — personal job-search assistant MCP server.
//
// Exposes job_search, job_match, resume_parse, lead_search, draft,
// route_request, and the application tracker over MCP (HTTP or stdio).
package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	twitter "github.com/anatolykoptev/go-twitter"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cyno-agent/cyno/internal/engine"
	"github.com/cyno-agent/cyno/internal/engine/jobs"
	"github.com/cyno-agent/cyno/internal/jobserver"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}
	mcpPort := env.Str("MCP_PORT", "8891")

	initEngine()

	slog.Info("starting cyno",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "cyno",
		Version: version,
	}, nil)

	jobserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 9))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "cyno",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:            env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks:   env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:           env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:             env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:       env.Float("LLM_TEMPERATURE", 0.1),
		LLMMaxTokens:         env.Int("LLM_MAX_TOKENS", 16384),
		OllamaURL:            env.Str("OLLAMA_URL", "http://127.0.0.1:11434"),
		OllamaModel:          env.Str("OLLAMA_MODEL", "llama3.2"),
		EmbedModel:           env.Str("EMBED_MODEL", "nomic-embed-text"),
		MaxFetchURLs:         env.Int("MAX_FETCH_URLS", 8),
		MaxContentChars:      env.Int("MAX_CONTENT_CHARS", 6000),
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 10*time.Second),
		MinJitter:            env.Duration("MIN_JITTER", 500*time.Millisecond),
		MaxJitter:            env.Duration("MAX_JITTER", 1500*time.Millisecond),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		OutputDir:            env.Str("OUTPUT_DIR", "jobs"),
		DatabaseURL:          env.Str("DATABASE_URL", ""),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(15))

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Error("stealth client init failed", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("stealth browser client initialized")
	}

	// Twitter client (optional — guest mode if no accounts configured)
	accounts := twitter.ParseAccounts(env.Str("TWITTER_ACCOUNTS", ""))
	openCount := 2
	if len(accounts) > 0 {
		openCount = 0
	}
	tw, err := twitter.NewClient(twitter.ClientConfig{
		Accounts:         accounts,
		OpenAccountCount: openCount,
	})
	if err != nil {
		slog.Warn("twitter client init failed", slog.Any("error", err))
	} else {
		c.TwitterClient = tw
		slog.Info("twitter client ready", slog.Int("pool_size", tw.Pool().Size()))
	}

	c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)

	engine.Init(c)

	// Application tracker (SQLite)
	trackerPath := env.Str("TRACKER_PATH", jobs.DefaultTrackerPath())
	if t, err := jobs.OpenTracker(trackerPath); err != nil {
		slog.Warn("tracker init failed", slog.Any("error", err))
	} else {
		jobs.SetTracker(t)
		slog.Info("tracker initialized", slog.String("path", trackerPath))
	}

	// Profile store (PostgreSQL)
	if c.DatabaseURL != "" {
		pdb, err := jobs.ConnectProfileDB(context.Background(), c.DatabaseURL)
		if err != nil {
			slog.Warn("profile DB init failed", slog.Any("error", err))
		} else {
			jobs.SetProfileDB(pdb)
			slog.Info("profile DB initialized")
		}
	}

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
