package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
	"github.com/xeipuuv/gojsonschema"
)

// Backend names reported in GenerateResult.BackendUsed.
const (
	BackendCloud = "cloud"
	BackendLocal = "local"
)

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Generate runs a prompt through the cloud backend first and falls back to
// the local Ollama backend when the cloud call fails. It never returns an
// error — degradation is reported through the result so callers can decide
// how much to trust the text.
func Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) GenerateResult {
	IncrLLMCalls()

	var cloudErr, localErr error

	if cfg.LLMClient != nil {
		text, err := cfg.LLMClient.Complete(ctx, "", prompt,
			llm.WithChatTemperature(temperature),
			llm.WithChatMaxTokens(maxTokens),
		)
		if err == nil {
			return GenerateResult{Success: true, Text: stripFences(text), BackendUsed: BackendCloud}
		}
		cloudErr = err
		IncrLLMErrors()
		slog.Warn("llm: cloud backend failed, trying local", slog.Any("error", err))
	} else {
		cloudErr = errors.New("cloud backend not configured")
	}

	if cfg.OllamaURL != "" {
		IncrLLMFallbacks()
		text, err := ollamaGenerate(ctx, prompt, maxTokens, temperature)
		if err == nil {
			return GenerateResult{Success: true, Text: stripFences(text), BackendUsed: BackendLocal}
		}
		localErr = err
		IncrLLMErrors()
	} else {
		localErr = errors.New("local backend not configured")
	}

	return GenerateResult{
		Success: false,
		Error:   fmt.Sprintf("cloud: %v; local: %v", cloudErr, localErr),
	}
}

// CallLLM sends a prompt with the configured defaults and returns the text,
// for callers that need a hard error instead of a degradable result.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	res := Generate(ctx, prompt, cfg.LLMMaxTokens, cfg.LLMTemperature)
	if !res.Success {
		return "", errors.New(res.Error)
	}
	return res.Text, nil
}

// ollamaGenerate calls the local Ollama /api/generate endpoint.
func ollamaGenerate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	reqBody := map[string]any{
		"model":  cfg.OllamaModel,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"num_predict": maxTokens,
			"temperature": temperature,
		},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(cfg.OllamaURL, "/")+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama: status %d", resp.StatusCode)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ollama decode: %w", err)
	}
	return out.Response, nil
}

// ExtractJSONObject pulls the first balanced JSON object out of raw LLM
// output, tolerating leading prose and code fences.
func ExtractJSONObject(raw string) string {
	raw = stripFences(raw)
	start := strings.Index(raw, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1]
				}
			}
		}
	}
	return ""
}

// UnmarshalLLMJSON extracts a JSON object from raw LLM output, validates it
// against the given JSON schema, and decodes it into v.
func UnmarshalLLMJSON(raw, schema string, v any) error {
	doc := ExtractJSONObject(raw)
	if doc == "" {
		return fmt.Errorf("no JSON object in LLM output (%s)", Truncate(raw, 120))
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("LLM output failed schema: %s", strings.Join(msgs, "; "))
	}

	return json.Unmarshal([]byte(doc), v)
}
