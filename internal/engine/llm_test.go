package engine

import (
	"strings"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"leading prose", `Sure! Here you go: {"a":1}`, `{"a":1}`},
		{"code fences", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"nested objects", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"brace inside string", `{"a":"}{"}`, `{"a":"}{"}`},
		{"escaped quote inside string", `{"a":"say \"hi\""}`, `{"a":"say \"hi\""}`},
		{"trailing prose", `{"a":1} hope that helps`, `{"a":1}`},
		{"no object", `sorry, I cannot`, ""},
		{"unbalanced", `{"a":1`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONObject(tt.raw); got != tt.want {
				t.Errorf("ExtractJSONObject(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestUnmarshalLLMJSON(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {
			"action": {"type": "string"},
			"count": {"type": "integer"}
		},
		"required": ["action"]
	}`

	var out struct {
		Action string `json:"action"`
		Count  int    `json:"count"`
	}

	raw := "Here is the result:\n```json\n{\"action\": \"job_search\", \"count\": 3}\n```"
	if err := UnmarshalLLMJSON(raw, schema, &out); err != nil {
		t.Fatalf("UnmarshalLLMJSON() error = %v", err)
	}
	if out.Action != "job_search" || out.Count != 3 {
		t.Errorf("decoded = %+v", out)
	}

	// Missing required field fails validation.
	if err := UnmarshalLLMJSON(`{"count": 3}`, schema, &out); err == nil {
		t.Error("expected schema violation for missing action")
	}

	// Wrong type fails validation.
	if err := UnmarshalLLMJSON(`{"action": "x", "count": "three"}`, schema, &out); err == nil {
		t.Error("expected schema violation for string count")
	}

	// No JSON at all.
	err := UnmarshalLLMJSON("no json here", schema, &out)
	if err == nil || !strings.Contains(err.Error(), "no JSON object") {
		t.Errorf("err = %v, want no-JSON error", err)
	}
}

func TestStripFences(t *testing.T) {
	if got := stripFences("```json\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Errorf("stripFences() = %q", got)
	}
	if got := stripFences("plain text"); got != "plain text" {
		t.Errorf("stripFences() = %q", got)
	}
}
