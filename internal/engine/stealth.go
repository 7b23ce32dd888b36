package engine

import (
	stealth "github.com/anatolykoptev/go-stealth"
)

// Browser-client surface re-exported for engine consumers.
// Retry semantics live in retry.go, not in the library helpers.
type BrowserClient = stealth.BrowserClient

func ChromeHeaders() map[string]string { return stealth.ChromeHeaders() }
func RandomUserAgent() string          { return stealth.RandomUserAgent() }
