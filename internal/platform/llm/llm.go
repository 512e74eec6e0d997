package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Options tunes a single prompt call. Nil/zero fields fall back to the
// client defaults.
type Options struct {
	Temperature *float64
	MaxTokens   int
	// JSON asks the provider for a JSON object response when supported.
	JSON bool
}

type Completion struct {
	Text       string
	TokensUsed int
	Model      string
}

// Client is the text-generation boundary used by lesson generation.
type Client interface {
	Prompt(ctx context.Context, prompt string, opts Options) (Completion, error)
	Provider() string
}

// ProviderError is returned by clients when the upstream API rejects a call.
type ProviderError struct {
	Provider   string
	StatusCode int
	// Code is the provider's own error code/status string, e.g.
	// "rate_limit_exceeded" or "RESOURCE_EXHAUSTED".
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	parts := []string{e.Provider}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("http %d", e.StatusCode))
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	msg := strings.Join(parts, " ")
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *ProviderError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (e *ProviderError) ProviderCode() string {
	if e == nil {
		return ""
	}
	return e.Code
}

func Temperature(v float64) *float64 { return &v }

// CleanJSONText strips markdown code fences and any prose around the first
// JSON object or array in text.
func CleanJSONText(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```JSON")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	for i := start; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		if end := balancedEnd(text, i); end > i && json.Valid([]byte(text[i:end+1])) {
			return text[i : end+1]
		}
	}
	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end < start {
		return text[start:]
	}
	return text[start : end+1]
}

// balancedEnd returns the index of the delimiter closing the one at start,
// skipping brackets inside JSON strings, or -1.
func balancedEnd(text string, start int) int {
	var stack []byte
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}
