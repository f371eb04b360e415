// Package extract recovers a structured website payload from the free
// text a generative model returns. The model is asked for JSON but may
// wrap it in prose or markdown code fences, or truncate it; this
// package tolerates all of that and classifies what it cannot repair.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"webgen_server/internal/types"
)

// ErrNoJSONFound means the raw text contained no brace-delimited
// object at all.
var ErrNoJSONFound = errors.New("no JSON found in AI response")

// MalformedJSONError means a candidate object was found but did not
// parse as strict JSON. Snippet holds a short prefix of the original
// text for diagnostics.
type MalformedJSONError struct {
	Snippet string
	Err     error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("failed to parse AI response as JSON: %v", e.Err)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

// IncompleteResultError means the object parsed but a required field
// was missing or empty.
type IncompleteResultError struct {
	Missing string // "html" or "css"
}

func (e *IncompleteResultError) Error() string {
	return fmt.Sprintf("AI response missing %s", e.Missing)
}

// Code fence markers: triple backtick with an optional language tag.
var fencePattern = regexp.MustCompile("```[a-zA-Z]*")

// Extract turns raw model output into a validated Website. It is a
// pure function: same input, same result, no hidden state.
func Extract(raw string) (*types.Website, error) {
	clean := strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))

	objText, ok := sliceObject(clean)
	if !ok {
		return nil, ErrNoJSONFound
	}

	var site types.Website
	if err := json.Unmarshal([]byte(objText), &site); err != nil {
		return nil, &MalformedJSONError{Snippet: prefix(raw, 120), Err: err}
	}

	if site.HTML == "" {
		return nil, &IncompleteResultError{Missing: "html"}
	}
	if site.CSS == "" {
		return nil, &IncompleteResultError{Missing: "css"}
	}
	// JS stays "" when the model omits it.

	site.HTML = NormalizeHTML(site.HTML)
	return &site, nil
}

// sliceObject returns the JSON object embedded in text. It scans from
// the first '{' tracking brace depth and string literals, so free-form
// prose after the object does not confuse it. When the braces never
// balance (truncated output), it falls back to the historical
// first-'{' to last-'}' slice, which older responses relied on.
func sliceObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	end := strings.LastIndex(text, "}")
	if end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

const injectedHead = `<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>AI Generated Website</title>
</head>`

// NormalizeHTML guarantees the document starts with a doctype and
// carries a head element, injecting them when absent. Best-effort
// repair only: it does not make the document well-formed.
func NormalizeHTML(html string) string {
	if !strings.Contains(html, "<!DOCTYPE html>") {
		html = "<!DOCTYPE html>\n" + html
	}
	if !strings.Contains(html, "<head>") {
		html = strings.Replace(html, "<html>", "<html>\n"+injectedHead, 1)
	}
	return html
}

// prefix truncates on a rune boundary so diagnostics stay valid UTF-8.
func prefix(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
