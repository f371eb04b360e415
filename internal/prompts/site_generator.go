// Package prompts holds the fixed instruction text sent to the model.
// Composition is pure string formatting with no failure modes.
package prompts

import "fmt"

// SystemInstruction mandates JSON-only output with the html/css/js
// keys the extractor expects. Size ceilings mentioned here are hints
// to the model, not enforced server-side.
const SystemInstruction = `You are an expert AI agent specializing in automated frontend web development.
Generate only the essential HTML, CSS, and JavaScript needed for the requested website.

Instructions:
- Respond with JSON in this exact format: { "html": "...", "css": "...", "js": "..." }
- The HTML must be a complete document starting with <!DOCTYPE html> and including the head and body.
- The CSS must be a complete stylesheet that styles the entire page. Use modern, responsive design.
- The JavaScript must be minimal and only for essential interactivity. Use vanilla JS, no frameworks.
- The entire website must be self-contained and functional when combined.
- Ensure the website is fully responsive and works on mobile devices.
- Use semantic HTML5 elements for better accessibility.
- Ensure color contrast meets accessibility standards.

Important:
- The CSS should be a string of CSS rules (without style tags).
- The JS should be a string of JavaScript code (without script tags).
- Use modern CSS features like Flexbox and Grid for layout.
- Ensure all code is properly escaped for JSON.

Respond with JSON in this exact format:
{
  "html": "<!DOCTYPE html>...",
  "css": "body { ... }",
  "js": "function() { ... }"
}`

const requestTemplate = `USER REQUEST: %s

Generate a complete website with:
- HTML (full document structure)
- CSS (complete stylesheet)
- JavaScript (vanilla JS only)

Respond ONLY with valid JSON in this exact format:
{
  "html": "...",
  "css": "...",
  "js": "..."
}

Important:
- Escape all special characters for JSON
- Ensure HTML includes doctype and full structure
- Keep CSS under %d characters
- Keep JavaScript under %d characters
- Use only vanilla JavaScript`

// Compose builds the user-facing part of the prompt. The character
// ceilings come from configuration and are advisory only.
func Compose(userPrompt string, cssMaxChars, jsMaxChars int) string {
	return fmt.Sprintf(requestTemplate, userPrompt, cssMaxChars, jsMaxChars)
}
