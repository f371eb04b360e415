package extract

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"webgen_server/internal/types"
)

const validPayload = `{"html":"<html><body><button>Hi</button></body></html>","css":"button{color:red}","js":"console.log(1)"}`

func TestExtractPlainJSON(t *testing.T) {
	site, err := Extract(validPayload)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	want := &types.Website{
		HTML: "<!DOCTYPE html>\n<html>\n" + injectedHead + "<body><button>Hi</button></body></html>",
		CSS:  "button{color:red}",
		JS:   "console.log(1)",
	}
	if diff := cmp.Diff(want, site); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractFencedAndWrappedInProse(t *testing.T) {
	raw := "Sure! Here is your website:\n```json\n" + validPayload + "\n```\nLet me know if you want changes."
	site, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if site.CSS != "button{color:red}" {
		t.Errorf("css = %q, want button{color:red}", site.CSS)
	}
	if site.JS != "console.log(1)" {
		t.Errorf("js = %q, want console.log(1)", site.JS)
	}
}

func TestExtractFenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n" + validPayload + "\n```"
	if _, err := Extract(raw); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
}

func TestExtractDefaultsJS(t *testing.T) {
	raw := `{"html":"<html><head></head><body></body></html>","css":"body{}"}`
	site, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if site.JS != "" {
		t.Errorf("js = %q, want empty string", site.JS)
	}
}

func TestExtractNoJSONFound(t *testing.T) {
	cases := []string{
		"",
		"I'm sorry, I cannot help with that request.",
		"no braces here at all",
		"only an opening { with no close",
		"only a closing } before anything opens",
	}
	for _, raw := range cases {
		if _, err := Extract(raw); !errors.Is(err, ErrNoJSONFound) {
			t.Errorf("Extract(%q) = %v, want ErrNoJSONFound", raw, err)
		}
	}
}

func TestExtractClosingBraceBeforeOpening(t *testing.T) {
	_, err := Extract("} and later a { but nothing closes it after")
	if !errors.Is(err, ErrNoJSONFound) {
		t.Errorf("Extract = %v, want ErrNoJSONFound", err)
	}
}

func TestExtractMalformedJSON(t *testing.T) {
	raw := `{"html": "<p>unterminated`
	// Force the fallback slice to produce something parseable-looking.
	raw += `}`
	_, err := Extract(raw)
	var malformed *MalformedJSONError
	if !errors.As(err, &malformed) {
		t.Fatalf("Extract = %v, want *MalformedJSONError", err)
	}
	if malformed.Err == nil {
		t.Error("MalformedJSONError carries no underlying parser error")
	}
	if malformed.Snippet == "" {
		t.Error("MalformedJSONError carries no diagnostic snippet")
	}
}

func TestExtractMalformedSnippetStaysValidUTF8(t *testing.T) {
	// An odd byte offset lands the 120-byte cut inside a 2-byte rune
	// unless truncation backs up to a rune boundary.
	raw := "x" + strings.Repeat("é", 100) + `{"html": bad}`
	_, err := Extract(raw)
	var malformed *MalformedJSONError
	if !errors.As(err, &malformed) {
		t.Fatalf("Extract = %v, want *MalformedJSONError", err)
	}
	if !utf8.ValidString(malformed.Snippet) {
		t.Errorf("diagnostic snippet is not valid UTF-8: %q", malformed.Snippet)
	}
}

func TestExtractTruncatedObjectUsesFallbackSlice(t *testing.T) {
	// Braces never balance: the scanner gives up and the historical
	// first-'{' to last-'}' slice takes over. The slice here happens to
	// be invalid JSON, so the failure class must be MalformedJson, not
	// NoJsonFound.
	raw := `{"html": "<p>hello</p>", "css": "p{}"`
	raw += "\nnothing closes the object, but prose has a stray }"
	_, err := Extract(raw)
	var malformed *MalformedJSONError
	if !errors.As(err, &malformed) {
		t.Fatalf("Extract = %v, want *MalformedJSONError", err)
	}
}

func TestExtractBalancedScannerIgnoresTrailingBraceInProse(t *testing.T) {
	raw := validPayload + "\nP.S. remember that CSS blocks end with }"
	site, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if site.CSS != "button{color:red}" {
		t.Errorf("css = %q, trailing prose brace corrupted the slice", site.CSS)
	}
}

func TestExtractBracesInsideStrings(t *testing.T) {
	raw := `{"html":"<html><head></head><body>}{</body></html>","css":"a{color:\"#fff\"}"}`
	site, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !strings.Contains(site.HTML, "}{") {
		t.Errorf("html = %q, braces inside string were mishandled", site.HTML)
	}
}

func TestExtractIncompleteResult(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		missing string
	}{
		{"missing html", `{"css":"body{}"}`, "html"},
		{"empty html", `{"html":"","css":"body{}"}`, "html"},
		{"missing css", `{"html":"<html></html>"}`, "css"},
		{"empty css", `{"html":"<html></html>","css":""}`, "css"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(tc.raw)
			var incomplete *IncompleteResultError
			if !errors.As(err, &incomplete) {
				t.Fatalf("Extract = %v, want *IncompleteResultError", err)
			}
			if incomplete.Missing != tc.missing {
				t.Errorf("Missing = %q, want %q", incomplete.Missing, tc.missing)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	raw := "```json\n" + validPayload + "\n```"
	first, err := Extract(raw)
	if err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	second, err := Extract(raw)
	if err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Extract is not deterministic (-first +second):\n%s", diff)
	}
}

func TestNormalizeHTMLAddsDoctype(t *testing.T) {
	out := NormalizeHTML("<html><head></head><body></body></html>")
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("output does not begin with doctype: %q", out)
	}
}

func TestNormalizeHTMLInjectsHead(t *testing.T) {
	out := NormalizeHTML("<html><body><p>hi</p></body></html>")
	if !strings.Contains(out, `<meta charset="UTF-8">`) {
		t.Error("injected head is missing charset meta")
	}
	if !strings.Contains(out, `<meta name="viewport"`) {
		t.Error("injected head is missing viewport meta")
	}
	if !strings.Contains(out, "<body><p>hi</p></body>") {
		t.Error("body content was altered by head injection")
	}
}

func TestNormalizeHTMLLeavesCompleteDocumentAlone(t *testing.T) {
	doc := "<!DOCTYPE html>\n<html><head><title>x</title></head><body></body></html>"
	if out := NormalizeHTML(doc); out != doc {
		t.Errorf("complete document was modified:\n%q", out)
	}
}
