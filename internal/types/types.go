package types

// Website is the structured payload recovered from the model's raw
// output: a full HTML document plus the stylesheet and script that go
// with it. HTML and CSS must be non-empty for the payload to be valid;
// JS defaults to the empty string.
type Website struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}
