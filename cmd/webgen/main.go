// webgen is the command-line front-end: it submits a description to a
// running generation server and writes the result as one
// self-contained HTML file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"webgen_server/internal/assemble"
	"webgen_server/internal/webclient"
)

const samplePrompt = "Design a responsive portfolio website with: " +
	"- Dark/light mode toggle " +
	"- Animated hero section with typewriter effect " +
	"- Project showcase grid with hover animations " +
	"- Skills section with progress bars " +
	"- Contact form with validation " +
	"- Smooth scrolling navigation " +
	"- Modern glassmorphism design " +
	"- Vibrant color scheme with gradients"

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "generation server base URL")
		prompt    = flag.String("prompt", "", "website description to generate from")
		sample    = flag.Bool("sample", false, "use the built-in sample prompt")
		output    = flag.String("o", "ai-website.html", "output file for the assembled document")
		preview   = flag.Bool("preview", false, "assemble the preview variant (CSS reset, viewport fill)")
		timeout   = flag.Duration("timeout", webclient.DefaultTimeout, "abort timeout for the whole request")
	)
	flag.Parse()

	text := *prompt
	if *sample {
		text = samplePrompt
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "Please provide a website description with -prompt, or use -sample.")
		flag.Usage()
		os.Exit(2)
	}

	var client *webclient.Client
	client = webclient.NewClient(*serverURL,
		webclient.WithTimeout(*timeout),
		webclient.WithStateListener(func(s webclient.State, attempt int) {
			switch s {
			case webclient.StateInFlight:
				fmt.Println("Generating...")
			case webclient.StateRetrying:
				fmt.Printf("Retrying (%d/%d)...\n", attempt, client.MaxRetries())
			}
		}),
	)

	site, err := client.Generate(context.Background(), text)
	if err != nil {
		var srvErr *webclient.ServerError
		switch {
		case errors.Is(err, webclient.ErrClientTimeout):
			fmt.Fprintln(os.Stderr, "Request timed out. Please try a simpler prompt.")
		case errors.As(err, &srvErr):
			fmt.Fprintf(os.Stderr, "Error: %s\n", srvErr.Message)
			if srvErr.Details != "" {
				fmt.Fprintf(os.Stderr, "  details: %s\n", srvErr.Details)
			}
			if srvErr.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "  %s\n", srvErr.Suggestion)
			}
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	doc := assemble.Document(site)
	if *preview {
		doc = assemble.PreviewDocument(site)
	}
	if err := os.WriteFile(*output, []byte(doc), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("Website written to %s (html: %d, css: %d, js: %d chars)\n",
		*output, len(site.HTML), len(site.CSS), len(site.JS))
}
