// Package ai wraps the outbound text-completion call. The provider is
// an external collaborator: it takes a prompt plus a system
// instruction and returns free-form text with no schema guarantee.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrUpstreamTimeout means the model call did not finish within the
// configured deadline. The in-flight call is abandoned, not cancelled
// at the provider: the timeout only changes what we wait for.
var ErrUpstreamTimeout = errors.New("AI generation timed out")

// UpstreamError is any non-timeout failure from the provider. Message
// is sanitized and safe to send to clients; the raw error is kept for
// server-side logging only.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string { return e.Message }

func (e *UpstreamError) Unwrap() error { return e.Err }

type Generator struct {
	client  *openai.Client
	modelID string
	timeout time.Duration
}

func NewGenerator(apiKey, modelID string, timeout time.Duration) *Generator {
	return NewGeneratorWithClient(openai.NewClient(apiKey), modelID, timeout)
}

// NewGeneratorWithClient accepts a pre-built client, which lets tests
// point the generator at a mock completion server.
func NewGeneratorWithClient(client *openai.Client, modelID string, timeout time.Duration) *Generator {
	return &Generator{
		client:  client,
		modelID: modelID,
		timeout: timeout,
	}
}

// Generate sends the composed prompt and returns the model's raw text.
// All structure recovery from that text is the extractor's job.
func (g *Generator) Generate(ctx context.Context, prompt, systemInstruction string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: g.modelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3, // predictable code output
	}

	resp, err := g.client.CreateChatCompletion(callCtx, req)
	if err != nil && callCtx.Err() == nil && shouldRetry(err) {
		log.Printf("Model call failed with transient error, retrying once: %v", err)
		time.Sleep(1 * time.Second)
		resp, err = g.client.CreateChatCompletion(callCtx, req)
	}

	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrUpstreamTimeout, g.timeout)
		}
		return "", &UpstreamError{Message: sanitize(err), Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("Model returned no usable choices, usage: %+v", resp.Usage)
		return "", &UpstreamError{Message: "AI service returned an empty response"}
	}

	return resp.Choices[0].Message.Content, nil
}

// sanitize maps provider errors to client-safe messages. Anything that
// smells like a credential problem collapses into a generic
// configuration message so key material never leaks into responses.
func sanitize(err error) string {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "api key") ||
		strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "incorrect api") ||
		strings.Contains(msg, "401") {
		return "Server configuration issue. Please contact support."
	}
	return "AI service is unavailable"
}
