// Package llm is the transport boundary: it sends a composed prompt to the
// selected provider and streams the raw response back through a callback.
// Cleaning and splitting of the output happen elsewhere; this package only
// moves text.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/apexai/draftkit/internal/common"
	"github.com/apexai/draftkit/internal/models"
	"github.com/apexai/draftkit/internal/prompt"
)

// CallRequest carries everything one generation call needs. OnChunk, when
// set, receives text fragments in provider order before the full text is
// returned; it must tolerate being called zero times (non-streaming paths).
type CallRequest struct {
	Provider     models.Provider
	Model        string
	APIKey       string
	SystemPrompt string
	UserPrompt   string
	Contextual   []prompt.Field
	OnChunk      func(string)
}

// Client generates a full response for one provider, streaming fragments
// through req.OnChunk as they arrive.
type Client interface {
	Generate(ctx context.Context, req CallRequest) (string, error)
}

// Registry maps provider names to clients.
type Registry struct {
	clients map[string]Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

func (r *Registry) Register(provider models.Provider, client Client) {
	r.clients[strings.ToLower(string(provider))] = client
}

// Client returns the registered client for the provider, or
// common.ErrUnknownProvider.
func (r *Registry) Client(provider models.Provider) (Client, error) {
	client, ok := r.clients[strings.ToLower(string(provider))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownProvider, provider)
	}
	return client, nil
}

// Generate looks up the provider and delegates, after the checks shared by
// all providers.
func (r *Registry) Generate(ctx context.Context, req CallRequest) (string, error) {
	if req.APIKey == "" {
		return "", fmt.Errorf("%w for %s, please set it in settings", common.ErrAPIKeyMissing, req.Provider)
	}
	client, err := r.Client(req.Provider)
	if err != nil {
		return "", err
	}
	return client.Generate(ctx, req)
}

// composeUserPrompt appends the non-empty contextual fields to the user's
// core message so the model sees them alongside it.
func composeUserPrompt(req CallRequest) string {
	var lines []string
	for _, f := range req.Contextual {
		if f.Value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", f.Name, f.Value))
		}
	}
	if len(lines) == 0 {
		return req.UserPrompt
	}

	var b strings.Builder
	b.WriteString("User's Core Message Context:\n")
	b.WriteString(req.UserPrompt)
	b.WriteString("\n\nAdditional Context for this Message Type:\n")
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
