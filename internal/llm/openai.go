package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/apexai/draftkit/internal/logging"
)

// OpenAIClient streams chat completions from the OpenAI API.
type OpenAIClient struct {
	baseURL string
	log     logging.Logger
}

func NewOpenAIClient(baseURL string, log logging.Logger) *OpenAIClient {
	return &OpenAIClient{baseURL: baseURL, log: log}
}

func (c *OpenAIClient) Generate(ctx context.Context, req CallRequest) (string, error) {
	cfg := openai.DefaultConfig(req.APIKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	stream, err := client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: composeUserPrompt(req)},
		},
		Temperature: 0.7,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("openai: starting stream: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("openai: receiving stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		chunk := resp.Choices[0].Delta.Content
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if req.OnChunk != nil {
			req.OnChunk(chunk)
		}
	}

	c.log.Debug(ctx, "openai generation finished", "model", req.Model, "chars", full.Len())
	return full.String(), nil
}
