package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/apexai/draftkit/internal/logging"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GoogleClient streams generations from the Gemini API over server-sent
// events. The pack carries no Gemini SDK, so the wire format is spoken
// directly.
type GoogleClient struct {
	baseURL string
	httpc   *http.Client
	log     logging.Logger
}

func NewGoogleClient(baseURL string, httpc *http.Client, log logging.Logger) *GoogleClient {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &GoogleClient{baseURL: baseURL, httpc: httpc, log: log}
}

type geminiRequest struct {
	SystemInstruction geminiContent   `json:"system_instruction"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiChunk struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GoogleClient) Generate(ctx context.Context, req CallRequest) (string, error) {
	body, err := json.Marshal(geminiRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: composeUserPrompt(req)}}},
		},
		GenerationConfig: geminiGenConfig{Temperature: 0.7},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:streamGenerateContent?alt=sse&key=%s",
		c.baseURL, req.Model, req.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.apiError(resp)
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}
		var chunk geminiChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			c.log.Warn(ctx, "gemini: skipping malformed stream event", "error", err)
			continue
		}
		text := chunkText(chunk)
		if text == "" {
			continue
		}
		full.WriteString(text)
		if req.OnChunk != nil {
			req.OnChunk(text)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("gemini: reading stream: %w", err)
	}

	c.log.Debug(ctx, "gemini generation finished", "model", req.Model, "chars", full.Len())
	return full.String(), nil
}

func (c *GoogleClient) apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var apiErr geminiError
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("gemini: api error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("gemini: api error (status %d)", resp.StatusCode)
}

func chunkText(chunk geminiChunk) string {
	if len(chunk.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range chunk.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
