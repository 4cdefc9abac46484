package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexai/draftkit/internal/common"
	"github.com/apexai/draftkit/internal/logging"
	"github.com/apexai/draftkit/internal/models"
	"github.com/apexai/draftkit/internal/prompt"
)

func testLogger() logging.Logger {
	return logging.New(io.Discard, "error")
}

type stubClient struct {
	result string
	err    error
	got    CallRequest
}

func (s *stubClient) Generate(_ context.Context, req CallRequest) (string, error) {
	s.got = req
	return s.result, s.err
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	stub := &stubClient{result: "hello"}
	r.Register(models.ProviderOpenAI, stub)

	client, err := r.Client(models.ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, stub, client)

	client, err = r.Client(models.Provider("OpenAI"))
	require.NoError(t, err)
	assert.Equal(t, stub, client)

	_, err = r.Client(models.ProviderGoogle)
	assert.ErrorIs(t, err, common.ErrUnknownProvider)
}

func TestRegistryGenerateRequiresAPIKey(t *testing.T) {
	r := NewRegistry()
	r.Register(models.ProviderOpenAI, &stubClient{})

	_, err := r.Generate(context.Background(), CallRequest{
		Provider: models.ProviderOpenAI,
		Model:    "gpt-4o-mini",
	})
	assert.ErrorIs(t, err, common.ErrAPIKeyMissing)
}

func TestRegistryGenerateDelegates(t *testing.T) {
	r := NewRegistry()
	stub := &stubClient{result: "drafted text"}
	r.Register(models.ProviderGoogle, stub)

	got, err := r.Generate(context.Background(), CallRequest{
		Provider: models.ProviderGoogle,
		Model:    "gemini-2.0-flash",
		APIKey:   "k",
	})
	require.NoError(t, err)
	assert.Equal(t, "drafted text", got)
	assert.Equal(t, "gemini-2.0-flash", stub.got.Model)
}

func TestComposeUserPrompt(t *testing.T) {
	plain := composeUserPrompt(CallRequest{UserPrompt: "announce the launch"})
	assert.Equal(t, "announce the launch", plain)

	withCtx := composeUserPrompt(CallRequest{
		UserPrompt: "announce the launch",
		Contextual: []prompt.Field{
			{Name: "Target Company", Value: "Globex"},
			{Name: "Pain Point", Value: ""},
			{Name: "Desired Outcome", Value: "book a call"},
		},
	})
	assert.Contains(t, withCtx, "User's Core Message Context:\nannounce the launch")
	assert.Contains(t, withCtx, "Additional Context for this Message Type:")
	assert.Contains(t, withCtx, "Target Company: Globex")
	assert.Contains(t, withCtx, "Desired Outcome: book a call")
	assert.NotContains(t, withCtx, "Pain Point")
}

func TestGoogleClientStreams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:streamGenerateContent")
		assert.Equal(t, "sse", r.URL.Query().Get("alt"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Hello \"}]}}]}\n\n")
		fmt.Fprint(w, "data: not json at all\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"world\"}]}}]}\n\n")
	}))
	defer srv.Close()

	c := NewGoogleClient(srv.URL, srv.Client(), testLogger())
	var chunks []string
	got, err := c.Generate(context.Background(), CallRequest{
		Model:   "gemini-2.0-flash",
		APIKey:  "secret",
		OnChunk: func(s string) { chunks = append(chunks, s) },
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", got)
	assert.Equal(t, []string{"Hello ", "world"}, chunks)
}

func TestGoogleClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"API key not valid"}}`)
	}))
	defer srv.Close()

	c := NewGoogleClient(srv.URL, srv.Client(), testLogger())
	_, err := c.Generate(context.Background(), CallRequest{Model: "gemini-2.0-flash", APIKey: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.Contains(t, err.Error(), "400")
}

func TestGoogleClientSystemInstruction(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"ok\"}]}}]}\n\n")
	}))
	defer srv.Close()

	c := NewGoogleClient(srv.URL, srv.Client(), testLogger())
	_, err := c.Generate(context.Background(), CallRequest{
		Model:        "gemini-2.0-flash",
		APIKey:       "k",
		SystemPrompt: "You are an assistant.",
		UserPrompt:   "write it",
	})
	require.NoError(t, err)
	assert.Contains(t, gotBody, `"system_instruction"`)
	assert.Contains(t, gotBody, "You are an assistant.")
	assert.Contains(t, gotBody, "write it")
}
