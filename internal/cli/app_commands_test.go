package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexai/draftkit/internal/common"
	"github.com/apexai/draftkit/internal/config"
	"github.com/apexai/draftkit/internal/llm"
	"github.com/apexai/draftkit/internal/logging"
	"github.com/apexai/draftkit/internal/models"
)

// ------------ helpers ------------

func testConfig(dir string) *config.Config {
	return &config.Config{
		StoragePath:    filepath.Join(dir, "vault.db"),
		HistoryPath:    filepath.Join(dir, "history.db"),
		RequestTimeout: 5 * time.Second,
		LogLevel:       "error",
		HistoryKeep:    10,
	}
}

func newTestApp(t *testing.T, dir string) *App {
	t.Helper()
	app, err := NewApp(context.Background(), testConfig(dir), logging.New(io.Discard, "error"))
	require.NoError(t, err)
	return app
}

// readerFromLines builds a reader delivering each value as one newline
// terminated input line.
func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// capturePrintln redirects printlnFn into a slice for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		lines = append(lines, strings.TrimRight(fmt.Sprintln(args...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

type stubLLM struct {
	resp   string
	chunks []string
	err    error
	got    llm.CallRequest
}

func (s *stubLLM) Generate(_ context.Context, req llm.CallRequest) (string, error) {
	s.got = req
	if req.OnChunk != nil {
		for _, c := range s.chunks {
			req.OnChunk(c)
		}
	}
	return s.resp, s.err
}

// ------------ tests ------------

func TestSettingsCommands_PersistAcrossRuns(t *testing.T) {
	capturePrintln(t)
	dir := t.TempDir()
	ctx := context.Background()

	oldRead := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("sk-test"), nil }
	t.Cleanup(func() { readPassword = oldRead })

	app := newTestApp(t, dir)
	require.NoError(t, app.Provider(ctx, []string{"openai"}))
	require.NoError(t, app.Model(ctx, []string{"gpt-4-turbo"}))
	require.NoError(t, app.SetKey(ctx, nil))
	require.NoError(t, app.Name(ctx, []string{"Jane", "Doe"}))
	require.NoError(t, app.Output(ctx, []string{"sequence"}))
	require.NoError(t, app.Count(ctx, []string{"3"}))
	require.NoError(t, app.Situation(ctx, []string{"followup"}))
	require.NoError(t, app.Length(ctx, []string{"1"}))
	require.NoError(t, app.Tone(ctx, []string{"warm", "direct"}))
	app.Close()

	app2 := newTestApp(t, dir)
	defer app2.Close()
	s := app2.settings
	assert.Equal(t, models.ProviderOpenAI, s.SelectedProvider)
	assert.Equal(t, "gpt-4-turbo", s.SelectedModel)
	assert.Equal(t, "sk-test", s.APIKeys[models.ProviderOpenAI])
	assert.Equal(t, "Jane Doe", s.UserName)
	assert.Equal(t, models.OutputMessageSequence, s.OutputType)
	assert.Equal(t, 3, s.NumMessagesForSequence)
	assert.Equal(t, "followup", s.SelectedSituation)
	assert.Equal(t, "1", s.PreferredMessageLength)
	assert.Equal(t, "warm direct", s.PreferredTone)
	assert.True(t, s.IsConfigured())
}

func TestProvider_FixesModelMismatch(t *testing.T) {
	capturePrintln(t)
	ctx := context.Background()
	app := newTestApp(t, t.TempDir())
	defer app.Close()

	require.NoError(t, app.Provider(ctx, []string{"openai"}))
	require.NoError(t, app.Model(ctx, []string{"gpt-4"}))
	require.NoError(t, app.Provider(ctx, []string{"google"}))

	assert.Equal(t, models.ProviderGoogle, app.settings.SelectedProvider)
	assert.Equal(t, "gemini-2.5-pro-preview-06-05", app.settings.SelectedModel)
}

func TestModel_RejectsUnknown(t *testing.T) {
	capturePrintln(t)
	ctx := context.Background()
	app := newTestApp(t, t.TempDir())
	defer app.Close()

	require.NoError(t, app.Provider(ctx, []string{"openai"}))
	err := app.Model(ctx, []string{"gemini-2.0-flash"})
	assert.ErrorIs(t, err, common.ErrUnknownModel)
	assert.NotEqual(t, "gemini-2.0-flash", app.settings.SelectedModel)
}

func TestCount_RejectsOutOfRange(t *testing.T) {
	capturePrintln(t)
	ctx := context.Background()
	app := newTestApp(t, t.TempDir())
	defer app.Close()

	assert.ErrorIs(t, app.Count(ctx, []string{"1"}), common.ErrInvalidMsgCount)
	assert.ErrorIs(t, app.Count(ctx, []string{"6"}), common.ErrInvalidMsgCount)
	assert.ErrorIs(t, app.Count(ctx, []string{"abc"}), common.ErrInvalidMsgCount)
	assert.NoError(t, app.Count(ctx, []string{"5"}))
	assert.Equal(t, 5, app.settings.NumMessagesForSequence)
}

func TestEditContext_CachesValues(t *testing.T) {
	capturePrintln(t)
	ctx := context.Background()
	app := newTestApp(t, t.TempDir())
	defer app.Close()

	require.NoError(t, app.Situation(ctx, []string{"cold-email"}))
	app.reader = readerFromLines(
		"Globex",        // targetCompany
		"Hank Scorpio",  // targetContact
		"",              // targetIndustry, keep
		"slow delivery", // painPoint
		"",              // desiredOutcome, keep
	)
	require.NoError(t, app.EditContext(ctx))

	cache := app.settings.ContextualCache
	assert.Equal(t, "Globex", cache["targetCompany"])
	assert.Equal(t, "Hank Scorpio", cache["targetContact"])
	assert.Equal(t, "slow delivery", cache["painPoint"])
	assert.NotContains(t, cache, "targetIndustry")
	assert.Equal(t, "Hank Scorpio", app.settings.LastRecipientName)
	assert.Equal(t, "Globex", app.settings.LastRecipientCompany)
}

func TestEditContext_DashClearsValue(t *testing.T) {
	capturePrintln(t)
	ctx := context.Background()
	app := newTestApp(t, t.TempDir())
	defer app.Close()

	require.NoError(t, app.Situation(ctx, []string{"thank-you"}))
	app.settings.ContextualCache["reasonForThanks"] = "old reason"
	app.reader = readerFromLines("-", "")
	require.NoError(t, app.EditContext(ctx))

	assert.NotContains(t, app.settings.ContextualCache, "reasonForThanks")
}

func TestGenerate_RequiresConfiguration(t *testing.T) {
	capturePrintln(t)
	app := newTestApp(t, t.TempDir())
	defer app.Close()

	err := app.Generate(context.Background(), []string{"hello"})
	assert.ErrorIs(t, err, common.ErrNotConfigured)
}

func TestGenerate_RefusedWhileRunning(t *testing.T) {
	capturePrintln(t)
	app := newTestApp(t, t.TempDir())
	defer app.Close()

	app.generating.Store(true)
	err := app.Generate(context.Background(), []string{"hello"})
	assert.ErrorIs(t, err, common.ErrGenerationActive)
	assert.True(t, app.generating.Load(), "guard must stay held by the running generation")
}

func configureForGenerate(t *testing.T, app *App) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, app.Provider(ctx, []string{"openai"}))
	require.NoError(t, app.Model(ctx, []string{"gpt-4"}))
	app.settings.APIKeys[models.ProviderOpenAI] = "sk-test"
	require.NoError(t, app.Situation(ctx, []string{"cold-email"}))
}

func TestGenerate_CleansAndRecords(t *testing.T) {
	out := capturePrintln(t)
	ctx := context.Background()
	app := newTestApp(t, t.TempDir())
	defer app.Close()
	configureForGenerate(t, app)
	app.settings.ContextualCache["targetCompany"] = "Globex"

	stub := &stubLLM{resp: "**Hello** [site](http://example.com)",
		chunks: []string{"**Hello** ", "[site](http://example.com)"}}
	app.registry.Register(models.ProviderOpenAI, stub)

	require.NoError(t, app.Generate(ctx, []string{"announce", "the", "launch"}))

	assert.Equal(t, "sk-test", stub.got.APIKey)
	assert.Equal(t, "gpt-4", stub.got.Model)
	assert.Equal(t, "announce the launch", stub.got.UserPrompt)
	assert.Contains(t, stub.got.SystemPrompt, "You are an LLM assistant")
	require.NotEmpty(t, stub.got.Contextual)
	require.NotNil(t, stub.got.OnChunk, "streamed fragments must reach the caller")

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Hello site (http://example.com)")
	assert.NotContains(t, joined, "**")

	drafts, err := app.repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Hello site (http://example.com)", drafts[0].Content)
	assert.Equal(t, "cold-email", drafts[0].Situation)
	assert.Equal(t, "openai", drafts[0].Provider)

	assert.False(t, app.generating.Load(), "guard must be released after completion")
}

func TestGenerate_SplitsSequences(t *testing.T) {
	out := capturePrintln(t)
	ctx := context.Background()
	app := newTestApp(t, t.TempDir())
	defer app.Close()
	configureForGenerate(t, app)
	require.NoError(t, app.Output(ctx, []string{"sequence"}))
	require.NoError(t, app.Count(ctx, []string{"2"}))

	stub := &stubLLM{resp: "MESSAGE 1:\nHello\n---\nMESSAGE 2:\nWorld"}
	app.registry.Register(models.ProviderOpenAI, stub)

	require.NoError(t, app.Generate(ctx, []string{"say", "hi"}))

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "message 1 of 2")
	assert.Contains(t, joined, "message 2 of 2")
	assert.Contains(t, joined, "Hello")
	assert.Contains(t, joined, "World")

	drafts, err := app.repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Hello\n\nWorld", drafts[0].Content,
		"sequences are recorded in their clipboard form")
}

func TestGenerate_ShowsPartialOutputOnTransportError(t *testing.T) {
	out := capturePrintln(t)
	ctx := context.Background()
	app := newTestApp(t, t.TempDir())
	defer app.Close()
	configureForGenerate(t, app)

	stub := &stubLLM{
		chunks: []string{"**Dear** Hank, ", "we noticed"},
		err:    fmt.Errorf("stream cut"),
	}
	app.registry.Register(models.ProviderOpenAI, stub)

	err := app.Generate(ctx, []string{"hello"})
	require.Error(t, err)

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "stream cut")
	assert.Contains(t, joined, "Partial output received before the failure:")
	assert.Contains(t, joined, "Dear Hank, we noticed")

	drafts, lerr := app.repo.List(ctx, 10)
	require.NoError(t, lerr)
	assert.Empty(t, drafts, "failed generations are not recorded")
}

func TestGenerate_ProviderErrorReleasesGuard(t *testing.T) {
	capturePrintln(t)
	ctx := context.Background()
	app := newTestApp(t, t.TempDir())
	defer app.Close()
	configureForGenerate(t, app)

	stub := &stubLLM{err: fmt.Errorf("boom")}
	app.registry.Register(models.ProviderOpenAI, stub)

	err := app.Generate(ctx, []string{"hello"})
	require.Error(t, err)
	assert.False(t, app.generating.Load())

	drafts, lerr := app.repo.List(ctx, 10)
	require.NoError(t, lerr)
	assert.Empty(t, drafts, "failed generations are not recorded")
}

func TestHistoryCommand(t *testing.T) {
	out := capturePrintln(t)
	ctx := context.Background()
	app := newTestApp(t, t.TempDir())
	defer app.Close()
	configureForGenerate(t, app)

	stub := &stubLLM{resp: "First draft"}
	app.registry.Register(models.ProviderOpenAI, stub)
	require.NoError(t, app.Generate(ctx, []string{"one"}))

	*out = nil
	require.NoError(t, app.History(ctx, nil))
	assert.Contains(t, strings.Join(*out, "\n"), "First draft")

	require.NoError(t, app.History(ctx, []string{"purge"}))
	*out = nil
	require.NoError(t, app.History(ctx, nil))
	assert.Contains(t, strings.Join(*out, "\n"), "No drafts recorded yet")
}

func TestReset_RestoresDefaults(t *testing.T) {
	capturePrintln(t)
	ctx := context.Background()
	app := newTestApp(t, t.TempDir())
	defer app.Close()

	require.NoError(t, app.Provider(ctx, []string{"google"}))
	require.NoError(t, app.Reset(ctx))

	assert.Empty(t, app.settings.SelectedProvider)
	assert.Equal(t, models.OutputEmail, app.settings.OutputType)
	assert.Equal(t, "2", app.settings.PreferredMessageLength)
}
