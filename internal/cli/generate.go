package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apexai/draftkit/internal/common"
	"github.com/apexai/draftkit/internal/company"
	"github.com/apexai/draftkit/internal/history"
	"github.com/apexai/draftkit/internal/llm"
	"github.com/apexai/draftkit/internal/models"
	"github.com/apexai/draftkit/internal/postproc"
	"github.com/apexai/draftkit/internal/prompt"
)

// Generate drafts a message from the core text given as arguments, or read
// interactively when none are given. Only one generation may run at a time.
func (a *App) Generate(ctx context.Context, args []string) error {
	if !a.generating.CompareAndSwap(false, true) {
		printlnFn("A generation is already running, please wait")
		return common.ErrGenerationActive
	}
	defer a.generating.Store(false)

	s := a.settings
	if !s.IsConfigured() {
		printlnFn("Provider, model and API key must be set first (see 'status')")
		return common.ErrNotConfigured
	}
	if s.SelectedSituation == "" {
		printlnFn("Select a situation first")
		return common.ErrNotConfigured
	}

	coreMessage := strings.Join(args, " ")
	if coreMessage == "" {
		var err error
		coreMessage, err = GetMultiline(a.reader, "Enter the core message", os.Stdout)
		if err != nil {
			return err
		}
	}
	if coreMessage == "" {
		printlnFn("Nothing to draft, the core message is empty")
		return nil
	}

	req := a.buildCallRequest(coreMessage)

	// Streamed fragments are accumulated so a mid-stream failure can still
	// show what arrived before it.
	var partial strings.Builder
	req.OnChunk = func(chunk string) {
		partial.WriteString(chunk)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	printlnFn("Generating...")
	raw, err := a.registry.Generate(callCtx, req)
	if err != nil {
		printlnFn("Generation failed:", err.Error())
		if partial.Len() > 0 {
			printlnFn("")
			printlnFn("Partial output received before the failure:")
			printlnFn(postproc.StripMarkdown(partial.String()))
		}
		return err
	}

	cleaned := postproc.StripMarkdown(raw)
	content := a.printResult(cleaned)

	draft := &history.Draft{
		Situation:  s.SelectedSituation,
		OutputType: string(s.OutputType),
		Provider:   string(s.SelectedProvider),
		Model:      s.SelectedModel,
		Content:    content,
	}
	if err := history.Record(ctx, a.historyDB, draft, a.config.HistoryKeep); err != nil {
		a.log.Error(ctx, "failed to record draft", "error", err)
	}
	return nil
}

// buildCallRequest assembles the provider call from the current settings.
func (a *App) buildCallRequest(coreMessage string) llm.CallRequest {
	s := a.settings

	situationCtx := prompt.ContextFromCache(s.SelectedSituation, s.ContextualCache)

	systemPrompt := prompt.BuildSystemPrompt(prompt.Request{
		OutputType:       s.OutputType,
		Situation:        s.SelectedSituation,
		NumMessages:      s.NumMessagesForSequence,
		UserName:         s.UserName,
		LengthKey:        s.PreferredMessageLength,
		Tone:             s.PreferredTone,
		Company:          company.APEXAI,
		Templates:        company.SituationTemplates(company.APEXAI),
		LengthOptions:    company.MessageLengthOptions(),
		DefaultLengthKey: company.DefaultMessageLengthKey,
		Context:          situationCtx,
	})

	var contextual []prompt.Field
	if situationCtx != nil {
		contextual = situationCtx.Fields()
	}

	return llm.CallRequest{
		Provider:     s.SelectedProvider,
		Model:        s.SelectedModel,
		APIKey:       s.APIKeys[s.SelectedProvider],
		SystemPrompt: systemPrompt,
		UserPrompt:   coreMessage,
		Contextual:   contextual,
	}
}

// printResult shows the cleaned output and returns the text worth keeping:
// the cleaned email as-is, or a sequence split into numbered messages and
// re-joined in its clipboard form.
func (a *App) printResult(cleaned string) string {
	if a.settings.OutputType != models.OutputMessageSequence {
		printlnFn("")
		printlnFn(cleaned)
		return cleaned
	}

	parts := postproc.SplitMessageSequence(cleaned)
	for i, part := range parts {
		printlnFn("")
		printlnFn(fmt.Sprintf("--- message %d of %d ---", i+1, len(parts)))
		printlnFn(part)
	}
	return postproc.JoinForClipboard(parts)
}
