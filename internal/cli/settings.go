package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apexai/draftkit/internal/common"
	"github.com/apexai/draftkit/internal/company"
	"github.com/apexai/draftkit/internal/models"
	"github.com/apexai/draftkit/internal/prompt"
)

// parseProvider maps a user-typed provider name to its identifier.
func parseProvider(value string) (models.Provider, error) {
	switch strings.ToLower(value) {
	case "openai":
		return models.ProviderOpenAI, nil
	case "google", "gemini":
		return models.ProviderGoogle, nil
	}
	return "", fmt.Errorf("%w: %s", common.ErrUnknownProvider, value)
}

func (a *App) Status(ctx context.Context) error {
	s := a.settings
	printlnFn("Provider:  ", orDash(string(s.SelectedProvider)))
	printlnFn("Model:     ", orDash(s.SelectedModel))
	for _, p := range []models.Provider{models.ProviderOpenAI, models.ProviderGoogle} {
		state := "not set"
		if s.APIKeys[p] != "" {
			state = "set"
		}
		printlnFn(fmt.Sprintf("API key %s: %s", p, state))
	}
	printlnFn("Name:      ", orDash(s.UserName))
	printlnFn("Output:    ", string(s.OutputType))
	if s.OutputType == models.OutputMessageSequence {
		printlnFn("Count:     ", strconv.Itoa(s.NumMessagesForSequence))
	}
	printlnFn("Situation: ", orDash(s.SelectedSituation))
	length := company.MessageLengthOptions()[s.PreferredMessageLength]
	printlnFn("Length:    ", fmt.Sprintf("%s (%s)", s.PreferredMessageLength, length.Label))
	printlnFn("Tone:      ", orDash(s.PreferredTone))
	if s.SelectedSituation == "meeting-request" {
		printlnFn("Action:    ", orDash(s.SelectedMeetingAction))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (a *App) Provider(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: provider <openai|google>")
		return nil
	}
	p, err := parseProvider(args[0])
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	a.settings.SelectedProvider = p

	catalog := company.ModelCatalog()[p]
	if !company.ValidModel(p, a.settings.SelectedModel) && len(catalog) > 0 {
		a.settings.SelectedModel = catalog[0].Value
	}
	printlnFn("Provider set to", string(p), "model", a.settings.SelectedModel)
	return a.save(ctx)
}

func (a *App) Model(ctx context.Context, args []string) error {
	if a.settings.SelectedProvider == "" {
		printlnFn("Select a provider first")
		return common.ErrNotConfigured
	}
	if len(args) == 0 {
		printlnFn("Available models:")
		for _, m := range company.ModelCatalog()[a.settings.SelectedProvider] {
			printlnFn(" ", m.Value, "-", m.Label)
		}
		return nil
	}
	if !company.ValidModel(a.settings.SelectedProvider, args[0]) {
		printlnFn("Unknown model for", string(a.settings.SelectedProvider)+":", args[0])
		return fmt.Errorf("%w: %s", common.ErrUnknownModel, args[0])
	}
	a.settings.SelectedModel = args[0]
	printlnFn("Model set to", args[0])
	return a.save(ctx)
}

// keyProvider resolves which provider a setkey/clearkey command targets:
// the explicit argument if given, otherwise the selected provider.
func (a *App) keyProvider(args []string) (models.Provider, error) {
	if len(args) > 0 {
		return parseProvider(args[0])
	}
	if a.settings.SelectedProvider == "" {
		return "", common.ErrNotConfigured
	}
	return a.settings.SelectedProvider, nil
}

func (a *App) SetKey(ctx context.Context, args []string) error {
	p, err := a.keyProvider(args)
	if err != nil {
		printlnFn("Usage: setkey <openai|google>")
		return err
	}
	key, err := GetSecret(os.Stdout, fmt.Sprintf("Enter %s API key", p))
	if err != nil {
		printlnFn("Failed to read key:", err.Error())
		return err
	}
	if len(key) == 0 {
		printlnFn("Empty key, nothing stored")
		return nil
	}
	a.settings.APIKeys[p] = string(key)
	printlnFn("API key stored for", string(p))
	return a.save(ctx)
}

func (a *App) ClearKey(ctx context.Context, args []string) error {
	p, err := a.keyProvider(args)
	if err != nil {
		printlnFn("Usage: clearkey <openai|google>")
		return err
	}
	delete(a.settings.APIKeys, p)
	printlnFn("API key cleared for", string(p))
	return a.save(ctx)
}

func (a *App) Name(ctx context.Context, args []string) error {
	a.settings.UserName = strings.Join(args, " ")
	if a.settings.UserName == "" {
		printlnFn("Name cleared")
	} else {
		printlnFn("Name set to", a.settings.UserName)
	}
	return a.save(ctx)
}

func (a *App) Output(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: output <email|sequence>")
		return nil
	}
	switch strings.ToLower(args[0]) {
	case "email":
		a.settings.OutputType = models.OutputEmail
	case "sequence", "message_sequence":
		a.settings.OutputType = models.OutputMessageSequence
	default:
		printlnFn("Unknown output type:", args[0])
		return nil
	}
	printlnFn("Output set to", string(a.settings.OutputType))
	return a.save(ctx)
}

func (a *App) Count(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn(fmt.Sprintf("Usage: count <%d-%d>", models.MinSequenceMessages, models.MaxSequenceMessages))
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < models.MinSequenceMessages || n > models.MaxSequenceMessages {
		printlnFn(fmt.Sprintf("Count must be between %d and %d", models.MinSequenceMessages, models.MaxSequenceMessages))
		return common.ErrInvalidMsgCount
	}
	a.settings.NumMessagesForSequence = n
	printlnFn("Messages per sequence set to", args[0])
	return a.save(ctx)
}

func (a *App) Situation(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Available situations:")
		for _, s := range company.Situations() {
			printlnFn(" ", s)
		}
		return nil
	}
	key := strings.ToLower(args[0])
	known := false
	for _, s := range company.Situations() {
		if s == key {
			known = true
			break
		}
	}
	if !known {
		printlnFn("Unknown situation:", args[0])
		return nil
	}
	a.settings.SelectedSituation = key
	printlnFn("Situation set to", key)
	return a.save(ctx)
}

func (a *App) Length(ctx context.Context, args []string) error {
	options := company.MessageLengthOptions()
	if len(args) == 0 {
		printlnFn("Available lengths:")
		for i := 0; i < len(options); i++ {
			key := strconv.Itoa(i)
			printlnFn(" ", key, "-", options[key].Label)
		}
		return nil
	}
	if _, ok := options[args[0]]; !ok {
		printlnFn("Unknown length:", args[0])
		return nil
	}
	a.settings.PreferredMessageLength = args[0]
	printlnFn("Length set to", args[0], "("+options[args[0]].Label+")")
	return a.save(ctx)
}

func (a *App) Tone(ctx context.Context, args []string) error {
	a.settings.PreferredTone = strings.Join(args, " ")
	if a.settings.PreferredTone == "" {
		printlnFn("Tone cleared, the company tone applies")
	} else {
		printlnFn("Tone set to", a.settings.PreferredTone)
	}
	return a.save(ctx)
}

func (a *App) Action(ctx context.Context, args []string) error {
	actions := []prompt.MeetingAction{
		prompt.ActionSchedule, prompt.ActionCancel, prompt.ActionReschedule,
		prompt.ActionReminder, prompt.ActionJoinRequest,
	}
	if len(args) == 0 {
		printlnFn("Available actions:")
		for _, act := range actions {
			printlnFn(" ", string(act))
		}
		return nil
	}
	key := strings.ToLower(args[0])
	for _, act := range actions {
		if string(act) == key {
			a.settings.SelectedMeetingAction = key
			a.settings.ContextualCache["meetingAction"] = key
			printlnFn("Meeting action set to", key)
			return a.save(ctx)
		}
	}
	printlnFn("Unknown meeting action:", args[0])
	return nil
}

// EditContext walks the selected situation's contextual fields, showing the
// cached value and keeping it when the user enters nothing.
func (a *App) EditContext(ctx context.Context) error {
	if a.settings.SelectedSituation == "" {
		printlnFn("Select a situation first")
		return common.ErrNotConfigured
	}
	fields := prompt.ContextFields(a.settings.SelectedSituation)
	if fields == nil {
		printlnFn("No contextual fields for", a.settings.SelectedSituation)
		return nil
	}

	for _, f := range fields {
		current := a.settings.ContextualCache[f.Key]
		label := f.Label
		if current != "" {
			label = fmt.Sprintf("%s [%s]", f.Label, current)
		}
		value, err := GetSimpleText(a.reader, label, os.Stdout)
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}
		if value == "-" {
			delete(a.settings.ContextualCache, f.Key)
			continue
		}
		a.settings.ContextualCache[f.Key] = value
	}

	a.settings.LastRecipientName = firstNonEmpty(
		a.settings.ContextualCache["targetContact"],
		a.settings.ContextualCache["clientName"],
		a.settings.LastRecipientName)
	a.settings.LastRecipientCompany = firstNonEmpty(
		a.settings.ContextualCache["targetCompany"],
		a.settings.LastRecipientCompany)

	printlnFn("Context updated")
	return a.save(ctx)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Reset restores default settings. Stored API keys are forgotten as well.
func (a *App) Reset(ctx context.Context) error {
	a.settings = models.NewSettings()
	printlnFn("Settings reset to defaults")
	return a.save(ctx)
}
