// Package models defines the application state persisted between runs.
package models

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGoogle Provider = "google"
)

// OutputType selects between a single email and a sequence of short
// chat messages.
type OutputType string

const (
	OutputEmail           OutputType = "email"
	OutputMessageSequence OutputType = "message_sequence"
)

// View names the popup screen to restore on the next run.
type View string

const (
	ViewMain     View = "main"
	ViewSettings View = "settings"
)

const (
	// MinSequenceMessages and MaxSequenceMessages bound numMessagesForSequence.
	MinSequenceMessages = 2
	MaxSequenceMessages = 5
)

// Settings is the single application state object. API keys are held here in
// plaintext only in memory; the vault replaces them with encrypted payloads
// before anything touches the store.
type Settings struct {
	// SelectedProvider and SelectedModel identify the active LLM.
	// SelectedModel must belong to the provider's catalog.
	SelectedProvider Provider `json:"selectedProvider"`
	SelectedModel    string   `json:"selectedModel"`

	// APIKeys maps provider to its decrypted secret. A missing entry means
	// "no key configured" and round-trips through the vault as such.
	APIKeys map[Provider]string `json:"-"`

	// UserName is the drafting persona's display name.
	UserName string `json:"userName"`

	OutputType             OutputType `json:"outputType"`
	NumMessagesForSequence int        `json:"numMessagesForSequence"`

	// SelectedSituation is a situation template key, e.g. "cold-email",
	// or empty when none is chosen yet.
	SelectedSituation string `json:"selectedSituation"`

	// PreferredMessageLength keys into the 4-level length options ("0".."3").
	PreferredMessageLength string `json:"preferredMessageLength"`

	// PreferredTone overrides the company's fixed tone when non-empty.
	PreferredTone string `json:"preferredTone"`

	// SelectedMeetingAction is only meaningful when the situation is
	// "meeting-request".
	SelectedMeetingAction string `json:"selectedMeetingAction"`

	// ContextualCache remembers the last-entered contextual field values,
	// keyed by logical field name, across sessions.
	ContextualCache map[string]string `json:"contextualCache"`

	// LastRecipientName and LastRecipientCompany are the two contextual
	// fields common to every situation.
	LastRecipientName    string `json:"lastRecipientName"`
	LastRecipientCompany string `json:"lastRecipientCompany"`

	// CurrentView and IsFocusOutputMode are transient UI flags persisted for
	// reopen continuity.
	CurrentView       View `json:"currentView"`
	IsFocusOutputMode bool `json:"isFocusOutputMode"`
}

// NewSettings returns a Settings object with the application defaults.
func NewSettings() *Settings {
	return &Settings{
		APIKeys:                map[Provider]string{},
		OutputType:             OutputEmail,
		NumMessagesForSequence: MinSequenceMessages,
		PreferredMessageLength: "2",
		ContextualCache:        map[string]string{},
		CurrentView:            ViewMain,
	}
}

// Normalize fills in zero values left behind by older persisted records so
// the rest of the application can rely on the maps and enums being usable.
func (s *Settings) Normalize() {
	if s.APIKeys == nil {
		s.APIKeys = map[Provider]string{}
	}
	if s.ContextualCache == nil {
		s.ContextualCache = map[string]string{}
	}
	if s.OutputType != OutputMessageSequence {
		s.OutputType = OutputEmail
	}
	if s.NumMessagesForSequence < MinSequenceMessages || s.NumMessagesForSequence > MaxSequenceMessages {
		s.NumMessagesForSequence = MinSequenceMessages
	}
	if s.PreferredMessageLength == "" {
		s.PreferredMessageLength = "2"
	}
	if s.CurrentView != ViewSettings {
		s.CurrentView = ViewMain
	}
}

// IsConfigured reports whether a provider, a model and the matching API key
// are all present, i.e. whether a generation call can be attempted.
func (s *Settings) IsConfigured() bool {
	if s.SelectedProvider == "" || s.SelectedModel == "" {
		return false
	}
	key, ok := s.APIKeys[s.SelectedProvider]
	return ok && key != ""
}
