// Package prompt deterministically composes the system prompt sent to the
// LLM. Composition is pure: no I/O, no randomness, no clock. Identical
// requests always yield byte-identical prompts.
package prompt

import (
	"github.com/apexai/draftkit/internal/company"
	"github.com/apexai/draftkit/internal/models"
)

// MeetingAction is the sub-action of a meeting-request situation.
type MeetingAction string

const (
	ActionSchedule    MeetingAction = "schedule"
	ActionCancel      MeetingAction = "cancel"
	ActionReschedule  MeetingAction = "reschedule"
	ActionReminder    MeetingAction = "reminder"
	ActionJoinRequest MeetingAction = "join_request"
)

// ClientStatus states whether the recipient already works with the company.
// Anything other than StatusExisting is treated as a new prospect.
type ClientStatus string

const (
	StatusExisting ClientStatus = "existing"
	StatusNew      ClientStatus = "new"
)

// Field is one contextual value with its human-readable name, in the order
// it should appear in the transport's additional-context block.
type Field struct {
	Name  string
	Value string
}

// Context carries the situation-specific user inputs. Each situation has its
// own variant with only the fields that situation uses; the flat Map form
// exists for the persisted contextual cache.
type Context interface {
	Situation() string
	Fields() []Field
	Map() map[string]string
}

// ColdEmail is the context for a first-touch email to a prospect.
type ColdEmail struct {
	TargetCompany  string
	TargetContact  string
	TargetIndustry string
	PainPoint      string
	DesiredOutcome string
}

func (c ColdEmail) Situation() string { return "cold-email" }

func (c ColdEmail) Fields() []Field {
	return []Field{
		{"Target Company", c.TargetCompany},
		{"Target Contact", c.TargetContact},
		{"Target Industry", c.TargetIndustry},
		{"Pain Point", c.PainPoint},
		{"Desired Outcome", c.DesiredOutcome},
	}
}

func (c ColdEmail) Map() map[string]string {
	return map[string]string{
		"targetCompany":  c.TargetCompany,
		"targetContact":  c.TargetContact,
		"targetIndustry": c.TargetIndustry,
		"painPoint":      c.PainPoint,
		"desiredOutcome": c.DesiredOutcome,
	}
}

// Followup references a previous interaction and offers new value.
type Followup struct {
	PreviousInteractionDate string
	PreviousKeyPoint        string
	NewValue                string
}

func (c Followup) Situation() string { return "followup" }

func (c Followup) Fields() []Field {
	return []Field{
		{"Previous Interaction Date", c.PreviousInteractionDate},
		{"Previous Key Point", c.PreviousKeyPoint},
		{"New Value", c.NewValue},
	}
}

func (c Followup) Map() map[string]string {
	return map[string]string{
		"previousInteractionDate": c.PreviousInteractionDate,
		"previousKeyPoint":        c.PreviousKeyPoint,
		"newValue":                c.NewValue,
	}
}

// PitchAgency pitches the agency's services against a client challenge.
type PitchAgency struct {
	ClientName      string
	ClientChallenge string
	SpecificService string
}

func (c PitchAgency) Situation() string { return "pitch-agency" }

func (c PitchAgency) Fields() []Field {
	return []Field{
		{"Client Name", c.ClientName},
		{"Client Challenge", c.ClientChallenge},
		{"Specific Service", c.SpecificService},
	}
}

func (c PitchAgency) Map() map[string]string {
	return map[string]string{
		"clientName":      c.ClientName,
		"clientChallenge": c.ClientChallenge,
		"specificService": c.SpecificService,
	}
}

// Proposal drafts a proposal section addressing stated client objectives.
type Proposal struct {
	ClientName    string
	ProjectScope  string
	KeyObjectives string
}

func (c Proposal) Situation() string { return "proposal" }

func (c Proposal) Fields() []Field {
	return []Field{
		{"Client Name", c.ClientName},
		{"Project Scope", c.ProjectScope},
		{"Key Objectives", c.KeyObjectives},
	}
}

func (c Proposal) Map() map[string]string {
	return map[string]string{
		"clientName":    c.ClientName,
		"projectScope":  c.ProjectScope,
		"keyObjectives": c.KeyObjectives,
	}
}

// MeetingRequest covers the five meeting sub-actions. Only the fields
// relevant to the chosen action are rendered into the prompt; the rest are
// carried for the cache round-trip.
type MeetingRequest struct {
	ClientStatus ClientStatus
	Action       MeetingAction
	Purpose      string
	Duration     string
	Availability string
	Identifier   string
	Reason       string
	OriginalTime string
	NewTime      string
	KeyPoints    string
}

func (c MeetingRequest) Situation() string { return "meeting-request" }

func (c MeetingRequest) Fields() []Field {
	return []Field{
		{"Client Status", string(c.ClientStatus)},
		{"Meeting Action", string(c.Action)},
		{"Meeting Purpose", c.Purpose},
		{"Meeting Duration", c.Duration},
		{"Availability", c.Availability},
		{"Meeting Identifier", c.Identifier},
		{"Reason", c.Reason},
		{"Original Time", c.OriginalTime},
		{"New Time", c.NewTime},
		{"Key Points", c.KeyPoints},
	}
}

func (c MeetingRequest) Map() map[string]string {
	return map[string]string{
		"clientStatus":       string(c.ClientStatus),
		"meetingAction":      string(c.Action),
		"meetingPurpose":     c.Purpose,
		"meetingDuration":    c.Duration,
		"availability":       c.Availability,
		"meetingIdentifier":  c.Identifier,
		"cancellationReason": c.Reason,
		"originalTime":       c.OriginalTime,
		"newTime":            c.NewTime,
		"keyPoints":          c.KeyPoints,
	}
}

// ThankYou expresses appreciation for a specific action or opportunity.
type ThankYou struct {
	ReasonForThanks string
	SpecificDetail  string
}

func (c ThankYou) Situation() string { return "thank-you" }

func (c ThankYou) Fields() []Field {
	return []Field{
		{"Reason For Thanks", c.ReasonForThanks},
		{"Specific Detail", c.SpecificDetail},
	}
}

func (c ThankYou) Map() map[string]string {
	return map[string]string{
		"reasonForThanks": c.ReasonForThanks,
		"specificDetail":  c.SpecificDetail,
	}
}

// ContextFromCache rebuilds the situation variant from the flat contextual
// cache. Unknown situations return nil, which the composer tolerates.
func ContextFromCache(situation string, cache map[string]string) Context {
	g := func(key string) string { return cache[key] }

	switch situation {
	case "cold-email":
		return ColdEmail{
			TargetCompany:  g("targetCompany"),
			TargetContact:  g("targetContact"),
			TargetIndustry: g("targetIndustry"),
			PainPoint:      g("painPoint"),
			DesiredOutcome: g("desiredOutcome"),
		}
	case "followup":
		return Followup{
			PreviousInteractionDate: g("previousInteractionDate"),
			PreviousKeyPoint:        g("previousKeyPoint"),
			NewValue:                g("newValue"),
		}
	case "pitch-agency":
		return PitchAgency{
			ClientName:      g("clientName"),
			ClientChallenge: g("clientChallenge"),
			SpecificService: g("specificService"),
		}
	case "proposal":
		return Proposal{
			ClientName:    g("clientName"),
			ProjectScope:  g("projectScope"),
			KeyObjectives: g("keyObjectives"),
		}
	case "meeting-request":
		return MeetingRequest{
			ClientStatus: ClientStatus(g("clientStatus")),
			Action:       MeetingAction(g("meetingAction")),
			Purpose:      g("meetingPurpose"),
			Duration:     g("meetingDuration"),
			Availability: g("availability"),
			Identifier:   g("meetingIdentifier"),
			Reason:       g("cancellationReason"),
			OriginalTime: g("originalTime"),
			NewTime:      g("newTime"),
			KeyPoints:    g("keyPoints"),
		}
	case "thank-you":
		return ThankYou{
			ReasonForThanks: g("reasonForThanks"),
			SpecificDetail:  g("specificDetail"),
		}
	}
	return nil
}

// FieldSpec names one contextual input: the cache key it is stored under and
// the label shown when asking for it.
type FieldSpec struct {
	Key   string
	Label string
}

// ContextFields lists the contextual inputs per situation, in prompt order.
// Unknown situations return nil.
func ContextFields(situation string) []FieldSpec {
	switch situation {
	case "cold-email":
		return []FieldSpec{
			{"targetCompany", "Target Company"},
			{"targetContact", "Target Contact"},
			{"targetIndustry", "Target Industry"},
			{"painPoint", "Pain Point"},
			{"desiredOutcome", "Desired Outcome"},
		}
	case "followup":
		return []FieldSpec{
			{"previousInteractionDate", "Previous Interaction Date"},
			{"previousKeyPoint", "Previous Key Point"},
			{"newValue", "New Value"},
		}
	case "pitch-agency":
		return []FieldSpec{
			{"clientName", "Client Name"},
			{"clientChallenge", "Client Challenge"},
			{"specificService", "Specific Service"},
		}
	case "proposal":
		return []FieldSpec{
			{"clientName", "Client Name"},
			{"projectScope", "Project Scope"},
			{"keyObjectives", "Key Objectives"},
		}
	case "meeting-request":
		return []FieldSpec{
			{"clientStatus", "Client Status"},
			{"meetingAction", "Meeting Action"},
			{"meetingPurpose", "Meeting Purpose"},
			{"meetingDuration", "Meeting Duration"},
			{"availability", "Availability"},
			{"meetingIdentifier", "Meeting Identifier"},
			{"cancellationReason", "Reason"},
			{"originalTime", "Original Time"},
			{"newTime", "New Time"},
			{"keyPoints", "Key Points"},
		}
	case "thank-you":
		return []FieldSpec{
			{"reasonForThanks", "Reason For Thanks"},
			{"specificDetail", "Specific Detail"},
		}
	}
	return nil
}

// Request is everything BuildSystemPrompt needs. It is assembled per
// generation call and discarded afterwards.
type Request struct {
	OutputType       models.OutputType
	Situation        string
	NumMessages      int
	UserName         string
	LengthKey        string
	Tone             string
	Company          company.Info
	Templates        map[string]string
	LengthOptions    map[string]company.LengthOption
	DefaultLengthKey string
	Context          Context
}
