package prompt

import (
	"fmt"
	"strings"

	"github.com/apexai/draftkit/internal/models"
)

// Fallback phrases for empty contextual fields. The first is used for the
// field the recipient cannot act without (the user is expected to cover it
// in their core message), the second for genuinely optional detail.
const (
	fallbackCoreMessage  = "User will provide in core message."
	fallbackNotSpecified = "Not specified."
)

// BuildSystemPrompt composes the full system prompt for a generation call.
//
// The function is total: unknown situations, unknown length keys, a nil
// context, or empty contextual fields all resolve through fallbacks and can
// never panic. It is also referentially transparent, which the UI relies on
// when re-generating with unchanged inputs.
func BuildSystemPrompt(req Request) string {
	var b strings.Builder

	writeBase(&b, req)

	if req.OutputType == models.OutputMessageSequence {
		writeSequenceRules(&b, req.NumMessages)
	}

	if req.Situation == "meeting-request" {
		writeMeetingTask(&b, req)
	} else {
		writeGenericTask(&b, req)
	}

	return b.String()
}

func writeBase(b *strings.Builder, req Request) {
	writerName := req.UserName
	if writerName == "" {
		writerName = "an employee"
	}

	c := req.Company

	fmt.Fprintf(b, "You are an LLM assistant for %s.\n", c.Name)
	b.WriteString("Your goal is to help employees write effective outbound business messages.\n")
	fmt.Fprintf(b, "The message is being written by %s from %s.\n\n", writerName, c.Name)

	b.WriteString("Company Information (Fixed - Do Not Deviate):\n")
	fmt.Fprintf(b, "- Name: %s\n", c.Name)
	fmt.Fprintf(b, "- Industry: %s\n", c.Industry)
	fmt.Fprintf(b, "- Core Services: %s\n", c.ServicesSummary)
	fmt.Fprintf(b, "- Detailed Services: %s\n", c.DetailedServicePairs())
	fmt.Fprintf(b, "- Unique Value Proposition: %q\n", c.UniqueValue)
	fmt.Fprintf(b, "- Target Audience: %s\n", c.TargetAudience)
	fmt.Fprintf(b, "- Brand Keywords: %s\n", c.BrandVoiceKeywords)
	fmt.Fprintf(b, "- Website: %s\n", c.URL)
	fmt.Fprintf(b, "- Services Page: %s\n", c.ServicesPage)
	fmt.Fprintf(b, "- Projects Page: %s\n\n", c.ProjectsPage)

	writeToneDirective(b, req)

	fmt.Fprintf(b, "Regarding length: %s\n\n", lengthInstruction(req))

	b.WriteString("Output Format Rules:\n")
	b.WriteString("The entire response must be plain text. Do not use any Markdown formatting. This means:\n")
	b.WriteString("- No bold text (like **text** or __text__).\n")
	b.WriteString("- No italic text (like *text* or _text_).\n")
	b.WriteString("- No Markdown links (like [link text](URL)). If a URL is necessary, write it out directly (e.g., https://www.example.com).\n")
	b.WriteString("- No Markdown lists (using *, -, or numbered lists).\n")
	b.WriteString("- No Markdown headers (using #).\n")
	b.WriteString("The output should be ONLY the generated message, ready to be copied and pasted. Do not include any of these instructions or preamble in the response.\n\n")
}

func writeToneDirective(b *strings.Builder, req Request) {
	tone := req.Tone
	if tone == "" {
		tone = req.Company.Tone
	}

	b.WriteString("Tone Directive:\n")
	fmt.Fprintf(b, "- Adopt this tone for the entire response: %s.\n", tone)
	b.WriteString("- If the requested tone is extreme or edgy (e.g., sarcastic, angry), apply it subtly and professionally unless the user's own message strongly implies otherwise.\n")
	b.WriteString("- Regardless of tone, phrase everything in plain, natural, jargon-free language.\n\n")
}

func lengthInstruction(req Request) string {
	if opt, ok := req.LengthOptions[req.LengthKey]; ok {
		return opt.Instruction
	}
	if opt, ok := req.LengthOptions[req.DefaultLengthKey]; ok {
		return opt.Instruction
	}
	return "Produce a standard, professionally balanced response in terms of length and detail."
}

func writeSequenceRules(b *strings.Builder, numMessages int) {
	b.WriteString("Message Sequence Rules:\n")
	fmt.Fprintf(b, "1. Generate a sequence of exactly %d short, distinct messages suitable for platforms like Discord, WhatsApp, or Slack.\n", numMessages)
	b.WriteString("2. Each message MUST start with a label on its own line: \"MESSAGE 1:\", \"MESSAGE 2:\", etc.\n")
	b.WriteString("3. After each complete message that is NOT the last one, add a new line containing only \"---\" as a separator. Do not add a separator after the final message.\n")
	b.WriteString("4. Each message should be concise and the messages must form a coherent flow.\n")
	b.WriteString("5. Incorporate company details only briefly and only where appropriate for short messages.\n\n")
}

// situationName turns a hyphenated template key into the space-separated
// form used in prose ("meeting-request" -> "meeting request").
func situationName(situation string) string {
	return strings.ReplaceAll(situation, "-", " ")
}

func writeGenericTask(b *strings.Builder, req Request) {
	target := "email"
	if req.OutputType == models.OutputMessageSequence {
		target = "sequence of short messages"
	}

	b.WriteString("Task:\n")
	fmt.Fprintf(b, "The user wants to write a %q %s.\n", situationName(req.Situation), target)
	if tpl, ok := req.Templates[req.Situation]; ok {
		fmt.Fprintf(b, "The general template/guideline for this task is: %q\n", tpl)
	}
	b.WriteString("\nUser's Core Message & Additional Context (if provided):\n")
	b.WriteString("(This will be provided in the user message part of the prompt)\n\n")
	b.WriteString("Instructions:\n")
	b.WriteString("1. Carefully review all the fixed company information and the user's specific requirements.\n")
	fmt.Fprintf(b, "2. Generate a response that fulfills the task, adapting the guideline above to the chosen output type (%s).\n", target)
	b.WriteString("3. The user-selected tone from the Tone Directive takes priority over any tone mentioned in the guideline.\n")
	b.WriteString("4. Ensure the response is tailored to the user's input, the selected situation, and any additional context provided.\n")
	b.WriteString("5. If the user's requirements are vague, make reasonable assumptions based on the company context.\n")
}

func writeMeetingTask(b *strings.Builder, req Request) {
	mr, ok := req.Context.(MeetingRequest)
	if !ok {
		// Tolerate a missing or mismatched context: all fields fall back.
		mr = MeetingRequest{}
	}

	b.WriteString("Task:\n")
	fmt.Fprintf(b, "The user wants to write a %q message.\n\n", situationName(req.Situation))

	writeClientStatus(b, req, mr.ClientStatus)
	writeMeetingObjective(b, req, mr)

	b.WriteString("\nUser's Core Message & Additional Context (if provided):\n")
	b.WriteString("(This will be provided in the user message part of the prompt)\n")
}

func writeClientStatus(b *strings.Builder, req Request, status ClientStatus) {
	name := req.Company.Name

	if status == StatusExisting {
		b.WriteString("IMPORTANT: This meeting request is for an EXISTING client.\n")
		b.WriteString("- Be very concise and direct.\n")
		fmt.Fprintf(b, "- DO NOT include a general company overview or introduction of %s. The recipient already knows us.\n", name)
		b.WriteString("- Focus solely on the meeting's purpose, proposed agenda (if any from user), and logistics.\n")
		b.WriteString("- Maintain a professional and familiar tone suitable for an existing relationship.\n\n")
		return
	}

	// Default to new/prospect when the status is anything but "existing".
	fmt.Fprintf(b, "NOTE: This meeting request might be for a new contact or someone less familiar with %s.\n", name)
	fmt.Fprintf(b, "- If appropriate and brief, you can subtly weave in what %s does if it directly relates to the meeting's purpose.\n", name)
	b.WriteString("- However, the primary focus remains on the meeting request itself: purpose, agenda (if any from user), logistics.\n")
	b.WriteString("- Avoid a lengthy company introduction. Keep any company mention extremely brief and highly relevant.\n\n")
}

// orFallback substitutes the fallback phrase for empty contextual values so
// every interpolation in the objective blocks is total.
func orFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func writeMeetingObjective(b *strings.Builder, req Request, mr MeetingRequest) {
	switch mr.Action {
	case ActionSchedule:
		b.WriteString("Objective: schedule a new meeting.\n")
		fmt.Fprintf(b, "- Purpose of the meeting: %s\n", orFallback(mr.Purpose, fallbackCoreMessage))
		fmt.Fprintf(b, "- Proposed duration: %s\n", orFallback(mr.Duration, fallbackNotSpecified))
		fmt.Fprintf(b, "- Writer's availability: %s\n", orFallback(mr.Availability, fallbackNotSpecified))

	case ActionCancel:
		b.WriteString("Objective: cancel an existing meeting politely.\n")
		fmt.Fprintf(b, "- Meeting to cancel: %s\n", orFallback(mr.Identifier, fallbackCoreMessage))
		fmt.Fprintf(b, "- Reason for cancellation: %s\n", orFallback(mr.Reason, fallbackNotSpecified))
		b.WriteString("- Apologize for any inconvenience and, if appropriate, offer to reconnect later.\n")

	case ActionReschedule:
		b.WriteString("Objective: reschedule an existing meeting.\n")
		fmt.Fprintf(b, "- Meeting to reschedule: %s\n", orFallback(mr.Identifier, fallbackCoreMessage))
		fmt.Fprintf(b, "- Originally scheduled time: %s\n", orFallback(mr.OriginalTime, fallbackNotSpecified))
		fmt.Fprintf(b, "- Proposed new time: %s\n", orFallback(mr.NewTime, fallbackCoreMessage))
		fmt.Fprintf(b, "- Reason for rescheduling: %s\n", orFallback(mr.Reason, fallbackNotSpecified))

	case ActionReminder:
		b.WriteString("Objective: send a friendly reminder about an upcoming meeting.\n")
		fmt.Fprintf(b, "- Meeting: %s\n", orFallback(mr.Identifier, fallbackCoreMessage))
		fmt.Fprintf(b, "- Key points to restate: %s\n", orFallback(mr.KeyPoints, fallbackNotSpecified))

	case ActionJoinRequest:
		b.WriteString("Objective: request to join an existing meeting.\n")
		fmt.Fprintf(b, "- Meeting to join: %s\n", orFallback(mr.Identifier, fallbackCoreMessage))
		fmt.Fprintf(b, "- Why the writer should attend: %s\n", orFallback(mr.Purpose, fallbackNotSpecified))

	default:
		// Unrecognized action: fall back to a generic meeting arrangement
		// using the raw situation template.
		b.WriteString("Objective: arrange a meeting.\n")
		if tpl, ok := req.Templates[req.Situation]; ok {
			fmt.Fprintf(b, "The general template/guideline for this task is: %q\n", tpl)
		}
	}
}
