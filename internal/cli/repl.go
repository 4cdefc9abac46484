package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Status(ctx context.Context) error
	Provider(ctx context.Context, args []string) error
	Model(ctx context.Context, args []string) error
	SetKey(ctx context.Context, args []string) error
	ClearKey(ctx context.Context, args []string) error
	Name(ctx context.Context, args []string) error
	Output(ctx context.Context, args []string) error
	Count(ctx context.Context, args []string) error
	Situation(ctx context.Context, args []string) error
	Length(ctx context.Context, args []string) error
	Tone(ctx context.Context, args []string) error
	Action(ctx context.Context, args []string) error
	EditContext(ctx context.Context) error
	Generate(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Reset(ctx context.Context) error
}

// runREPL starts a read-eval-print loop for the drafting console.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	help              — show available commands
//	status            — show current settings
//	provider <name>   — select the LLM provider (openai, google)
//	model <name>      — select the model
//	setkey [provider] — enter an API key (hidden input)
//	clearkey [provider] — forget a stored API key
//	name <text>       — set the sender's display name
//	output <type>     — email or sequence
//	count <n>         — messages per sequence
//	situation <key>   — pick the message situation
//	length <0-3>      — preferred message length
//	tone [text]       — preferred tone, empty to clear
//	action <name>     — meeting action for meeting-request
//	context           — fill in the situation's contextual fields
//	(g)enerate [text] — draft a message from the core text
//	history [...]     — list, show or purge recorded drafts
//	reset             — restore default settings
//	exit | quit       — leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("dk %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: status, provider, model, setkey, clearkey, name, output, count, situation, length, tone, action, context, (g)enerate, history, reset, exit")

		case "status":
			_ = a.Status(ctx)

		case "provider":
			_ = a.Provider(ctx, args)

		case "model":
			_ = a.Model(ctx, args)

		case "setkey":
			_ = a.SetKey(ctx, args)

		case "clearkey":
			_ = a.ClearKey(ctx, args)

		case "name":
			_ = a.Name(ctx, args)

		case "output":
			_ = a.Output(ctx, args)

		case "count":
			_ = a.Count(ctx, args)

		case "situation":
			_ = a.Situation(ctx, args)

		case "length":
			_ = a.Length(ctx, args)

		case "tone":
			_ = a.Tone(ctx, args)

		case "action":
			_ = a.Action(ctx, args)

		case "context":
			_ = a.EditContext(ctx)

		case "g", "generate":
			_ = a.Generate(ctx, args)

		case "history":
			_ = a.History(ctx, args)

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
