// Package postproc turns raw model output into UI- and clipboard-ready text:
// it strips the Markdown the prompt forbids but models still emit, and splits
// message sequences on the MESSAGE n:/--- convention.
package postproc

import (
	"regexp"
	"strings"
)

var (
	reBoldStar       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore = regexp.MustCompile(`__(.+?)__`)
	reItalicStar     = regexp.MustCompile(`\*([^*\n]+?)\*`)
	reItalicUnder    = regexp.MustCompile(`_([^_\n]+?)_`)
	reLink           = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	reMessageLabel   = regexp.MustCompile(`(?i)^message\s*\d+:\s*`)
)

// StripMarkdown removes emphasis markers and rewrites Markdown links as
// "text (url)".
//
// It is safe on streaming fragments: an unmatched opening marker is left
// untouched rather than mangled, and gets cleaned on the full-text pass once
// its closing marker has arrived.
func StripMarkdown(text string) string {
	text = reBoldStar.ReplaceAllString(text, "$1")
	text = reBoldUnderscore.ReplaceAllString(text, "$1")
	text = reItalicStar.ReplaceAllString(text, "$1")
	text = reItalicUnder.ReplaceAllString(text, "$1")
	text = reLink.ReplaceAllString(text, "$1 ($2)")
	return text
}

// SplitMessageSequence splits a model response into individual messages.
//
// The separator is a line containing exactly "---". A leading
// "MESSAGE <n>:" label (case-insensitive) is stripped from each part, parts
// are trimmed, and empty parts are discarded, so a response with a stray
// trailing separator, or one with no separators at all, still yields sane
// output. A response that ignored the convention entirely comes back as a
// single message.
func SplitMessageSequence(text string) []string {
	var messages []string
	var current []string

	flush := func() {
		part := strings.TrimSpace(strings.Join(current, "\n"))
		part = reMessageLabel.ReplaceAllString(part, "")
		part = strings.TrimSpace(part)
		if part != "" {
			messages = append(messages, part)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return messages
}

// JoinForClipboard renders cleaned message parts as a single string for the
// clipboard or page injection. On-screen display keeps per-message boxes;
// this is the flat form.
func JoinForClipboard(parts []string) string {
	return strings.Join(parts, "\n\n")
}
