package services

import (
	"fmt"
	"strings"

	"github.com/itish2003/notionkeep/models"
)

// DefaultSnippetChars caps how much of each note's content goes into an
// all-notes prompt.
const DefaultSnippetChars = 100

// PromptBuilder renders the single prompt string sent to every roster model.
type PromptBuilder struct {
	Locale       Locale
	SnippetChars int
}

// NewPromptBuilder returns a builder for locale; snippetChars <= 0 selects the default cap.
func NewPromptBuilder(locale Locale, snippetChars int) PromptBuilder {
	if snippetChars <= 0 {
		snippetChars = DefaultSnippetChars
	}
	return PromptBuilder{Locale: locale, SnippetChars: snippetChars}
}

// Build embeds the assistant framing, the note context and the verbatim question.
func (b PromptBuilder) Build(question string, nc models.NoteContext) string {
	var sb strings.Builder
	sb.WriteString(b.Locale.PromptFraming)
	sb.WriteString("\n\n")
	sb.WriteString(b.noteContext(nc))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, b.Locale.PromptQuestion, question)
	sb.WriteString("\n\n")
	sb.WriteString(b.Locale.PromptInstructions)
	return sb.String()
}

func (b PromptBuilder) noteContext(nc models.NoteContext) string {
	if nc.Scope == models.SingleNote && len(nc.Notes) == 1 {
		n := nc.Notes[0]
		return fmt.Sprintf(b.Locale.PromptSingleNote, n.Title, n.Content)
	}
	if len(nc.Notes) == 0 {
		return b.Locale.PromptNoNotes
	}
	lines := make([]string, 0, len(nc.Notes)+1)
	lines = append(lines, b.Locale.PromptAllNotes)
	for _, n := range nc.Notes {
		lines = append(lines, fmt.Sprintf(b.Locale.PromptNoteLine, n.Title, truncateRunes(n.Content, b.SnippetChars)))
	}
	return strings.Join(lines, "\n")
}

// truncateRunes keeps at most n characters of s without splitting a UTF-8 sequence.
func truncateRunes(s string, n int) string {
	if n < 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
