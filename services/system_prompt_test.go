package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itish2003/notionkeep/models"
)

func TestPromptBuilder_SingleNote(t *testing.T) {
	b := NewPromptBuilder(LocaleFor("it"), 0)
	nc := models.NoteContext{
		Scope: models.SingleNote,
		Notes: []models.Note{{Title: "Spesa", Content: strings.Repeat("x", 300)}},
	}

	p := b.Build("Cosa devo comprare?", nc)

	assert.Contains(t, p, "Rispondi sempre in italiano.")
	assert.Contains(t, p, `Analizzando la nota intitolata "Spesa": `+strings.Repeat("x", 300))
	assert.Contains(t, p, "Domanda dell'utente: Cosa devo comprare?")
}

func TestPromptBuilder_AllNotesTruncated(t *testing.T) {
	b := NewPromptBuilder(LocaleFor("it"), 0)
	long := strings.Repeat("à", 150)
	nc := models.NoteContext{
		Scope: models.AllNotes,
		Notes: []models.Note{{Title: "A", Content: long}, {Title: "B", Content: "corta"}},
	}

	p := b.Build("Riassumi", nc)

	assert.Contains(t, p, "Analizzando tutte le note:\n")
	assert.Contains(t, p, `Nota intitolata "A": `+strings.Repeat("à", 100)+"...")
	assert.NotContains(t, p, strings.Repeat("à", 101))
	assert.Contains(t, p, `Nota intitolata "B": corta...`)
}

func TestPromptBuilder_NoNotes(t *testing.T) {
	p := NewPromptBuilder(LocaleFor("it"), 0).Build("ciao", models.NoteContext{})
	assert.Contains(t, p, "Nessuna nota trovata da analizzare.")
}

func TestPromptBuilder_English(t *testing.T) {
	p := NewPromptBuilder(LocaleFor("en-US"), 10).Build("hi", models.NoteContext{
		Notes: []models.Note{{Title: "T", Content: "0123456789abc"}},
	})
	assert.Contains(t, p, "Always answer in English.")
	assert.Contains(t, p, `Note titled "T": 0123456789...`)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "è", truncateRunes("èé", 1))
}
