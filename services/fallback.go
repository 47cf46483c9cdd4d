package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/itish2003/notionkeep/models"
)

const maxErrorSnippet = 100

// Synthesizer builds a deterministic answer from note metadata when no
// upstream model produced one. It is a pure function of its inputs.
type Synthesizer struct {
	locale Locale
}

func NewSynthesizer(locale Locale) *Synthesizer {
	return &Synthesizer{locale: locale}
}

// Synthesize never fails and always returns a non-empty answer. lastError is
// the last failed attempt of the run, or nil when no call was made.
func (s *Synthesizer) Synthesize(question string, notes []models.Note, lastError *AttemptOutcome) string {
	l := s.locale

	if lastError != nil && lastError.Kind == OutcomeQuotaExceeded {
		digest := l.NoNotesYet
		if len(notes) > 0 {
			digest = fmt.Sprintf(l.QuotaDigest, len(notes), mostRecent(notes).Title)
		}
		return l.Greeting + l.QuotaExplanation + digest
	}

	if len(notes) == 0 {
		return l.Greeting + l.NoNotesToAnalyze
	}

	q := strings.ToLower(question)
	switch {
	case containsAny(q, l.SummaryKeywords):
		limit := min(3, len(notes))
		titles := make([]string, 0, limit)
		for _, n := range notes[:limit] {
			titles = append(titles, `"`+n.Title+`"`)
		}
		end := l.SummaryEnd
		if len(notes) > 3 {
			end = l.SummaryMore
		}
		return l.Greeting + fmt.Sprintf(l.SummaryAnswer, len(notes), strings.Join(titles, ", ")) + end
	case containsAny(q, l.CountKeywords):
		return l.Greeting + fmt.Sprintf(l.CountAnswer, len(notes))
	case containsAny(q, l.RecencyKeywords):
		n := mostRecent(notes)
		return l.Greeting + fmt.Sprintf(l.RecencyAnswer, n.Title, n.UpdatedAt.Format(l.DateLayout))
	}

	return l.Greeting + fmt.Sprintf(l.DefaultAnswer, s.errorSnippet(lastError))
}

// errorSnippet keeps the first line of the error text, capped in length, so
// technical detail never dominates the answer.
func (s *Synthesizer) errorSnippet(lastError *AttemptOutcome) string {
	if lastError == nil || strings.TrimSpace(lastError.Message) == "" {
		return s.locale.UnknownError
	}
	first, _, _ := strings.Cut(lastError.Message, "\n")
	return truncateRunes(first, maxErrorSnippet)
}

// mostRecent returns the note with the latest UpdatedAt; ties keep collection order.
func mostRecent(notes []models.Note) models.Note {
	sorted := make([]models.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	return sorted[0]
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
