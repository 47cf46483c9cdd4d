package services

import "strings"

// Locale holds every user-facing phrase of the chat pipeline for one language:
// the prompt framing sent upstream and the texts of the fallback synthesizer.
type Locale struct {
	Tag        string
	DateLayout string

	PromptFraming      string
	PromptSingleNote   string // title, content
	PromptAllNotes     string
	PromptNoteLine     string // title, content snippet
	PromptNoNotes      string
	PromptQuestion     string // question
	PromptInstructions string

	Greeting         string
	QuotaExplanation string
	QuotaDigest      string // note count, most recent title
	NoNotesYet       string
	NoNotesToAnalyze string
	SummaryAnswer    string // note count, quoted titles
	SummaryMore      string
	SummaryEnd       string
	CountAnswer      string // note count
	RecencyAnswer    string // title, date
	DefaultAnswer    string // error text
	UnknownError     string

	SummaryKeywords []string
	CountKeywords   []string
	RecencyKeywords []string
}

var italian = Locale{
	Tag:        "it",
	DateLayout: "2/1/2006",

	PromptFraming: "Sei un assistente AI per un'app di note chiamata NotionKeep.\n" +
		"Il tuo compito è analizzare le note e fornire informazioni utili.\n" +
		"Rispondi sempre in italiano.",
	PromptSingleNote:   "Analizzando la nota intitolata \"%s\": %s",
	PromptAllNotes:     "Analizzando tutte le note:",
	PromptNoteLine:     "Nota intitolata \"%s\": %s...",
	PromptNoNotes:      "Nessuna nota trovata da analizzare.",
	PromptQuestion:     "Domanda dell'utente: %s",
	PromptInstructions: "Fornisci una risposta utile e concisa basata sul contenuto delle note.",

	Greeting: "Mi dispiace, ",
	QuotaExplanation: "al momento non posso rispondere perché abbiamo raggiunto il limite di richieste all'API di Google AI.\n\n" +
		"Questo accade perché stiamo utilizzando il piano gratuito di Google AI, che ha limiti sul numero di richieste che possiamo fare.\n\n" +
		"Puoi riprovare tra qualche minuto quando la quota si sarà resettata.\n\n" +
		"Nel frattempo, ecco un riassunto delle tue note:\n",
	QuotaDigest:      "Hai %d note. La più recente è intitolata \"%s\".",
	NoNotesYet:       "Non hai ancora creato nessuna nota.",
	NoNotesToAnalyze: "non ci sono ancora note da analizzare. Prova a creare qualche nota prima di chiedere informazioni.",
	SummaryAnswer:    "non posso generare un riassunto dettagliato al momento, ma posso dirti che hai %d note, tra cui: %s",
	SummaryMore:      " e altre.",
	SummaryEnd:       ".",
	CountAnswer:      "posso dirti che ci sono %d note nella collezione.",
	RecencyAnswer:    "non posso analizzare in dettaglio le note al momento, ma posso dirti che la nota più recente è \"%s\" aggiornata il %s.",
	DefaultAnswer: "non posso analizzare le tue note al momento a causa di un problema tecnico.\n\n" +
		"Errore: %s\n\n" +
		"Puoi riprovare più tardi o verificare le impostazioni dell'API key.",
	UnknownError: "Errore sconosciuto",

	SummaryKeywords: []string{"riassunto", "riassumi", "sintesi", "sintetizza"},
	CountKeywords:   []string{"quante", "numero", "conta", "totale"},
	RecencyKeywords: []string{"recente", "ultima", "nuova", "aggiornata"},
}

var english = Locale{
	Tag:        "en",
	DateLayout: "1/2/2006",

	PromptFraming: "You are an AI assistant for a notes app called NotionKeep.\n" +
		"Your job is to analyse the notes and provide useful information.\n" +
		"Always answer in English.",
	PromptSingleNote:   "Analysing the note titled \"%s\": %s",
	PromptAllNotes:     "Analysing all notes:",
	PromptNoteLine:     "Note titled \"%s\": %s...",
	PromptNoNotes:      "No notes found to analyse.",
	PromptQuestion:     "User question: %s",
	PromptInstructions: "Give a useful and concise answer based on the content of the notes.",

	Greeting: "Sorry, ",
	QuotaExplanation: "I can't answer right now because we reached the request limit of the Google AI API.\n\n" +
		"This happens because we are on the Google AI free tier, which limits how many requests we can make.\n\n" +
		"You can try again in a few minutes once the quota resets.\n\n" +
		"Meanwhile, here is a summary of your notes:\n",
	QuotaDigest:      "You have %d notes. The most recent one is titled \"%s\".",
	NoNotesYet:       "You haven't created any notes yet.",
	NoNotesToAnalyze: "there are no notes to analyse yet. Try creating a few notes before asking.",
	SummaryAnswer:    "I can't produce a detailed summary right now, but you have %d notes, including: %s",
	SummaryMore:      " and more.",
	SummaryEnd:       ".",
	CountAnswer:      "I can tell you there are %d notes in the collection.",
	RecencyAnswer:    "I can't analyse the notes in detail right now, but the most recent note is \"%s\", updated on %s.",
	DefaultAnswer: "I can't analyse your notes right now because of a technical problem.\n\n" +
		"Error: %s\n\n" +
		"Try again later or check the API key settings.",
	UnknownError: "Unknown error",

	SummaryKeywords: []string{"summary", "summarize", "summarise", "overview"},
	CountKeywords:   []string{"how many", "number", "count", "total"},
	RecencyKeywords: []string{"recent", "latest", "newest", "updated"},
}

// LocaleFor returns the locale for a language tag such as "it" or "en-GB".
// Unknown tags get Italian.
func LocaleFor(tag string) Locale {
	t := strings.ToLower(strings.TrimSpace(tag))
	if strings.HasPrefix(t, "en") {
		return english
	}
	return italian
}
