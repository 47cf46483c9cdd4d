package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultRetryDelay is used when a quota error carries no parsable retry hint.
const DefaultRetryDelay = 30 * time.Second

// MaxRetryDelay caps a parsed retry hint. Longer hints end in the chat
// timeout anyway.
const MaxRetryDelay = time.Hour

// OutcomeKind tags an AttemptOutcome.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeQuotaExceeded
	OutcomeOtherFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeQuotaExceeded:
		return "quota_exceeded"
	default:
		return "other_failure"
	}
}

// AttemptOutcome is the result of one upstream generation call.
// Text is set for successes, RetryAfter for quota errors and Message carries
// the raw upstream error text of any failure.
type AttemptOutcome struct {
	Kind       OutcomeKind
	Text       string
	RetryAfter time.Duration
	Message    string
}

func Success(text string) AttemptOutcome {
	return AttemptOutcome{Kind: OutcomeSuccess, Text: text}
}

func QuotaExceeded(retryAfter time.Duration, message string) AttemptOutcome {
	return AttemptOutcome{Kind: OutcomeQuotaExceeded, RetryAfter: retryAfter, Message: message}
}

func OtherFailure(message string) AttemptOutcome {
	return AttemptOutcome{Kind: OutcomeOtherFailure, Message: message}
}

// ErrorClassifier turns raw upstream error text into an AttemptOutcome.
type ErrorClassifier interface {
	Classify(raw string) AttemptOutcome
}

var retryDelayPattern = regexp.MustCompile(`retryDelay":"(\d+)s"`)

// MarkerClassifier flags an error as a quota error when its text contains any
// of Markers (case-insensitive). Matching is tied to the Gemini error format.
type MarkerClassifier struct {
	Markers           []string
	DefaultRetryDelay time.Duration
}

// NewQuotaClassifier returns the classifier for Gemini quota and rate-limit errors.
func NewQuotaClassifier(defaultDelay time.Duration) *MarkerClassifier {
	if defaultDelay <= 0 {
		defaultDelay = DefaultRetryDelay
	}
	return &MarkerClassifier{
		Markers:           []string{"quota", "429", "rate limit", "resource_exhausted"},
		DefaultRetryDelay: defaultDelay,
	}
}

func (c *MarkerClassifier) Classify(raw string) AttemptOutcome {
	lower := strings.ToLower(raw)
	for _, m := range c.Markers {
		if strings.Contains(lower, m) {
			return QuotaExceeded(ParseRetryDelay(raw, c.DefaultRetryDelay), raw)
		}
	}
	return OtherFailure(raw)
}

// ParseRetryDelay extracts the retryDelay":"<N>s" hint from an error payload,
// returning def when the hint is absent or malformed. Hints above
// MaxRetryDelay are clamped to it.
func ParseRetryDelay(raw string, def time.Duration) time.Duration {
	m := retryDelayPattern.FindStringSubmatch(raw)
	if len(m) < 2 {
		return def
	}
	secs, err := strconv.Atoi(m[1])
	if err != nil {
		return def
	}
	if secs > int(MaxRetryDelay/time.Second) {
		return MaxRetryDelay
	}
	return time.Duration(secs) * time.Second
}
