package services

// ModelCandidate is one upstream model identifier plus its per-run quota flag.
type ModelCandidate struct {
	Identifier     string
	QuotaExhausted bool
}

// Roster is the ordered candidate list of a single chat run. The order is
// fixed at construction; candidates are only ever filtered, never reordered.
type Roster struct {
	candidates []ModelCandidate
}

// NewRoster allocates a fresh roster for one run, so exhaustion flags never
// leak between requests.
func NewRoster(models []string) *Roster {
	candidates := make([]ModelCandidate, 0, len(models))
	for _, m := range models {
		candidates = append(candidates, ModelCandidate{Identifier: m})
	}
	return &Roster{candidates: candidates}
}

// Len is the number of candidates, exhausted or not.
func (r *Roster) Len() int { return len(r.candidates) }

// Available returns the indexes of candidates that are not quota-exhausted, in roster order.
func (r *Roster) Available() []int {
	idx := make([]int, 0, len(r.candidates))
	for i, c := range r.candidates {
		if !c.QuotaExhausted {
			idx = append(idx, i)
		}
	}
	return idx
}

// Candidate returns a copy of the candidate at index i.
func (r *Roster) Candidate(i int) ModelCandidate { return r.candidates[i] }

// MarkExhausted flags the candidate at index i as out of quota.
func (r *Roster) MarkExhausted(i int) { r.candidates[i].QuotaExhausted = true }

// AllExhausted reports whether every candidate has hit its quota.
func (r *Roster) AllExhausted() bool {
	if len(r.candidates) == 0 {
		return false
	}
	for _, c := range r.candidates {
		if !c.QuotaExhausted {
			return false
		}
	}
	return true
}

// ResetExhaustion clears every quota flag. Only the global back-off does this:
// once the quota window has been waited out the whole roster is eligible again.
func (r *Roster) ResetExhaustion() {
	for i := range r.candidates {
		r.candidates[i].QuotaExhausted = false
	}
}
