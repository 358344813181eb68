package entities

import "time"

// Report is the outcome of one scan.
type Report struct {
	RunID        string
	Account      string
	GeneratedAt  time.Time
	Repositories int // repositories walked
	Results      []MatchResult
}

// Exact returns the exact matches, in report order.
func (r Report) Exact() []MatchResult { return r.filter(MatchExact) }

// Partial returns the partial matches, in report order.
func (r Report) Partial() []MatchResult { return r.filter(MatchPartial) }

func (r Report) filter(kind MatchKind) []MatchResult {
	var out []MatchResult
	for _, result := range r.Results {
		if result.Kind == kind {
			out = append(out, result)
		}
	}
	return out
}
