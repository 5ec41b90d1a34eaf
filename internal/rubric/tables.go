package rubric

import (
	"regexp"
	"strings"
)

// MatchMode selects how a lookup table compares patterns with values
type MatchMode string

const (
	// MatchSubstring matches when the normalised pattern occurs inside the normalised value
	MatchSubstring MatchMode = "substring"
	// MatchExact matches when the normalised pattern equals the normalised value
	MatchExact MatchMode = "exact"
)

// Outcome tags how a lookup was resolved
type Outcome string

const (
	// OutcomeMatched means a table entry matched the value
	OutcomeMatched Outcome = "matched"
	// OutcomeUnmatched means the value was present but no entry matched; the table fallback applies
	OutcomeUnmatched Outcome = "unmatched"
	// OutcomeUnknown means the value was absent; the unknown-handling policy applies
	OutcomeUnknown Outcome = "unknown"
)

// Match is the result of resolving a value against a table
type Match struct {
	Outcome Outcome
	Label   string
	Pattern string
	Score   float64
}

// LookupEntry is one labelled row of a lookup table
type LookupEntry struct {
	Label    string   `json:"label" validate:"required"`
	Score    float64  `json:"score" validate:"gte=0"`
	Patterns []string `json:"patterns"`
}

// LookupTable is an ordered list of entries resolved first-match-wins.
// Entries are expected in descending score order so that first match is also best match.
type LookupTable struct {
	Match         MatchMode     `json:"match" validate:"oneof=substring exact"`
	Entries       []LookupEntry `json:"entries" validate:"dive"`
	Fallback      float64       `json:"fallback" validate:"gte=0"`
	FallbackLabel string        `json:"fallback_label"`
}

// Lookup resolves a value. Empty values resolve to OutcomeUnknown with a zero score;
// use Resolve to apply an unknown-handling policy instead.
func (t LookupTable) Lookup(value string) Match {
	v := Normalize(value)
	if v == "" {
		return Match{Outcome: OutcomeUnknown, Label: "unknown"}
	}

	for _, entry := range t.Entries {
		for _, pattern := range entry.Patterns {
			p := Normalize(pattern)
			if p == "" {
				continue
			}
			if t.matches(v, p) {
				return Match{
					Outcome: OutcomeMatched,
					Label:   entry.Label,
					Pattern: pattern,
					Score:   entry.Score,
				}
			}
		}
	}

	return Match{Outcome: OutcomeUnmatched, Label: t.FallbackLabel, Score: t.Fallback}
}

// Resolve is Lookup with absent values scored by the given unknown-handling policy
func (t LookupTable) Resolve(value string, unknown UnknownPolicy) Match {
	m := t.Lookup(value)
	if m.Outcome == OutcomeUnknown {
		m.Score = unknown.Score
	}
	return m
}

func (t LookupTable) matches(value, pattern string) bool {
	if t.Match == MatchExact {
		return value == pattern
	}
	return strings.Contains(value, pattern)
}

func (t LookupTable) clone() LookupTable {
	out := t
	out.Entries = make([]LookupEntry, len(t.Entries))
	for i, e := range t.Entries {
		out.Entries[i] = LookupEntry{
			Label:    e.Label,
			Score:    e.Score,
			Patterns: append([]string(nil), e.Patterns...),
		}
	}
	return out
}

// Band is one impact-factor range. Max of zero means unbounded above.
type Band struct {
	Label string  `json:"label" validate:"required"`
	Min   float64 `json:"min" validate:"gte=0"`
	Max   float64 `json:"max" validate:"gte=0"`
	Score float64 `json:"score" validate:"gte=0,lte=1"`
}

// Contains reports whether v falls in [Min, Max)
func (b Band) Contains(v float64) bool {
	if v < b.Min {
		return false
	}
	return b.Max == 0 || v < b.Max
}

// BandTable is an ordered list of numeric bands resolved first-match-wins
type BandTable struct {
	Bands []Band `json:"bands" validate:"dive"`
}

// Lookup resolves a numeric value against the bands
func (t BandTable) Lookup(v float64) Match {
	for _, b := range t.Bands {
		if b.Contains(v) {
			return Match{Outcome: OutcomeMatched, Label: b.Label, Score: b.Score}
		}
	}
	return Match{Outcome: OutcomeUnmatched, Label: "out_of_range"}
}

var whitespace = regexp.MustCompile(`\s+`)

// Normalize lowercases, trims and collapses internal whitespace
func Normalize(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}
