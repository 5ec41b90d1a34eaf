// Package types provides type definitions for structured data used throughout the resume-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// CandidateRecord is one structured resume as produced by the upstream extraction step.
// It is read-only to the scoring core.
type CandidateRecord struct {
	ID           string             `json:"id,omitempty"`
	Filename     string             `json:"filename,omitempty"`
	Name         string             `json:"name"`
	Education    []EducationEntry   `json:"education"`
	Experience   []ExperienceEntry  `json:"experience"`
	Publications []PublicationEntry `json:"publications"`
	Awards       []AwardEntry       `json:"awards"`
}

// Key returns the identifier used to join the record with scores and reference rankings:
// the explicit id, else the filename, else the name.
func (c CandidateRecord) Key() string {
	switch {
	case strings.TrimSpace(c.ID) != "":
		return strings.TrimSpace(c.ID)
	case strings.TrimSpace(c.Filename) != "":
		return strings.TrimSpace(c.Filename)
	default:
		return strings.TrimSpace(c.Name)
	}
}

// DisplayName returns the candidate name, falling back to the key
func (c CandidateRecord) DisplayName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return c.Key()
}

// EducationEntry represents one degree
type EducationEntry struct {
	Degree     string        `json:"degree"`
	Field      string        `json:"field"`
	University string        `json:"university"`
	Country    string        `json:"country,omitempty"`
	Start      FlexString    `json:"start"`
	End        FlexString    `json:"end"`
	GPA        OptionalFloat `json:"gpa"`
	Scale      OptionalFloat `json:"scale"`
}

// ExperienceEntry represents one position held
type ExperienceEntry struct {
	Title          string        `json:"title"`
	Org            string        `json:"org"`
	Start          FlexString    `json:"start"`
	End            FlexString    `json:"end"`
	DurationMonths OptionalFloat `json:"duration_months"`
	Domain         string        `json:"domain"`
}

// PublicationEntry represents one paper or article
type PublicationEntry struct {
	Title          string        `json:"title"`
	Venue          string        `json:"venue"`
	Year           FlexString    `json:"year"`
	Authors        FlexStrings   `json:"authors,omitempty"`
	AuthorPosition FlexString    `json:"author_position"`
	JournalIF      OptionalFloat `json:"journal_if"`
	Domain         string        `json:"domain,omitempty"`
}

// AwardEntry represents an award, honour or certification
type AwardEntry struct {
	Title  string     `json:"title"`
	Issuer string     `json:"issuer"`
	Year   FlexString `json:"year"`
}
