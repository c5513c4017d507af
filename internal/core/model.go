package core

import (
	"fmt"
	"strings"
	"time"
)

// Label is the verdict of a classification
type Label int

const (
	// LabelLegitimate marks an email as safe (model class 0)
	LabelLegitimate Label = iota
	// LabelPhishing marks an email as phishing (model class 1)
	LabelPhishing
)

// LabelFromClass maps a model class to a Label
func LabelFromClass(class int) (Label, error) {
	switch class {
	case 0:
		return LabelLegitimate, nil
	case 1:
		return LabelPhishing, nil
	default:
		return LabelLegitimate, fmt.Errorf("unknown model class: %d", class)
	}
}

// String returns the display name of the label
func (l Label) String() string {
	switch l {
	case LabelPhishing:
		return "Phishing"
	case LabelLegitimate:
		return "Legitimate"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// MarshalText implements encoding.TextMarshaler
func (l Label) MarshalText() ([]byte, error) {
	switch l {
	case LabelPhishing, LabelLegitimate:
		return []byte(l.String()), nil
	default:
		return nil, fmt.Errorf("invalid label: %d", int(l))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Label) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "phishing":
		*l = LabelPhishing
	case "legitimate":
		*l = LabelLegitimate
	default:
		return fmt.Errorf("invalid label: %q", string(text))
	}
	return nil
}

// Email represents an email message
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
	Headers map[string][]string
	// Source names where the email came from (file path, "stdin", "interactive")
	Source string
}

// Text returns the text that is scanned and classified.
// Header lines are kept so sender patterns in From are visible to the scanner.
func (e *Email) Text() string {
	var b strings.Builder
	if e.From != "" {
		b.WriteString("From: " + e.From + "\n")
	}
	if len(e.To) > 0 {
		b.WriteString("To: " + strings.Join(e.To, ", ") + "\n")
	}
	if e.Subject != "" {
		b.WriteString("Subject: " + e.Subject + "\n")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(e.Body)
	return b.String()
}

// IndicatorReport holds the phishing indicators found in one piece of text
type IndicatorReport struct {
	SuspiciousURLs       []string `json:"suspicious_urls"`
	UrgentPhrases        []string `json:"urgent_phrases"`
	PersonalInfoRequests []string `json:"personal_info_requests"`
	SuspiciousSenders    []string `json:"suspicious_senders"`
	GrammarIssues        int      `json:"grammar_issues"`
}

// Empty reports whether no indicator fired
func (r IndicatorReport) Empty() bool {
	return len(r.SuspiciousURLs) == 0 &&
		len(r.UrgentPhrases) == 0 &&
		len(r.PersonalInfoRequests) == 0 &&
		len(r.SuspiciousSenders) == 0 &&
		r.GrammarIssues == 0
}

// Counts returns the number of matches per indicator category
func (r IndicatorReport) Counts() map[string]int {
	return map[string]int{
		"suspicious_urls":        len(r.SuspiciousURLs),
		"urgent_phrases":         len(r.UrgentPhrases),
		"personal_info_requests": len(r.PersonalInfoRequests),
		"suspicious_senders":     len(r.SuspiciousSenders),
		"grammar_issues":         r.GrammarIssues,
	}
}

// ClassificationResult represents the result of phishing analysis
type ClassificationResult struct {
	Label        Label           `json:"label"`
	Confidence   float64         `json:"confidence"`
	Explanation  string          `json:"explanation"`
	Indicators   IndicatorReport `json:"indicators"`
	AnalyzedAt   time.Time       `json:"analyzed_at"`
	ModelUsed    string          `json:"model_used"`
	ProcessingID string          `json:"processing_id"`
}

// IsPhishing reports whether the result is a phishing verdict
func (r *ClassificationResult) IsPhishing() bool {
	return r.Label == LabelPhishing
}

// CacheEntry is a cached verdict for a piece of text
type CacheEntry struct {
	Digest      string
	Label       Label
	Confidence  float64
	Explanation string
	LastSeen    time.Time
	ExpiresAt   time.Time
}
