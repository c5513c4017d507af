package core

import (
	"strings"
)

const (
	phishingHeader   = "SECURITY ALERT - PHISHING DETECTED:"
	legitimateHeader = "SECURITY VERIFIED - EMAIL IS LEGITIMATE:"

	// Phishing flags grammar above 3, legitimate affirms it at 2 or below.
	// A score of exactly 3 produces no grammar line in either branch.
	phishingGrammarThreshold   = 3
	legitimateGrammarThreshold = 2
)

// FormatExplanation builds the human-readable rationale for a verdict.
// The text is scanned again so the explanation never depends on a report
// produced elsewhere. Confidence is accepted but not rendered.
func FormatExplanation(label Label, confidence float64, text string) string {
	return formatReport(label, ScanIndicators(text))
}

func formatReport(label Label, report IndicatorReport) string {
	var header string
	var reasons []string

	switch label {
	case LabelPhishing:
		header = phishingHeader
		if len(report.SuspiciousURLs) > 0 {
			reasons = append(reasons, "Suspicious shortened URLs detected")
		}
		if len(report.UrgentPhrases) > 0 {
			reasons = append(reasons, "Urgent/threatening language patterns")
		}
		if len(report.PersonalInfoRequests) > 0 {
			reasons = append(reasons, "Requests for sensitive information")
		}
		if report.GrammarIssues > phishingGrammarThreshold {
			reasons = append(reasons, "Multiple grammar/formatting irregularities")
		}
		if len(report.SuspiciousSenders) > 0 {
			reasons = append(reasons, "Suspicious sender patterns identified")
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "Model detected phishing patterns")
		}
	case LabelLegitimate:
		header = legitimateHeader
		if len(report.SuspiciousURLs) == 0 {
			reasons = append(reasons, "No suspicious URLs found")
		}
		if len(report.UrgentPhrases) == 0 {
			reasons = append(reasons, "Professional communication tone")
		}
		if len(report.PersonalInfoRequests) == 0 {
			reasons = append(reasons, "No sensitive information requests")
		}
		if report.GrammarIssues <= legitimateGrammarThreshold {
			reasons = append(reasons, "Proper grammar and formatting")
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "All security checks passed")
		}
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i, reason := range reasons {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• ")
		b.WriteString(reason)
	}
	return b.String()
}
