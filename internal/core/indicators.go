package core

import (
	"regexp"
	"strings"
)

var (
	urlPattern = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\\(\\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

	camelBreakPattern = regexp.MustCompile(`[a-z][A-Z]`)
	// Unicode whitespace and the information separators U+001C to U+001F, not only ASCII whitespace.
	whitespaceRunPattern = regexp.MustCompile(`[\t\n\v\f\r \x{1c}-\x{1f}\x{85}\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}]{3,}`)
	exclamationPattern   = regexp.MustCompile(`!!+`)
)

// Link shortener fragments that make a URL suspicious
var shortenerFragments = []string{"bit.ly", "tinyurl", "t.co", "short.link", "ow.ly", "goo.gl"}

var urgentPhrases = []string{
	"urgent", "immediate action", "act now", "limited time", "expire today",
	"suspended", "verify immediately", "click here now", "confirm identity",
	"update payment", "account will be closed", "security alert", "winner",
	"congratulations", "claim now", "free money", "inheritance",
}

var personalInfoPhrases = []string{
	"social security", "ssn", "credit card", "password", "pin number",
	"bank account", "routing number", "personal information", "verify account",
	"login credentials", "full name", "date of birth",
}

var senderPatterns = []string{"noreply@", "no-reply@", "admin@", "support@"}

// ScanIndicators scans text for phishing indicators.
// It is total over any input and keeps no state between calls.
func ScanIndicators(text string) IndicatorReport {
	lower := strings.ToLower(text)

	report := IndicatorReport{
		SuspiciousURLs:       []string{},
		UrgentPhrases:        matchPhrases(lower, urgentPhrases),
		PersonalInfoRequests: matchPhrases(lower, personalInfoPhrases),
		SuspiciousSenders:    matchPhrases(lower, senderPatterns),
		GrammarIssues:        GrammarScore(text),
	}

	// A URL is reported once for every shortener fragment it contains
	for _, url := range urlPattern.FindAllString(lower, -1) {
		for _, fragment := range shortenerFragments {
			if strings.Contains(url, fragment) {
				report.SuspiciousURLs = append(report.SuspiciousURLs, url)
			}
		}
	}

	return report
}

// GrammarScore counts formatting irregularities in the original (not lower-cased) text:
// lowercase-uppercase pairs, runs of three or more whitespace characters and
// runs of two or more exclamation marks.
func GrammarScore(text string) int {
	return len(camelBreakPattern.FindAllStringIndex(text, -1)) +
		len(whitespaceRunPattern.FindAllStringIndex(text, -1)) +
		len(exclamationPattern.FindAllStringIndex(text, -1))
}

func matchPhrases(lower string, phrases []string) []string {
	matched := []string{}
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			matched = append(matched, phrase)
		}
	}
	return matched
}
