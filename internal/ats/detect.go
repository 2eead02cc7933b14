package ats

import (
	"regexp"
	"strings"
)

// Go's \b only knows ASCII word characters. These classes give the Unicode
// notion instead, so "éexperience" is one word and not a section header.
const (
	wordChar      = `[\pL\pN_]`
	nonWordChar   = `[^\pL\pN_]`
	startBoundary = `(?:^|` + nonWordChar + `)`
	endBoundary   = `(?:` + nonWordChar + `|$)`
)

// wordPattern matches any of the |-separated alternatives as a whole word,
// case-insensitively. Every alternative must start and end with a word character.
func wordPattern(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + startBoundary + `(?:` + alternatives + `)` + endBoundary)
}

var (
	sectionPatterns = []*regexp.Regexp{
		wordPattern(`experience|work experience|employment|professional experience`),
		wordPattern(`education|academic|degree|university|college`),
		wordPattern(`skills|technical skills|competencies|technologies`),
		wordPattern(`contact|email|phone|address`),
	}

	// The local part may open with one of .%+- which then needs a word character before it.
	// The top level domain may close with "|" which then needs a word character after it.
	emailPattern = regexp.MustCompile(
		`(?:` + startBoundary + `[A-Za-z0-9_]|` + wordChar + `[.%+-])[A-Za-z0-9._%+-]*` +
			`@[A-Za-z0-9.-]+\.` +
			`[A-Z|a-z]+(?:[A-Za-z]` + endBoundary + `|\|` + wordChar + `)`,
	)
	phonePattern = regexp.MustCompile(startBoundary + `\p{Nd}{3}[-.]?\p{Nd}{3}[-.]?\p{Nd}{4}` + endBoundary)

	// A unit of % or + must be glued to a word, so "50% growth" does not count while "50%growth" does.
	quantifiedPattern = regexp.MustCompile(
		`(?i)` + startBoundary + `\p{Nd}+(?:\.\p{Nd}+)?` +
			`(?:[%+]` + wordChar + `|(?:percent|years?|months?)` + endBoundary + `)`,
	)

	actionVerbPattern = wordPattern(`achieved|managed|developed|created|led|improved`)
)

// densityKeywords feed the keyword sub-score.
var densityKeywords = []string{
	"experience", "project", "managed", "developed", "created", "led",
	"achieved", "improved", "implemented", "designed", "built",
	"collaborated", "team", "client", "solution", "skills",
}

// ReportedKeywords are listed back to the caller as matched_keywords.
var ReportedKeywords = []string{
	"experience", "project", "managed", "developed", "created", "led",
	"achieved", "improved", "implemented", "designed", "built",
	"collaborated", "team", "client", "solution", "skills",
	"education", "university", "degree", "certification",
	"software", "technical", "analysis", "communication",
}

var (
	bulletMarkers    = []string{"•", "-", "*", "→"}
	tipBulletMarkers = []string{"•", "-", "*"}

	firstPersonPhrases = []string{"i am", "my name is", "i have"}
)

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func countSections(text string) int {
	found := 0
	for _, pattern := range sectionPatterns {
		if pattern.MatchString(text) {
			found++
		}
	}
	return found
}

func hasEmail(text string) bool { return emailPattern.MatchString(text) }

func hasPhone(text string) bool { return phonePattern.MatchString(text) }

func hasQuantified(text string) bool { return quantifiedPattern.MatchString(text) }

func hasActionVerb(text string) bool { return actionVerbPattern.MatchString(text) }

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func usesFirstPerson(text string) bool {
	return containsAny(strings.ToLower(text), firstPersonPhrases)
}
