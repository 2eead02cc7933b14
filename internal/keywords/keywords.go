package keywords

import "strings"

// Match returns the percentage (0-100, truncated) of keywords found in text.
// Matching is a case-insensitive substring test, so "java" is found inside
// "javascript". Empty text or an empty keyword list yields 0.
func Match(text string, keywords []string) int {
	if text == "" || len(keywords) == 0 {
		return 0
	}

	return len(Found(text, keywords)) * 100 / len(keywords)
}

// Found returns the keywords contained in text, in their original order and
// spelling. Duplicates in keywords are reported as many times as they occur.
func Found(text string, keywords []string) []string {
	lower := strings.ToLower(text)

	found := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			found = append(found, keyword)
		}
	}

	return found
}

// Normalize trims every keyword and drops blank entries.
func Normalize(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}

	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		out = append(out, keyword)
	}

	if len(out) == 0 {
		return nil
	}

	return out
}
