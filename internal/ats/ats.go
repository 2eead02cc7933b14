// Package ats scores plain resume text for applicant tracking system
// compatibility. All functions are pure and safe for concurrent use.
package ats

import (
	"errors"
	"strings"

	"github.com/spigell/job-assistant/internal/keywords"
)

// ErrEmptyInput is returned when there is no resume text to score.
var ErrEmptyInput = errors.New("could not read your resume: no text was extracted")

const (
	maxScore = 100

	sectionPoints  = 10
	maxKeywordPts  = 25
	emailPoints    = 8
	phonePoints    = 7
	bulletPoints   = 5
	lengthPoints   = 5
	quantityPoints = 5
	tonePoints     = 5

	minFormattedWords = 200
	maxFormattedWords = 1000
)

// Score categories.
const (
	CategoryExcellent        = "Excellent"
	CategoryVeryGood         = "Very Good"
	CategoryGood             = "Good"
	CategoryFair             = "Fair"
	CategoryNeedsImprovement = "Needs Improvement"
)

// Resume length categories.
const (
	LengthTooShort = "Too Short"
	LengthShort    = "Short"
	LengthOptimal  = "Optimal"
	LengthLong     = "Long"
	LengthTooLong  = "Too Long"
)

// Result is the outcome of scoring one resume.
type Result struct {
	Score              int      `json:"score"`
	Category           string   `json:"category"`
	Tips               []string `json:"tips"`
	ResumeLength       string   `json:"resume_length"`
	MatchedKeywords    []string `json:"matched_keywords"`
	WordCount          int      `json:"word_count"`
	TotalKeywordsFound int      `json:"total_keywords_found"`
}

// Breakdown holds the five capped sub-scores behind a Result score.
type Breakdown struct {
	Sections   int `json:"sections"`
	Keywords   int `json:"keywords"`
	Contact    int `json:"contact"`
	Formatting int `json:"formatting"`
	Content    int `json:"content"`
}

// Total sums the sub-scores and clamps the sum to 100.
func (b Breakdown) Total() int {
	total := b.Sections + b.Keywords + b.Contact + b.Formatting + b.Content
	return min(total, maxScore)
}

// Evaluate computes the sub-scores for text. It does not reject empty input.
func Evaluate(text string) Breakdown {
	var b Breakdown

	b.Sections = countSections(text) * sectionPoints
	b.Keywords = min(keywords.Match(text, densityKeywords)/4, maxKeywordPts)

	if hasEmail(text) {
		b.Contact += emailPoints
	}
	if hasPhone(text) {
		b.Contact += phonePoints
	}

	if containsAny(text, bulletMarkers) {
		b.Formatting += bulletPoints
	}
	if words := wordCount(text); words >= minFormattedWords && words <= maxFormattedWords {
		b.Formatting += lengthPoints
	}

	if hasQuantified(text) {
		b.Content += quantityPoints
	}
	if !usesFirstPerson(text) {
		b.Content += tonePoints
	}

	return b
}

// Score evaluates text and returns the full result. Text that is empty or only
// whitespace yields ErrEmptyInput.
func Score(text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	score := Evaluate(text).Total()
	words := wordCount(text)
	matched := keywords.Found(text, ReportedKeywords)

	return &Result{
		Score:              score,
		Category:           Category(score),
		Tips:               Tips(text, score),
		ResumeLength:       LengthCategory(words),
		MatchedKeywords:    matched,
		WordCount:          words,
		TotalKeywordsFound: len(matched),
	}, nil
}

// Category maps a score to its label. Lower bounds are inclusive.
func Category(score int) string {
	switch {
	case score >= 90:
		return CategoryExcellent
	case score >= 80:
		return CategoryVeryGood
	case score >= 70:
		return CategoryGood
	case score >= 60:
		return CategoryFair
	default:
		return CategoryNeedsImprovement
	}
}

// LengthCategory maps a word count to a resume length label.
func LengthCategory(words int) string {
	switch {
	case words < 150:
		return LengthTooShort
	case words < 300:
		return LengthShort
	case words < 600:
		return LengthOptimal
	case words < 900:
		return LengthLong
	default:
		return LengthTooLong
	}
}
