package ats

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func strongResume() string {
	var b strings.Builder
	b.WriteString("Jane Doe\nContact: jane.doe@example.com | 555-123-4567\n\n")
	b.WriteString("Professional Experience\n")
	b.WriteString("• Led a platform group and managed client onboarding with 5years of ownership\n")
	b.WriteString("• Developed and implemented a billing solution, created dashboards, achieved and improved uptime\n")
	for range 15 {
		b.WriteString("- Designed and built internal services and collaborated with the team on project delivery\n")
	}
	b.WriteString("\nEducation\nBSc Computer Science, State University\n")
	b.WriteString("\nSkills\nGo, Kubernetes, PostgreSQL, Terraform\n")
	return b.String()
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("x ", n))
}

func TestScoreStrongResume(t *testing.T) {
	t.Parallel()

	text := strongResume()
	result, err := Score(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	breakdown := Evaluate(text)
	expect := Breakdown{Sections: 40, Keywords: 25, Contact: 15, Formatting: 10, Content: 10}
	if breakdown != expect {
		t.Fatalf("expected breakdown %+v, got %+v", expect, breakdown)
	}

	if result.Score != 100 {
		t.Fatalf("expected score 100, got %d", result.Score)
	}
	if result.Category != CategoryExcellent {
		t.Fatalf("expected %q, got %q", CategoryExcellent, result.Category)
	}
	if !reflect.DeepEqual(result.Tips, []string{DefaultTip}) {
		t.Fatalf("expected default tip, got %v", result.Tips)
	}
	if result.WordCount != len(strings.Fields(text)) {
		t.Fatalf("unexpected word count %d", result.WordCount)
	}
	if result.ResumeLength != LengthCategory(result.WordCount) {
		t.Fatalf("unexpected length category %q", result.ResumeLength)
	}
	if result.TotalKeywordsFound != len(result.MatchedKeywords) {
		t.Fatalf("total_keywords_found %d does not match %d keywords", result.TotalKeywordsFound, len(result.MatchedKeywords))
	}
	if result.MatchedKeywords[0] != "experience" {
		t.Fatalf("expected matched keywords in list order, got %v", result.MatchedKeywords)
	}
}

func TestScoreWeakResume(t *testing.T) {
	t.Parallel()

	result, err := Score("I am a developer.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Score != 0 {
		t.Fatalf("expected score 0, got %d", result.Score)
	}
	if result.Category != CategoryNeedsImprovement {
		t.Fatalf("unexpected category %q", result.Category)
	}
	if result.ResumeLength != LengthTooShort {
		t.Fatalf("unexpected length %q", result.ResumeLength)
	}

	expect := []string{
		"Add a 'Work Experience' section with your job history",
		"Include an 'Education' section with your qualifications",
		"Add a 'Skills' section listing your technical abilities",
		"Add your email address at the top of your resume",
		"Include your phone number in the contact section",
		"Expand your resume with more detailed descriptions of your work",
	}
	if !reflect.DeepEqual(result.Tips, expect) {
		t.Fatalf("unexpected tips:\n%v", result.Tips)
	}
}

func TestScoreRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   \n\t "} {
		if _, err := Score(text); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("expected ErrEmptyInput for %q, got %v", text, err)
		}
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	t.Parallel()

	text := strongResume() + "\nI have opinions."
	first, err := Score(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Score(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestEvaluateMonotone(t *testing.T) {
	t.Parallel()

	base := words(250)

	tests := []struct {
		name   string
		better string
	}{
		{name: "section", better: base + " education"},
		{name: "keywords", better: base + " team client"},
		{name: "email", better: base + " me@example.org"},
		{name: "phone", better: base + " 555.123.4567"},
		{name: "bullet", better: base + " •"},
		{name: "quantified", better: base + " 12months"},
	}

	baseScore := Evaluate(base).Total()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Evaluate(tt.better).Total(); got <= baseScore {
				t.Fatalf("expected score above %d, got %d", baseScore, got)
			}
		})
	}

	if got := Evaluate(base + " i have").Total(); got >= baseScore {
		t.Fatalf("expected first person phrasing to lower score below %d, got %d", baseScore, got)
	}
}

func TestEvaluateWordCountWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		words  int
		expect int
	}{
		{words: 199, expect: 0},
		{words: 200, expect: lengthPoints},
		{words: 1000, expect: lengthPoints},
		{words: 1001, expect: 0},
	}

	for _, tt := range tests {
		if got := Evaluate(words(tt.words)).Formatting; got != tt.expect {
			t.Fatalf("expected formatting %d for %d words, got %d", tt.expect, tt.words, got)
		}
	}
}

func TestEvaluateQuantifiedPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		expect bool
	}{
		{text: "with 5years in production", expect: true},
		{text: "over 3.5years", expect: true},
		{text: "by 30percent", expect: true},
		{text: "for 1month", expect: true},
		{text: "grew 40% in a year", expect: false},
		{text: "no numbers here", expect: false},
	}

	for _, tt := range tests {
		if got := hasQuantified(tt.text); got != tt.expect {
			t.Fatalf("expected %v for %q, got %v", tt.expect, tt.text, got)
		}
	}
}

func TestBreakdownTotalClamps(t *testing.T) {
	t.Parallel()

	b := Breakdown{Sections: 40, Keywords: 25, Contact: 15, Formatting: 10, Content: 20}
	if got := b.Total(); got != 100 {
		t.Fatalf("expected clamp to 100, got %d", got)
	}
}

func TestCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score  int
		expect string
	}{
		{score: 100, expect: CategoryExcellent},
		{score: 90, expect: CategoryExcellent},
		{score: 89, expect: CategoryVeryGood},
		{score: 80, expect: CategoryVeryGood},
		{score: 79, expect: CategoryGood},
		{score: 70, expect: CategoryGood},
		{score: 69, expect: CategoryFair},
		{score: 60, expect: CategoryFair},
		{score: 59, expect: CategoryNeedsImprovement},
		{score: 0, expect: CategoryNeedsImprovement},
	}

	for _, tt := range tests {
		if got := Category(tt.score); got != tt.expect {
			t.Fatalf("score %d: expected %q, got %q", tt.score, tt.expect, got)
		}
	}
}

func TestLengthCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		words  int
		expect string
	}{
		{words: 0, expect: LengthTooShort},
		{words: 149, expect: LengthTooShort},
		{words: 150, expect: LengthShort},
		{words: 299, expect: LengthShort},
		{words: 300, expect: LengthOptimal},
		{words: 599, expect: LengthOptimal},
		{words: 600, expect: LengthLong},
		{words: 899, expect: LengthLong},
		{words: 900, expect: LengthTooLong},
	}

	for _, tt := range tests {
		if got := LengthCategory(tt.words); got != tt.expect {
			t.Fatalf("%d words: expected %q, got %q", tt.words, tt.expect, got)
		}
	}
}
