package gemini

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/job-assistant/internal/catalog"
	"github.com/spigell/job-assistant/internal/logger"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestMatcherExplain(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"score\": 85, \"strengths\": [\"React.js\", \"MongoDB\"], \"gaps\": [\"Azure DevOps\"]}\n```"}
	core, observed := observer.New(zapcore.DebugLevel)
	matcher := NewMatcher(stub, 0, zap.New(core))

	posting := &catalog.Posting{ID: "j1", Title: "Frontend Engineer", Keywords: []string{"react"}}

	assessment, err := matcher.Explain(context.Background(), "React and MongoDB developer", posting)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 85 {
		t.Fatalf("expected score 85, got %d", assessment.Score)
	}
	if !reflect.DeepEqual(assessment.Strengths, []string{"React.js", "MongoDB"}) {
		t.Fatalf("unexpected strengths: %v", assessment.Strengths)
	}
	if !reflect.DeepEqual(assessment.Gaps, []string{"Azure DevOps"}) {
		t.Fatalf("unexpected gaps: %v", assessment.Gaps)
	}
	if assessment.Raw != stub.response {
		t.Fatalf("expected raw response to be kept")
	}

	if stub.lastSystem != systemInstruction {
		t.Fatalf("unexpected system instruction %q", stub.lastSystem)
	}
	if !strings.Contains(stub.lastPrompt, "React and MongoDB developer") {
		t.Fatalf("expected resume text in prompt")
	}
	if !strings.Contains(stub.lastPrompt, `"id": "j1"`) {
		t.Fatalf("expected posting json in prompt, got: %s", stub.lastPrompt)
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("expected all placeholders to be replaced")
	}

	entries := observed.FilterMessage("gemini generate content request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx[logger.FieldModel] != "stub-model" || ctx[logger.FieldPostingID] != "j1" {
		t.Fatalf("unexpected log context: %v", ctx)
	}
}

func TestMatcherExplainErrors(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	matcher := NewMatcher(stub, 0, zap.NewNop())
	posting := &catalog.Posting{ID: "j1"}

	if _, err := matcher.Explain(context.Background(), "resume", posting); err == nil || err.Error() != "quota exceeded" {
		t.Fatalf("expected generator error, got %v", err)
	}

	if _, err := matcher.Explain(context.Background(), " ", posting); err == nil {
		t.Fatalf("expected error for empty resume")
	}

	if _, err := matcher.Explain(context.Background(), "resume", nil); err == nil {
		t.Fatalf("expected error for nil posting")
	}

	stub.err = nil
	stub.response = "I cannot answer that."
	if _, err := matcher.Explain(context.Background(), "resume", posting); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		score     int
		strengths []string
		gaps      []string
	}{
		{
			name:      "plain json",
			raw:       `{"score": 72, "strengths": ["Go"], "gaps": []}`,
			score:     72,
			strengths: []string{"Go"},
			gaps:      []string{},
		},
		{
			name:      "bare fence",
			raw:       "```\n{\"score\": \"64\", \"strengths\": \"Go, SQL\"}\n```",
			score:     64,
			strengths: []string{"Go", "SQL"},
			gaps:      []string{},
		},
		{
			name:      "json inside prose",
			raw:       "Here is the result: {\"score\": 90.6, \"gaps\": [\"Kafka\", null]} hope it helps",
			score:     91,
			strengths: []string{},
			gaps:      []string{"Kafka"},
		},
		{
			name:      "score clamped",
			raw:       `{"score": 140}`,
			score:     100,
			strengths: []string{},
			gaps:      []string{},
		},
		{
			name:      "missing score",
			raw:       `{"score": "n/a"}`,
			score:     0,
			strengths: []string{},
			gaps:      []string{},
		},
		{
			name:      "percent string",
			raw:       `{"score": "55%"}`,
			score:     55,
			strengths: []string{},
			gaps:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseResponse(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Score != tt.score {
				t.Fatalf("expected score %d, got %d", tt.score, got.Score)
			}
			if !reflect.DeepEqual(got.Strengths, tt.strengths) {
				t.Fatalf("unexpected strengths %v", got.Strengths)
			}
			if !reflect.DeepEqual(got.Gaps, tt.gaps) {
				t.Fatalf("unexpected gaps %v", got.Gaps)
			}
		})
	}
}
