// Package ai defines the generative collaborator used to explain how a resume
// fits a posting. The deterministic scorers never depend on it.
package ai

import (
	"context"

	"github.com/spigell/job-assistant/internal/catalog"
)

// MatchAssessment is a model's view of a resume against one posting.
type MatchAssessment struct {
	Score     int      `json:"score"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	Raw       string   `json:"-"`
}

type Matcher interface {
	Explain(ctx context.Context, resumeText string, posting *catalog.Posting) (*MatchAssessment, error)
}
