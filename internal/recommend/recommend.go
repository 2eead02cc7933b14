// Package recommend ranks catalog postings against resume text by keyword coverage.
package recommend

import (
	"fmt"
	"slices"

	"github.com/spigell/job-assistant/internal/catalog"
	"github.com/spigell/job-assistant/internal/keywords"
)

const (
	// MinScore is the lowest match score a posting needs to be recommended.
	MinScore = 50
	// Limit caps the number of recommendations returned.
	Limit = 5
	// DescriptionLimit is the number of characters kept from a description.
	DescriptionLimit = 300

	NoMatchesMessage = "No suitable job matches found based on your resume."
)

type Recommendation struct {
	JobID       string `json:"job_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Score       int    `json:"score"`
}

type Result struct {
	Message         string           `json:"message"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommend scores every posting that has keywords, keeps those scoring at
// least MinScore and returns the best Limit of them, highest score first.
// Ties keep catalog order.
func Recommend(resumeText string, postings []catalog.Posting) *Result {
	kept := make([]Recommendation, 0, len(postings))
	for _, posting := range postings {
		if len(posting.Keywords) == 0 {
			continue
		}

		score := keywords.Match(resumeText, posting.Keywords)
		if score < MinScore {
			continue
		}

		kept = append(kept, Recommendation{
			JobID:       posting.ID,
			Title:       posting.Title,
			Company:     posting.Company,
			Location:    posting.Location,
			Description: truncate(posting.Description, DescriptionLimit),
			Score:       score,
		})
	}

	if len(kept) == 0 {
		return &Result{Message: NoMatchesMessage, Recommendations: []Recommendation{}}
	}

	slices.SortStableFunc(kept, func(a, b Recommendation) int {
		return b.Score - a.Score
	})

	if len(kept) > Limit {
		kept = kept[:Limit]
	}

	return &Result{
		Message:         fmt.Sprintf("Top %d job(s) recommended", len(kept)),
		Recommendations: kept,
	}
}

// truncate keeps the first limit characters of s without adding an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
