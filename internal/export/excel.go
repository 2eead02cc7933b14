// Package export writes scoring and recommendation results to spreadsheets.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/job-assistant/internal/ats"
	"github.com/spigell/job-assistant/internal/recommend"
)

const (
	scoreSheet           = "ATS Score"
	tipsSheet            = "Tips"
	recommendationsSheet = "Recommendations"

	headerColor = "4472C4"
)

// Report is everything WriteReport puts into a workbook.
type Report struct {
	Source          string
	Result          *ats.Result
	Breakdown       ats.Breakdown
	Recommendations []recommend.Recommendation
}

// WriteReport saves report as an xlsx workbook and returns the final path.
func WriteReport(path string, report Report) (string, error) {
	if report.Result == nil {
		return "", errors.New("ats result is required")
	}

	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scoreSheet); err != nil {
		return "", err
	}
	for _, name := range []string{tipsSheet, recommendationsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
	})
	if err != nil {
		return "", err
	}

	if err := writeScoreSheet(f, header, report); err != nil {
		return "", fmt.Errorf("write %s sheet: %w", scoreSheet, err)
	}
	if err := writeTipsSheet(f, header, report.Result.Tips); err != nil {
		return "", fmt.Errorf("write %s sheet: %w", tipsSheet, err)
	}
	if err := writeRecommendationsSheet(f, header, report.Recommendations); err != nil {
		return "", fmt.Errorf("write %s sheet: %w", recommendationsSheet, err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	return path, nil
}

func writeScoreSheet(f *excelize.File, header int, report Report) error {
	rows := [][]any{
		{"Field", "Value"},
		{"Source", report.Source},
		{"Generated", time.Now().Format(time.DateTime)},
		{"Score", report.Result.Score},
		{"Category", report.Result.Category},
		{"Resume length", report.Result.ResumeLength},
		{"Word count", report.Result.WordCount},
		{"Keywords found", report.Result.TotalKeywordsFound},
		{"Matched keywords", strings.Join(report.Result.MatchedKeywords, ", ")},
		{"Sections", report.Breakdown.Sections},
		{"Keywords", report.Breakdown.Keywords},
		{"Contact", report.Breakdown.Contact},
		{"Formatting", report.Breakdown.Formatting},
		{"Content", report.Breakdown.Content},
	}

	if err := writeRows(f, scoreSheet, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(scoreSheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(scoreSheet, "B", "B", 60); err != nil {
		return err
	}
	return f.SetCellStyle(scoreSheet, "A1", "B1", header)
}

func writeTipsSheet(f *excelize.File, header int, tips []string) error {
	rows := [][]any{{"#", "Tip"}}
	for i, tip := range tips {
		rows = append(rows, []any{i + 1, tip})
	}

	if err := writeRows(f, tipsSheet, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(tipsSheet, "B", "B", 90); err != nil {
		return err
	}
	return f.SetCellStyle(tipsSheet, "A1", "B1", header)
}

func writeRecommendationsSheet(f *excelize.File, header int, recs []recommend.Recommendation) error {
	rows := [][]any{{"Rank", "Job ID", "Title", "Company", "Location", "Score"}}
	for i, rec := range recs {
		rows = append(rows, []any{i + 1, rec.JobID, rec.Title, rec.Company, rec.Location, rec.Score})
	}

	if err := writeRows(f, recommendationsSheet, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(recommendationsSheet, "B", "E", 25); err != nil {
		return err
	}
	if err := f.SetCellStyle(recommendationsSheet, "A1", "F1", header); err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}
	return f.AutoFilter(recommendationsSheet, fmt.Sprintf("A1:F%d", len(recs)+1), nil)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
