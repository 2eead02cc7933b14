package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/job-assistant/internal/ats"
	"github.com/spigell/job-assistant/internal/export"
	"github.com/spigell/job-assistant/internal/extract"
	"github.com/spigell/job-assistant/internal/logger"
)

const maxParallelFiles = 4

type scoredFile struct {
	File      string         `json:"file"`
	Result    *ats.Result    `json:"result"`
	Breakdown *ats.Breakdown `json:"breakdown,omitempty"`
}

var scoreCmd = &cobra.Command{
	Use:   "score FILE...",
	Short: "Score resume files for ATS compatibility",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("export", "x", "", "write an Excel report for a single file")
	scoreCmd.Flags().BoolP("breakdown", "b", false, "include sub-scores in the output")
}

func score(cmd *cobra.Command, files []string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger()

	exportPath, _ := cmd.Flags().GetString("export")
	withBreakdown, _ := cmd.Flags().GetBool("breakdown")

	if exportPath != "" && len(files) != 1 {
		logger.Fatal("--export needs exactly one file", zap.Int("files", len(files)))
	}

	results, err := scoreFiles(ctx, files, withBreakdown || exportPath != "", logger)
	if err != nil {
		logger.Fatal("scoring resumes", zap.Error(err))
	}

	if exportPath != "" {
		path, err := export.WriteReport(exportPath, export.Report{
			Source:    results[0].File,
			Result:    results[0].Result,
			Breakdown: *results[0].Breakdown,
		})
		if err != nil {
			logger.Fatal("exporting report", zap.Error(err))
		}
		logger.Info("report written", zap.String("path", path))
	}

	if !withBreakdown {
		for _, r := range results {
			r.Breakdown = nil
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		logger.Fatal("writing results", zap.Error(err))
	}
}

// scoreFiles scores files concurrently. Results keep the order of files.
func scoreFiles(ctx context.Context, files []string, withBreakdown bool, l *zap.Logger) ([]*scoredFile, error) {
	results := make([]*scoredFile, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFiles)

	for i, file := range files {
		g.Go(func() error {
			text, err := extract.FromFile(ctx, file)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			result, err := ats.Score(text)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			scored := &scoredFile{File: file, Result: result}
			if withBreakdown {
				breakdown := ats.Evaluate(text)
				scored.Breakdown = &breakdown
			}
			results[i] = scored

			l.Info("resume scored",
				append(logger.ResumeFields(file, result.WordCount),
					zap.Int("score", result.Score),
					zap.String("category", result.Category),
				)...,
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
