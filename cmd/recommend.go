package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-assistant/internal/ai"
	"github.com/spigell/job-assistant/internal/ats"
	"github.com/spigell/job-assistant/internal/catalog"
	"github.com/spigell/job-assistant/internal/export"
	"github.com/spigell/job-assistant/internal/extract"
	"github.com/spigell/job-assistant/internal/filtering"
	"github.com/spigell/job-assistant/internal/logger"
	"github.com/spigell/job-assistant/internal/recommend"
)

const (
	PromptPrintJSON           = "Print recommendations as JSON"
	PromptReportByCompany     = "Report by company"
	PromptExplain             = "Explain a match with AI"
	PromptExport              = "Export to Excel"
	PromptPostingsToFile      = "Dump recommended postings to file"
	PromptAppendToExcludeFile = "Append recommended postings to exclude file"
	PromptBack                = "back"
	PromptExit                = "Exit"

	defaultExportName = "job-assistant-report.xlsx"
)

var errExit = errors.New("exit requested")

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend job postings from the catalog that match a resume",
	PreRun: func(cmd *cobra.Command, _ []string) {
		viper.BindPFlag("catalog", cmd.Flags().Lookup("catalog"))
		viper.BindPFlag("exclude-file", cmd.Flags().Lookup("exclude-file"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		runRecommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("resume", "r", "", "resume file (pdf or text)")
	recommendCmd.Flags().StringP("catalog", "c", "", "job catalog file (json or yaml)")
	recommendCmd.Flags().StringP("exclude-file", "e", "", "special file with postings to exclude. Default is unset.")
	recommendCmd.Flags().BoolP("auto-approve", "y", false, "print the recommendations and exit without the interactive menu")
	recommendCmd.Flags().Bool("explain", false, "explain every recommendation with the configured AI provider")

	recommendCmd.MarkFlagRequired("resume")
}

// session holds what the interactive menu works on.
type session struct {
	ctx         context.Context
	logger      *zap.Logger
	config      *Config
	source      string
	text        string
	postings    *catalog.Postings
	result      *recommend.Result
	matcher     ai.Matcher
	excludeFile string
	out         io.Writer
}

func runRecommend(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger()
	config := loadConfig(logger)

	logger.Info("starting the job-assistant", zap.String("version", version))

	resumePath, _ := cmd.Flags().GetString("resume")
	text, err := extract.FromFile(ctx, resumePath)
	if err != nil {
		logger.Fatal("reading resume", zap.Error(err), zap.String("hint", ats.ErrEmptyInput.Error()))
	}

	postings, err := loadCatalog(config.Catalog, logger)
	if err != nil {
		logger.Fatal("loading job catalog", zap.Error(err))
	}

	postings, err = filtering.Run(ctx, filteringConfig(config), filtering.Deps{Logger: logger}, filtering.Default(), postings)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	s := &session{
		ctx:         ctx,
		logger:      logger,
		config:      config,
		source:      resumePath,
		text:        text,
		postings:    postings,
		excludeFile: strings.TrimSpace(config.ExcludeFile),
		out:         os.Stdout,
	}
	s.refresh()

	explain, _ := cmd.Flags().GetBool("explain")
	if explain {
		matcher, err := s.aiMatcher()
		if err != nil {
			logger.Fatal("building ai matcher", zap.Error(err))
		}
		s.explainAll(matcher)
	}

	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); autoApprove || len(s.result.Recommendations) == 0 {
		if err := s.printJSON(); err != nil {
			logger.Fatal("printing recommendations", zap.Error(err))
		}
		return
	}

	for {
		prompt := promptui.Select{
			Label: fmt.Sprintf("%s. Next?", s.result.Message),
			Items: s.menuItems(),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := s.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if len(s.result.Recommendations) == 0 {
			logger.Info("exiting", zap.String("reason", s.result.Message))
			return
		}
	}
}

func (s *session) refresh() {
	s.result = recommend.Recommend(s.text, s.postings.Values())
	s.logger.Info("current list of recommendations",
		zap.Int("count", len(s.result.Recommendations)),
		zap.Int("postings", s.postings.Len()),
	)
}

func (s *session) menuItems() []string {
	items := []string{PromptPrintJSON, PromptReportByCompany, PromptExplain, PromptExport, PromptPostingsToFile}
	if s.excludeFile != "" {
		items = append(items, PromptAppendToExcludeFile)
	}
	return append(items, PromptExit)
}

func (s *session) handleAction(action string) error {
	switch action {
	case PromptPrintJSON:
		return s.printJSON()
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(s.recommended().ReportByCompany(), "", "  ")
		s.logger.Info(string(pretty), zap.Int("postings count", len(s.result.Recommendations)))
		return nil
	case PromptExplain:
		return s.explainOne()
	case PromptExport:
		return s.export()
	case PromptPostingsToFile:
		filename, err := s.recommended().DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return s.appendToExcludeFile()
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// recommended returns the catalog postings behind the current recommendations.
func (s *session) recommended() *catalog.Postings {
	out := &catalog.Postings{}
	for _, rec := range s.result.Recommendations {
		if posting := s.postings.FindByID(rec.JobID); posting != nil {
			out.Items = append(out.Items, posting)
		}
	}
	return out
}

func (s *session) printJSON() error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(s.result)
}

func (s *session) aiMatcher() (ai.Matcher, error) {
	if s.matcher != nil {
		return s.matcher, nil
	}

	matcher, err := newAIMatcher(s.ctx, s.config.AI, s.logger)
	if err != nil {
		return nil, err
	}
	if matcher == nil {
		return nil, errors.New("ai is disabled (set ai.enabled in the config)")
	}

	s.matcher = matcher
	return matcher, nil
}

func (s *session) explainAll(matcher ai.Matcher) {
	for _, posting := range s.recommended().Items {
		s.explain(matcher, posting)
	}
}

func (s *session) explainOne() error {
	matcher, err := s.aiMatcher()
	if err != nil {
		s.logger.Warn("ai explanation is unavailable", zap.Error(err))
		return nil
	}

	items := make([]string, 0, len(s.result.Recommendations)+1)
	for _, rec := range s.result.Recommendations {
		items = append(items, fmt.Sprintf("%s %s / %s / %d%%", rec.JobID, rec.Title, rec.Company, rec.Score))
	}

	postingPrompt := promptui.Select{
		Label: "Choose a posting and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := postingPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	id := strings.Split(selected, " ")[0]
	posting, err := s.postings.Get(id)
	if err != nil {
		return err
	}

	s.explain(matcher, posting)
	return nil
}

func (s *session) explain(matcher ai.Matcher, posting *catalog.Posting) {
	assessment, err := matcher.Explain(s.ctx, s.text, posting)
	if err != nil {
		s.logger.Warn("AI explanation failed", zap.String(logger.FieldPostingID, posting.ID), zap.Error(err))
		return
	}

	s.logger.Info("AI match explanation",
		append(logger.PostingFields(posting.ID, posting.Title),
			zap.Int("ai_score", assessment.Score),
			zap.Strings("strengths", assessment.Strengths),
			zap.Strings("gaps", assessment.Gaps),
		)...,
	)
}

func (s *session) export() error {
	pathPrompt := promptui.Prompt{
		Label:   "Report path",
		Default: defaultExportName,
	}

	path, err := pathPrompt.Run()
	if err != nil {
		return err
	}

	result, err := ats.Score(s.text)
	if err != nil {
		return err
	}

	written, err := export.WriteReport(path, export.Report{
		Source:          s.source,
		Result:          result,
		Breakdown:       ats.Evaluate(s.text),
		Recommendations: s.result.Recommendations,
	})
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	s.logger.Info("report written", zap.String("path", written))
	return nil
}

func (s *session) appendToExcludeFile() error {
	excluded, err := catalog.LoadExcluded(s.excludeFile)
	if err != nil {
		return err
	}

	recommended := s.recommended()
	excluded.Append(recommended.ToExcluded())

	if err := excluded.ToFile(s.excludeFile); err != nil {
		return err
	}

	s.logger.Info("appended to exclude file",
		zap.String("filename", s.excludeFile),
		zap.Int("count", recommended.Len()),
	)

	s.postings.Exclude(catalog.PostingIDField, excluded.IDs())
	s.refresh()
	return nil
}
