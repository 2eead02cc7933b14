// Package server exposes scoring and recommendations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/job-assistant/internal/ai"
	"github.com/spigell/job-assistant/internal/ats"
	"github.com/spigell/job-assistant/internal/catalog"
	"github.com/spigell/job-assistant/internal/extract"
	"github.com/spigell/job-assistant/internal/filtering"
	"github.com/spigell/job-assistant/internal/logger"
	"github.com/spigell/job-assistant/internal/recommend"
)

const (
	serviceName = "job-assistant"

	defaultMaxUploadBytes = 10 << 20
	resumeFormField       = "resume"
	shutdownTimeout       = 10 * time.Second
)

var (
	errEmptyBody = errors.New("request body must contain resume text or a resume file")
	errNoAI      = errors.New("ai matching is disabled")
)

// Options configures a Server.
type Options struct {
	Logger         *zap.Logger
	Postings       *catalog.Postings
	Filters        *filtering.Config
	Matcher        ai.Matcher
	CORSOrigins    []string
	MaxUploadBytes int64
}

type Server struct {
	engine   *gin.Engine
	logger   *zap.Logger
	postings *catalog.Postings
	filters  *filtering.Config
	matcher  ai.Matcher
	maxBytes int64
}

type textRequest struct {
	Text string `json:"text"`
}

type matchRequest struct {
	Text  string `json:"text"`
	JobID string `json:"job_id"`
}

type matchResponse struct {
	JobID string `json:"job_id"`
	Title string `json:"title"`
	*ai.MatchAssessment
}

// New builds the router. A nil Matcher disables /jd-match.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	postings := opts.Postings
	if postings == nil {
		postings = &catalog.Postings{}
	}

	maxBytes := opts.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}

	s := &Server{
		engine:   gin.New(),
		logger:   log,
		postings: postings,
		filters:  opts.Filters,
		matcher:  opts.Matcher,
		maxBytes: maxBytes,
	}

	s.engine.Use(
		requestID(),
		logging(log),
		recovery(log),
		cors.New(corsConfig(opts.CORSOrigins)),
	)

	s.engine.GET("/health", s.health)
	s.engine.POST("/ats-score", s.atsScore)
	s.engine.POST("/recommend", s.recommend)
	s.engine.POST("/jd-match", s.jdMatch)

	return s
}

// Handler returns the http.Handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr), zap.Int("postings", s.postings.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  serviceName,
		"postings": s.postings.Len(),
	})
}

func (s *Server) atsScore(c *gin.Context) {
	text, source, ok := s.readResume(c)
	if !ok {
		return
	}

	result, err := ats.Score(text)
	if err != nil {
		// Only ErrEmptyInput is possible here.
		respondError(c, http.StatusUnprocessableEntity, codeEmptyInput, err.Error())
		return
	}

	s.logger.Debug("resume scored",
		append(logger.ResumeFields(source, result.WordCount),
			zap.String("request_id", requestIDFromContext(c)),
			zap.Int("score", result.Score),
		)...,
	)

	c.JSON(http.StatusOK, result)
}

func (s *Server) recommend(c *gin.Context) {
	// Empty text is not an error here, it just matches nothing.
	text, _, ok := s.readResume(c)
	if !ok {
		return
	}

	postings, err := s.filteredPostings(c.Request.Context())
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, codeInternal, "could not prepare job catalog")
		return
	}

	c.JSON(http.StatusOK, recommend.Recommend(text, postings.Values()))
}

func (s *Server) jdMatch(c *gin.Context) {
	if s.matcher == nil {
		respondError(c, http.StatusServiceUnavailable, codeServiceUnavailable, errNoAI.Error())
		return
	}

	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(c, http.StatusUnprocessableEntity, codeEmptyInput, ats.ErrEmptyInput.Error())
		return
	}
	if strings.TrimSpace(req.JobID) == "" {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "job_id is required")
		return
	}

	posting, err := s.postings.Get(req.JobID)
	if err != nil {
		respondError(c, http.StatusNotFound, codeNotFound, err.Error())
		return
	}

	assessment, err := s.matcher.Explain(c.Request.Context(), req.Text, posting)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusBadGateway, codeUpstream, "ai matching failed")
		return
	}

	c.JSON(http.StatusOK, matchResponse{
		JobID:           posting.ID,
		Title:           posting.Title,
		MatchAssessment: assessment,
	})
}

// readResume takes resume text from a JSON body or a multipart upload.
// It writes the error response itself and reports false on failure.
func (s *Server) readResume(c *gin.Context) (string, string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes)

	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var req textRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if errors.Is(err, io.EOF) {
				respondError(c, http.StatusBadRequest, codeInvalidRequest, errEmptyBody.Error())
				return "", "", false
			}
			respondError(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
			return "", "", false
		}
		return req.Text, "body", true
	}

	header, err := c.FormFile(resumeFormField)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, errEmptyBody.Error())
		return "", "", false
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "could not read uploaded file")
		return "", "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "could not read uploaded file")
		return "", "", false
	}

	text, err := extract.FromBytes(c.Request.Context(), data, header.Filename)
	switch {
	case errors.Is(err, extract.ErrEmptyText):
		return "", header.Filename, true
	case errors.Is(err, extract.ErrUnsupportedFormat):
		respondError(c, http.StatusUnsupportedMediaType, codeUnsupportedFormat, err.Error())
		return "", "", false
	case err != nil:
		c.Error(err)
		respondError(c, http.StatusUnprocessableEntity, codeEmptyInput, ats.ErrEmptyInput.Error())
		return "", "", false
	}

	return text, header.Filename, true
}

// filteredPostings runs the filtering pipeline over a copy of the catalog so
// the exclude file is re-read on every request.
func (s *Server) filteredPostings(ctx context.Context) (*catalog.Postings, error) {
	working := &catalog.Postings{Items: slices.Clone(s.postings.Items)}
	return filtering.Run(ctx, s.filters, filtering.Deps{Logger: s.logger}, filtering.Default(), working)
}
