package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-assistant/internal/catalog"
	"github.com/spigell/job-assistant/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring and recommendation HTTP API",
	PreRun: func(cmd *cobra.Command, _ []string) {
		viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))
		viper.BindPFlag("catalog", cmd.Flags().Lookup("catalog"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default :8000)")
	serveCmd.Flags().StringP("catalog", "c", "", "job catalog file (json or yaml)")
}

func serve(cmd *cobra.Command) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger()
	config := loadConfig(logger)

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	postings := &catalog.Postings{}
	if config.Catalog != "" {
		loaded, err := loadCatalog(config.Catalog, logger)
		if err != nil {
			logger.Fatal("loading job catalog", zap.Error(err))
		}
		postings = loaded
	} else {
		logger.Warn("no job catalog configured, recommendations will be empty")
	}

	matcher, err := newAIMatcher(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("ai matching disabled", zap.Error(err))
		matcher = nil
	}

	srvCfg := config.Server
	if srvCfg == nil {
		srvCfg = &ServerConfig{}
	}
	listen := srvCfg.Listen
	if listen == "" {
		listen = ":8000"
	}

	srv := server.New(server.Options{
		Logger:         logger,
		Postings:       postings,
		Filters:        filteringConfig(config),
		Matcher:        matcher,
		CORSOrigins:    srvCfg.CORSOrigins,
		MaxUploadBytes: srvCfg.MaxUploadMB << 20,
	})

	logger.Info("starting the job-assistant api", zap.String("version", version))

	if err := srv.Run(ctx, listen); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}

	logger.Info("http server stopped")
}
