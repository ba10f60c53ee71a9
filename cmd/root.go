package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"catalogadmin/api"
	"catalogadmin/config"
	"catalogadmin/logger"
	"catalogadmin/session"
	"catalogadmin/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	app *appContext
)

// appContext holds what every command shares once configuration is loaded.
type appContext struct {
	cfg        *config.Config
	store      session.Store
	closeStore func() error
	tokens     *session.Source
	client     *api.Client

	minio *minio.Client
}

var rootCmd = &cobra.Command{
	Use:           "catalogadmin",
	Short:         "Administration toolkit for the music catalog",
	Long:          `Manage artists, albums, tracks, genres and news in the music catalog, upload their artwork, and run the admin gateway.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if err := logger.Init(logger.Config{
			Level:      cfg.LogLevel,
			OutputPath: cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   cfg.LogCompress,
		}); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		store, closeStore, err := session.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		var sourceOpts []session.SourceOption
		if cfg.SessionBackend == "redis" {
			// no change feed for a shared store, so reread it periodically
			sourceOpts = append(sourceOpts, session.WithMaxAge(cfg.SessionRefresh()))
		}
		tokens := session.NewSource(store, sourceOpts...)
		app = &appContext{
			cfg:        cfg,
			store:      store,
			closeStore: closeStore,
			tokens:     tokens,
			client: api.NewClient(cfg.APIBaseURL, cfg.APITimeoutDuration(),
				api.WithRateLimit(cfg.APIRate),
				api.WithTokenSource(tokens)),
		}
		logger.Debug("configuration loaded",
			logger.String("api", cfg.APIBaseURL),
			logger.String("session", cfg.SessionBackend))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app != nil && app.closeStore != nil {
			if err := app.closeStore(); err != nil {
				logger.Warn("closing session store", logger.ErrorField(err))
			}
		}
		logger.Sync()
		return nil
	},
}

// objectStore connects to minio on first use.
func (a *appContext) objectStore() (*minio.Client, error) {
	if a.minio != nil {
		return a.minio, nil
	}
	if a.cfg.MinioAccessKey == "" || a.cfg.MinioSecretKey == "" {
		return nil, errors.New("object storage is not configured: set MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
	}
	client, err := storage.NewMinioClient(a.cfg)
	if err != nil {
		return nil, err
	}
	a.minio = client
	return client, nil
}

func (a *appContext) uploader() (*storage.Uploader, error) {
	client, err := a.objectStore()
	if err != nil {
		return nil, err
	}
	return storage.NewUploader(client, a.cfg), nil
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorText(err))
		logger.Debug("command failed", logger.ErrorField(err))
		os.Exit(1)
	}
}

// errorText prefers the message a form would show inline.
func errorText(err error) string {
	var m interface{ UserMessage() string }
	if errors.As(err, &m) && m.UserMessage() != "" {
		return m.UserMessage()
	}
	return err.Error()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default $CATALOGADMIN_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
}
