package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogadmin/dashboard"
	"catalogadmin/logger"
	"catalogadmin/server"
	"catalogadmin/session"
	"catalogadmin/storage"

	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin gateway",
	Long:  `Run an HTTP gateway that normalizes working models, forwards them to the catalog API and stores uploaded images.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if serveAddr != "" {
			app.cfg.ServerAddr = serveAddr
		}

		var uploader dashboard.ImageUploader
		if client, err := app.objectStore(); err != nil {
			logger.Warn("uploads disabled", logger.ErrorField(err))
		} else {
			buckets := storage.Buckets(storage.Targets(app.cfg))
			if err := storage.EnsureBuckets(ctx, client, app.cfg.MinioRegion, buckets...); err != nil {
				logger.Warn("could not prepare media buckets", logger.ErrorField(err))
			}
			uploader = storage.NewUploader(client, app.cfg)
		}

		// a login from another terminal takes effect without a restart
		if app.cfg.SessionBackend == "file" {
			go func() {
				err := watchSession(ctx, app.cfg.SessionFile, app.tokens.Invalidate)
				if err != nil && ctx.Err() == nil {
					logger.Warn("session file watch stopped", logger.ErrorField(err))
				}
			}()
		}

		h := server.New(server.Deps{
			API:            app.client,
			Uploader:       uploader,
			MaxUploadBytes: app.cfg.UploadMaxBytes,
		})
		return server.Run(ctx, app.cfg, h)
	},
}

func watchSession(ctx context.Context, path string, onChange func()) error {
	return session.Watch(ctx, path, 200*time.Millisecond, func() {
		logger.Info("session file changed, reloading token")
		onChange()
	})
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides SERVER_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
