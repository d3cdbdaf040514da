package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/signkit"
	"github.com/gogpu/signkit/internal/server"
	"github.com/gogpu/signkit/internal/service"
	"github.com/gogpu/signkit/text"
)

// shutdownGrace bounds how long in-flight requests may run after a
// termination signal.
const shutdownGrace = 15 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				c.cfg.Port = port
			}
			opts := []service.Option{service.WithFontLoader(
				text.RestrictedLoader(http.DefaultClient, c.cfg.FontDir, c.cfg.FontHosts))}
			if c.cfg.PresetDB != "" {
				store, err := c.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, service.WithPresets(store))
			}
			svc := service.New(opts...)
			defer svc.Close()

			srv := server.New(c.cfg, svc)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					signkit.Logger().Error("shutdown", "err", err)
				}
			}()
			return srv.Listen()
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default $SIGNKIT_PORT)")
	return cmd
}
