// Package serve implements the serve command, which exposes the pipeline
// over HTTP.
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bscpro/bank-export/cmd/root"
	"bscpro/bank-export/internal/container"
	"bscpro/bank-export/internal/server"
)

var address string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the export API over HTTP",
	Long: `Serve starts the HTTP API: export, classify and summary endpoints plus
management of categorization rules. It stops on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, root.AppContainer, address)
	},
}

func init() {
	Cmd.Flags().StringVar(&address, "addr", "", "Listen address (default from server.address)")
}

func run(ctx context.Context, c *container.Container, addr string) error {
	cfg := c.GetConfig()
	if addr == "" {
		addr = cfg.Server.Address
	}

	router := server.NewRouter(c.GetPipeline(), c.GetRuleStore(), options(c), c.GetLogger())
	return server.Run(ctx, addr, router, c.GetLogger())
}

func options(c *container.Container) server.Options {
	cfg := c.GetConfig()
	return server.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DefaultUser:    cfg.Rules.DefaultUser,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
	}
}
