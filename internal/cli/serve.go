package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rectgroup/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rectangle groups over HTTP",
		Long: `Start the preview server. Each POST /groups creates a group that later
requests address by id; idle groups are dropped after the configured
session TTL.

  curl -X POST localhost:8080/groups
  curl -X POST localhost:8080/groups/<id>/ops -d '{"ops":"add=2,rotate=30"}'
  curl localhost:8080/groups/<id>/render.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	artifacts, err := newCache(c.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer artifacts.Close()

	srv := server.New(c.Config, server.WithLogger(c.Logger), server.WithCache(artifacts))
	printInfo("Serving on http://%s", c.Config.Server.Addr)
	printDetail("sessions expire after %s idle", c.Config.Server.SessionTTL)

	if err := srv.ListenAndServe(ctx, c.Config.Server.Addr); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return ctx.Err()
}
