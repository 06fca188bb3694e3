package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwveysey/coding-agent-notifications/internal/cli"
	"github.com/cwveysey/coding-agent-notifications/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local command API",
		Long:  `Start the HTTP command API used by the desktop front-end, with a Server-Sent Events stream of toggle-state changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}

			runCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			go func() {
				if err := cli.Follow(runCtx, svc.Paths(), svc.StateManager(), ctx.logger); err != nil {
					ctx.logger.Warn("state watcher stopped", slog.String("error", err.Error()))
				}
			}()

			srv := server.New(net.JoinHostPort(host, strconv.Itoa(port)), svc, ctx.logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", srv.Addr())

			select {
			case err := <-errCh:
				return err
			case <-runCtx.Done():
			}

			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Listen address")
	cmd.Flags().IntVarP(&port, "port", "p", 8787, "Server port")
	return cmd
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print sound and installation state changes as they happen",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			stream := cli.NewStreamMode(svc.Paths(), svc.StateManager(), out, shouldColorize(out), ctx.logger)
			return stream.Run(cmd.Context())
		},
	}
}
