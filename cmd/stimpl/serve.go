package main

import (
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/spf13/cobra"

	"github.com/vito/stimpl/pkg/ioctx"
	"github.com/vito/stimpl/pkg/rpc"
)

func serveCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluator over JSON-RPC on stdin/stdout",
		Long: `Serve evaluates programs sent as JSON-RPC 2.0 requests, one message per
line on stdin, and writes responses to stdout.

Methods:
  stimpl.run      {"program": <document>, "debug": false}
  stimpl.version`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := setup(cmd, cfg)
			if err != nil {
				return err
			}
			logger := ioctx.LoggerFromContext(ctx)

			logger.InfoContext(ctx, "starting JSON-RPC server")

			srv := jrpc2.NewServer(rpc.NewAssigner(version), &jrpc2.ServerOptions{
				Logger: func(text string) { logger.Debug(text) },
			})
			srv.Start(channel.Line(os.Stdin, os.Stdout))

			logger.InfoContext(ctx, "JSON-RPC server closed", "error", srv.Wait())
			return nil
		},
	}
}
