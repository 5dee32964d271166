package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/curvesvg/pkg/cache"
	"github.com/matzehuels/curvesvg/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	timeout time.Duration
	cache   cacheFlags
}

// serveCommand creates the serve command, which exposes conversion over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions over HTTP",
		Long: `Start the HTTP API.

  POST /v1/convert?format=svg|json|dot|outline   archive in, artifact out
  POST /v1/tree?format=outline|dot               scene tree
  POST /v1/inspect                               statistics and warnings
  GET  /healthz, GET /version

Artifacts are cached in Redis when --redis-url (or cache.redis_url) is set,
otherwise in the file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.cache.redisURL, "redis-url", "", "Redis URL for the shared artifact cache")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "per-request conversion timeout")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()
	if _, ok := runner.Cache.(*cache.RedisCache); ok {
		runner.TTL = min(runner.TTL, cache.TTLServer)
	}

	addr := opts.addr
	if addr == "" {
		addr = c.Config.Server.Addr
	}
	srv := server.New(runner, c.Logger, server.Config{
		Addr:           addr,
		MaxUploadBytes: c.Config.Server.MaxUploadBytes(),
		RequestTimeout: opts.timeout,
		Options:        c.pipelineOptions(nil),
	})
	return srv.ListenAndServe(ctx)
}
