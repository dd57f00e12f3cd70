package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/prgraph/internal/server"
	"github.com/matzehuels/prgraph/pkg/observability"
	"github.com/matzehuels/prgraph/pkg/session"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Clients upload a relation export to POST /api/v1/datasets and query the
returned dataset ID. Uploads expire after server.dataset_ttl. Prometheus
metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg.Server

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()
			runner.Indexed = true

			var store session.Store = session.NewMemoryStore()
			if cfg.DatasetDir != "" {
				fs, err := session.NewFileStore(cfg.DatasetDir)
				if err != nil {
					return err
				}
				store = fs
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewMetrics(reg)
			observability.SetPipelineHooks(metrics)
			observability.SetCacheHooks(metrics)
			observability.SetHTTPHooks(metrics)
			defer observability.Reset()

			printKeyValue("Address", cfg.Addr)
			printKeyValue("Cache", c.cfg.Cache.Backend)
			if cfg.DatasetDir != "" {
				printKeyValue("Datasets", cfg.DatasetDir)
			}

			srv := server.New(server.Config{
				Addr:           cfg.Addr,
				DatasetTTL:     cfg.DatasetTTL,
				MaxUploadBytes: cfg.MaxUploadBytes,
				AllowedOrigins: cfg.AllowedOrigins,
				Source:         c.cfg.SourceOptions(),
				Gatherer:       reg,
			}, runner, store, c.Logger)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("dataset-dir", "", "keep uploaded datasets in this directory (default: memory)")
	return cmd
}
