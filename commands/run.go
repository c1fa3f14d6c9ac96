package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rdb-forms/rdb-app-sheets/httpd"
	"github.com/rdb-forms/rdb-app-sheets/log"
	"github.com/rdb-forms/rdb-app-sheets/telemetry"
)

var RunCmd = Run{
	addr:           "",
	maxConnections: -1,
}

// Run starts the HTTP service.
type Run struct {
	addr           string
	maxConnections int
}

func (r *Run) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serves the submission form and the /api/submit endpoint",
		Example: `  rdb-app-sheets run
  rdb-app-sheets --root /opt/rdb run --http-addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.Execute(cmd)
		},
	}

	cmd.Flags().StringVar(&r.addr, "http-addr", r.addr, "HTTP listen address. Defaults to the configured address (:5000)")
	cmd.Flags().IntVar(&r.maxConnections, "max-connections", r.maxConnections, "Maximum simultaneous connections (0 is unlimited)")

	return cmd
}

func (r *Run) Execute(cmd *cobra.Command) error {
	cfg, err := load()
	if err != nil {
		return err
	}

	if r.addr != "" {
		cfg.HTTPAddr = r.addr
	}

	if r.maxConnections >= 0 {
		cfg.MaxConnections = r.maxConnections
	}

	ctx := cmd.Context()

	shutdown, err := telemetry.Setup(ctx, APP, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("unable to initialise tracing (%w)", err)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdown(ctx); err != nil {
			log.Warnf("telemetry shutdown (%v)", err)
		}
	}()

	server := httpd.NewServer(httpd.Config{
		HTTPAddr:       cfg.HTTPAddr,
		MaxConnections: cfg.MaxConnections,
		Title:          cfg.Worksheet,
	}, newHandler(cfg))

	log.Infof("%v %v - worksheet '%v'", APP, VERSION, cfg.Worksheet)

	return server.ListenAndServe(ctx)
}
