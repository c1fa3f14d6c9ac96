package commands

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rdb-forms/rdb-app-sheets/config"
	"github.com/rdb-forms/rdb-app-sheets/log"
	"github.com/rdb-forms/rdb-app-sheets/spreadsheet"
	"github.com/rdb-forms/rdb-app-sheets/submission"
)

const APP = "rdb-app-sheets"

// Options holds the flags shared by all commands.
type Options struct {
	Config      string
	Debug       bool
	Root        string
	Credentials string
	URL         string
	Worksheet   string
}

var options = Options{
	Config: config.DEFAULT_CONFIG,
}

// NewRootCommand returns the rdb-app-sheets command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   APP,
		Short: "Appends web form submissions to a Google Sheets worksheet",
		Long: `rdb-app-sheets serves a submission form and appends each submission as a row to a
Google Sheets worksheet, authenticating with a service account key.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if options.Debug {
				log.SetDebug(true)
				log.Debugf("Debug mode enabled")
			}
		},
	}

	flags := root.PersistentFlags()

	flags.StringVar(&options.Config, "config", options.Config, "Configuration file path")
	flags.BoolVar(&options.Debug, "debug", options.Debug, "Displays internal information for diagnosing errors")
	flags.StringVar(&options.Root, "root", options.Root, "Application root directory (contains the service account key)")
	flags.StringVar(&options.Credentials, "credentials", options.Credentials, "Service account key file name")
	flags.StringVar(&options.URL, "url", options.URL, "Spreadsheet URL")
	flags.StringVar(&options.Worksheet, "worksheet", options.Worksheet, "Worksheet name")

	root.AddCommand(
		RunCmd.Command(),
		SubmitCmd.Command(),
		CheckCmd.Command(),
		VersionCmd.Command(),
	)

	return root
}

// Execute runs the command selected by the command line.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// load returns the configuration file settings overridden by the command line.
func load() (config.Config, error) {
	cfg, err := config.Load(options.Config)
	if err != nil {
		return config.Config{}, err
	}

	if options.Debug {
		cfg.Debug = true
	}

	if v := strings.TrimSpace(options.Root); v != "" {
		cfg.Root = v
	}

	if v := strings.TrimSpace(options.Credentials); v != "" {
		cfg.Credentials = v
	}

	if v := strings.TrimSpace(options.URL); v != "" {
		cfg.SpreadsheetURL = v
	}

	if v := strings.TrimSpace(options.Worksheet); v != "" {
		cfg.Worksheet = v
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration (%w)", err)
	}

	log.SetDebug(cfg.Debug)

	return cfg, nil
}

// newHandler resolves the Google Sheets capability once and returns the submission
// handler built on it.
func newHandler(cfg config.Config) *submission.Handler {
	capability := spreadsheet.Resolve(cfg.SheetsEnabled, cfg.SpreadsheetURL,
		spreadsheet.WithValueInputOption(cfg.ValueInputOption),
		spreadsheet.WithTransport(traced))

	if err := capability.Available(); err != nil {
		log.Warnf("Google Sheets client not available (%v)", err)
	}

	if id, err := spreadsheet.SpreadsheetID(cfg.SpreadsheetURL); err == nil {
		log.Debugf("Spreadsheet - ID:%s  worksheet:%s", id, cfg.Worksheet)
	}

	return submission.NewHandler(cfg.Submission(), capability)
}

func traced(ctx context.Context, client *http.Client) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(client.Transport),
		Timeout:   client.Timeout,
	}
}
