package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rdb-forms/rdb-app-sheets/log"
)

var CheckCmd = Check{}

// Check verifies the service account key and the target worksheet without appending
// anything.
type Check struct {
}

func (c *Check) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verifies the service account key and that the worksheet can be opened",
		Example: `  rdb-app-sheets check
  rdb-app-sheets --debug --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" --worksheet RDB check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.Execute(cmd)
		},
	}
}

func (c *Check) Execute(cmd *cobra.Command) error {
	cfg, err := load()
	if err != nil {
		return err
	}

	if _, err := newHandler(cfg).Open(cmd.Context()); err != nil {
		return fmt.Errorf("unable to open worksheet '%v' (%w)", cfg.Worksheet, err)
	}

	log.Infof("Worksheet '%v' OK", cfg.Worksheet)
	fmt.Fprintf(cmd.OutOrStdout(), "OK\n")

	return nil
}
