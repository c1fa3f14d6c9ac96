package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// VERSION is set at build time with -ldflags "-X github.com/rdb-forms/rdb-app-sheets/commands.VERSION=..."
var VERSION = "v0.1.0"

// VersionCmd is an initialized Version command for the command tree.
var VersionCmd = Version{}

// Version is a CLI command implementation that displays the version information.
type Version struct {
}

func (c *Version) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Displays the current version",
		Long:  "Displays the rdb-app-sheets version in the format v<major>.<minor>.<build> e.g. v0.1.0",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.Execute(cmd)
		},
	}
}

// Execute prints the current version.
func (c *Version) Execute(cmd *cobra.Command) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", VERSION)

	return nil
}
