package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grovetools/arbor/version"
)

// SetVersionTemplate wires `--version` output for a root command.
func SetVersionTemplate(cmd *cobra.Command, info version.Info) {
	cmd.Version = info.Version
	cmd.SetVersionTemplate(fmt.Sprintf(`{{.Name}} {{.Version}}
  Commit:    %s
  Built:     %s
  Platform:  %s
`, info.Commit, info.BuildDate, info.Platform))
}

// NewVersionCommand creates the standard version subcommand for an arbor
// binary.
func NewVersionCommand(componentName string) *cobra.Command {
	cmd := NewStandardCommand(
		"version",
		fmt.Sprintf("Print the version number of %s", componentName),
	)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := GetOptions(cmd)
		info := version.GetInfo()

		if opts.JSONOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		fmt.Println(info.String())
		return nil
	}

	return cmd
}
