package cli

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/grovetools/arbor/config"
)

// CommandOptions holds common options for arbor commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard arbor flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to arbor.yml config file")

	// Accept underscore spellings of multi-word flags
	cmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	return cmd
}

// GetLogger creates a CLI diagnostics logger based on command flags
func GetLogger(cmd *cobra.Command) *logrus.Logger {
	var loggerOpts []LoggerOption

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		loggerOpts = append(loggerOpts, WithLevel(logrus.DebugLevel))
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		loggerOpts = append(loggerOpts, WithFormatter(&logrus.JSONFormatter{}))
	}

	return NewLogger(loggerOpts...)
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// InitConfig resolves the configuration file path: an explicit flag wins,
// otherwise the directory tree is searched upward from the working directory.
func InitConfig(configFile string) (string, error) {
	if configFile != "" {
		return configFile, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	foundConfigFile, err := config.FindConfigFile(cwd)
	if err != nil {
		// No config file found, that's okay for some commands
		return "", nil
	}

	return foundConfigFile, nil
}
