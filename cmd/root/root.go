// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bscpro/bank-export/internal/config"
	"bscpro/bank-export/internal/container"
	"bscpro/bank-export/internal/fileutils"
	"bscpro/bank-export/internal/pipeline"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
	LogLevel   string
	User       string
}

var (
	// AppContainer is built before any subcommand runs and closed after.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bank-export",
		Short: "Convert Dutch bank statements into accounting import files.",
		Long: `bank-export reads bank statements (PDF, text, CSV, JSON or CAMT.053),
classifies every transaction with keyword rules and BTW detection, and
writes CSV, MT940, CAMT.053 or QBO files for accounting software.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: setup,
		PersistentPostRun: teardown,
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	if Cmd.PersistentFlags().Lookup("input") != nil {
		return
	}
	flags := Cmd.PersistentFlags()
	flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Input statement (PDF, TXT, CSV, JSON or CAMT.053 XML)")
	flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
	flags.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default $HOME/.bank-export/config.yaml)")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVarP(&SharedFlags.User, "user", "u", "", "User whose categorization rules apply")
}

func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfigFromFile(SharedFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	AppContainer = c
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if AppContainer == nil {
		return
	}
	if err := AppContainer.Close(); err != nil {
		AppContainer.GetLogger().WithError(err).Warn("Failed to close rule store")
	}
	AppContainer = nil
}

// UserID returns the user named on the command line, or the configured
// default user.
func UserID(c *container.Container, flag string) string {
	if flag != "" {
		return flag
	}
	return c.GetConfig().Rules.DefaultUser
}

// LoadInput reads a statement through the container's loader and attaches
// the acting user.
func LoadInput(ctx context.Context, c *container.Container, path, user string) (pipeline.Input, error) {
	if path == "" {
		return pipeline.Input{}, fmt.Errorf("an input file is required (--input)")
	}
	in, err := c.GetLoader().Load(ctx, path)
	if err != nil {
		return pipeline.Input{}, err
	}
	in.User.UserID = UserID(c, user)
	return in, nil
}

// WriteOutput writes data to output, or to w when output is empty.
func WriteOutput(w io.Writer, output string, data []byte) error {
	if output == "" {
		_, err := w.Write(data)
		return err
	}
	return fileutils.WriteFile(output, data)
}
