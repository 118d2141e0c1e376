// Package commands provides the CLI commands for conftree.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/conftree/conftree/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	printLogs bool
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "conftree",
	Short: "conftree - schema-aware JSON/JSONC configuration editor",
	Long: `conftree edits JSON and JSONC configuration files with optional
schema metadata: labeled trees, typed value coercion, range and enum
validation, and dirty tracking against the file on disk.

Run 'conftree tree <file>' to inspect a document, or 'conftree serve'
to expose the editor over HTTP.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var out io.Writer = io.Discard
		if printLogs {
			out = os.Stderr
		}
		logging.Init(logging.Config{
			Level:  logging.ParseLevel(logLevel),
			Output: out,
			Pretty: printLogs,
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("conftree %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(arrayCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(fmtCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetWorkDir returns the working directory from flag or current directory.
func GetWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}
