// Package cmd implements the clearai-audit CLI surface: a root cobra
// command plus the serve/process/checklist subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgLogLevel string
var cfgLogFormat string
var cfgLogFile string

var rootCmd = &cobra.Command{
	Use:   "clearai-audit",
	Short: "Customs-clearance document audit batch processing engine",
	Long: `clearai-audit ingests customs-clearance PDFs, partitions them into jobs,
classifies and extracts each document, and runs a region-specific
checklist validator, producing an auditable run manifest.`,
}

// Execute runs the root command. Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initViperBindings)

	rootCmd.PersistentFlags().StringVar(&cfgLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfgLogFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&cfgLogFile, "log-file", "", "log file path (optional; logs to stderr when empty)")

	viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("LOG_FORMAT", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("LOG_FILE", rootCmd.PersistentFlags().Lookup("log-file"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(checklistCmd)
}

func initViperBindings() {
	viper.AutomaticEnv()
	if logFile := viper.GetString("LOG_FILE"); logFile != "" {
		fmt.Fprintf(os.Stderr, "logging to %s\n", logFile)
	}
}
