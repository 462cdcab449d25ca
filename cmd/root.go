// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/ospfdump/internal/config"
	"firestige.xyz/ospfdump/internal/log"
)

var (
	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ospfdump",
	Short: "ospfdump - Ethernet and OSPFv2 dissector for capture files",
	Long: `ospfdump reads Ethernet capture files (pcap or pcapng) and prints a
line-oriented description of every frame: the link layer, 802.1Q/QinQ tags,
LLC/SNAP, the IPv4 carrier and OSPFv2 packets down to individual LSAs.

Truncated captures never cause reads past the captured bytes; the point where
the data ran out is marked with a [|proto] marker.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file path (defaults and OSPFDUMP_* environment when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level override: trace, debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadConfig loads the configuration file and applies the global overrides.
func loadConfig(cmd *cobra.Command) (*config.GlobalConfig, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
		if err := cfg.ValidateAndApplyDefaults(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// initLogging configures the global logger from cfg.
func initLogging(cfg *config.GlobalConfig) error {
	if err := log.Init(cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
