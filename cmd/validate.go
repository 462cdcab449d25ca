package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"firestige.xyz/ospfdump/internal/config"
	"firestige.xyz/ospfdump/internal/core/decoder"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a configuration file",
	Long: `Validate an ospfdump configuration file without reading any capture.

The file is taken from the argument, or from --config when no argument is given.

Examples:
  ospfdump validate ospfdump.yml
  ospfdump --config /etc/ospfdump.yml validate`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := configFile
		if len(args) == 1 {
			path = args[0]
		}
		if err := runValidate(path, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
			os.Exit(1)
		}
	},
}

func runValidate(path string, out io.Writer) error {
	if path == "" {
		return fmt.Errorf("no configuration file given")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	types := "all"
	if len(cfg.Filter.EtherTypes) > 0 {
		names := make([]string, 0, len(cfg.Filter.EtherTypes))
		for _, t := range cfg.Filter.Values() {
			names = append(names, decoder.EtherTypeName(t))
		}
		types = strings.Join(names, ",")
	}

	fmt.Fprintf(out, "VALID: verbose %d, max depth %d, ether types %s, log level %s\n",
		cfg.Display.Verbose,
		cfg.Display.MaxEncapDepth,
		types,
		cfg.Log.Level,
	)
	return nil
}
