package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"firestige.xyz/ospfdump/internal/config"
	"firestige.xyz/ospfdump/internal/core/decoder"
	"firestige.xyz/ospfdump/internal/filter"
	"firestige.xyz/ospfdump/internal/log"
	"firestige.xyz/ospfdump/internal/pipeline"
	"firestige.xyz/ospfdump/internal/sink/console"
	"firestige.xyz/ospfdump/internal/source/file"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Dissect the frames of a capture file",
	Long: `
Read a pcap or pcapng file with Ethernet link type and print one line per frame.

Flags given on the command line override the config file, which overrides the
built-in defaults.

Examples:
  ospfdump read -r ospf.pcap                       # one line per frame
  ospfdump read -r ospf.pcap -vv                   # full OSPF and LSA detail
  ospfdump read -r ospf.pcap -e --ethertype 802.1Q # VLAN frames with link headers
  ospfdump read -r - -x -c 10 < capture.pcap       # first 10 frames from stdin with hex dumps
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			exitWithError("failed to load configuration", err)
		}
		if err := readOpts.apply(cmd.Flags(), cfg); err != nil {
			exitWithError("invalid flags", err)
		}
		if err := initLogging(cfg); err != nil {
			exitWithError("failed to set up logging", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runRead(ctx, cfg, os.Stdout); err != nil {
			exitWithError("read failed", err)
		}
	},
}

// readFlags mirrors the display and capture sections of the configuration.
type readFlags struct {
	file       string
	quiet      bool
	header     bool
	verbose    int
	hexDump    bool
	noDefault  bool
	etherTypes []string
	maxDepth   int
	count      int
}

var readOpts readFlags

func init() {
	readOpts.register(readCmd.Flags())
}

func (f *readFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.file, "read", "r", "", "capture file to read, - for stdin")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "quiet output, omit protocol names in link headers")
	fs.BoolVarP(&f.header, "header", "e", false, "print the link-level header on every line")
	fs.CountVarP(&f.verbose, "verbose", "v", "more detail, repeat for LSA bodies (-vv)")
	fs.BoolVarP(&f.hexDump, "hex", "x", false, "dump every frame in hex")
	fs.BoolVar(&f.noDefault, "no-default-print", false, "never dump the payload of unhandled frames")
	fs.StringSliceVar(&f.etherTypes, "ethertype", nil, "only print frames with these ether types (name or number)")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "maximum nested VLAN/LLC encapsulations")
	fs.IntVarP(&f.count, "count", "c", 0, "exit after printing this many frames")
}

// apply copies the flags that were set on the command line into cfg.
func (f *readFlags) apply(fs *pflag.FlagSet, cfg *config.GlobalConfig) error {
	if fs.Changed("read") {
		cfg.Capture.File = f.file
	}
	if fs.Changed("quiet") {
		cfg.Display.Quiet = f.quiet
	}
	if fs.Changed("header") {
		cfg.Display.Header = f.header
	}
	if fs.Changed("verbose") {
		cfg.Display.Verbose = f.verbose
	}
	if fs.Changed("hex") {
		cfg.Display.HexDump = f.hexDump
	}
	if fs.Changed("no-default-print") {
		cfg.Display.SuppressDefaultPrint = f.noDefault
	}
	if fs.Changed("max-depth") {
		cfg.Display.MaxEncapDepth = f.maxDepth
	}
	if fs.Changed("count") {
		cfg.Capture.Count = f.count
	}
	if fs.Changed("ethertype") {
		types := make([]config.EtherType, 0, len(f.etherTypes))
		for _, s := range f.etherTypes {
			t, err := config.ParseEtherType(s)
			if err != nil {
				return err
			}
			types = append(types, config.EtherType(t))
		}
		cfg.Filter.EtherTypes = types
	}
	return cfg.ValidateAndApplyDefaults()
}

// runRead wires source, filter, dissector and sink and runs the pipeline to
// completion.
func runRead(ctx context.Context, cfg *config.GlobalConfig, out io.Writer) error {
	if cfg.Capture.File == "" {
		return fmt.Errorf("no capture file given, use -r <file>")
	}

	src, err := file.NewSource(cfg.Capture.File)
	if err != nil {
		return err
	}
	flt, err := filter.New(cfg.Filter.Values())
	if err != nil {
		return err
	}
	dissector := decoder.NewDissector(cfg.Display.Options())

	log.GetLogger().WithFields(map[string]interface{}{
		"file":    cfg.Capture.File,
		"verbose": cfg.Display.Verbose,
		"filter":  len(cfg.Filter.EtherTypes),
	}).Debug("reading capture")

	p := pipeline.NewBuilder().
		WithSource(src).
		WithFilter(flt).
		WithSink(console.NewSink(out, dissector)).
		WithCount(cfg.Capture.Count).
		WithBufferSize(cfg.Capture.ChannelCapacity).
		Build()
	return p.Run(ctx)
}
