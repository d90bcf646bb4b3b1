package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fftcompress/internal/logging"
	"fftcompress/pkg/config"
)

// options is shared by every subcommand; it is filled in by the root
// command's PersistentPreRunE.
type options struct {
	cfg       *config.Config
	logCloser io.Closer
}

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "fftcompress",
		Short:         "lossy Fourier compression of grayscale images in 32x32 tiles",
		Long:          "fftcompress converts images to grayscale, drops the weak frequency content of every 32x32 tile and writes the reconstruction. Image dimensions are cropped to a multiple of 32.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(ctx, cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logCloser != nil {
				opts.logCloser.Close()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewCompressCmd(ctx, opts),
		NewSweepCmd(ctx, opts),
		NewConfigCmd(ctx, opts),
	)
	pf := cmd.PersistentFlags()
	pf.String("config", "fftcompress.yaml", "YAML configuration file (defaults are used when it does not exist)")
	pf.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR); overrides the config file")
	pf.String("log-format", "", "Log format (text|json); overrides the config file")
	pf.String("log-file", "", "Write logs to this size-rotated file instead of stderr")
	return cmd
}

// setup loads the configuration, applies the persistent flag overrides and
// installs the default logger.
func (o *options) setup(ctx context.Context, cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("log-file") {
		cfg.Logging.File, _ = flags.GetString("log-file")
	}
	o.cfg = cfg

	var w io.Writer = os.Stderr
	if cfg.Logging.File != "" {
		rotating := logging.RotatingFile(cfg.Logging.File, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups, cfg.Logging.MaxAgeDays)
		o.logCloser = rotating
		w = rotating
	}
	level, ok := logging.ParseLevel(cfg.Logging.Level)
	slog.SetDefault(logging.Logger(w, strings.EqualFold(cfg.Logging.Format, "json"), level))
	if !ok {
		slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", cfg.Logging.Level)
	}
	slog.DebugContext(ctx, "configuration loaded", "path", path, "tolerance", cfg.Compression.Tolerance, "workers", cfg.Compression.NumWorkers)
	return nil
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}
