package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fftcompress/pkg/config"
)

func NewConfigCmd(ctx context.Context, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "inspect or create the configuration file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init [PATH]",
			Short: "write the default configuration",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, _ := cmd.Flags().GetString("config")
				if len(args) == 1 {
					path = args[0]
				}
				if err := config.CreateDefaultConfigFile(path); err != nil {
					return err
				}
				slog.InfoContext(ctx, "default configuration written", "path", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "print the effective configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := yaml.Marshal(opts.cfg)
				if err != nil {
					return fmt.Errorf("error marshaling config: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
	)
	return cmd
}
