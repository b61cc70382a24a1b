// Package cmd holds the bikefit command line.
package cmd

import (
	"context"
	"fmt"
	"io"

	"bikefit/config"
	"bikefit/observability"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "bikefit",
		Short:         "Bike fit geometry engine and frame search.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.NewViper(), a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = observability.Initialize(cfg.Logger)
			a.logger.Debug("configuration loaded", zap.String("version", Version))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newServeCmd(a),
		newCalcCmd(a),
		newSearchCmd(a),
		newImportCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line with args and reports the error, if any, on
// stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer observability.Sync()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
