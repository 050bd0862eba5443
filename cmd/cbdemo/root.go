package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd(logger *zap.Logger, level zap.AtomicLevel) *cobra.Command {
	opts := rootOptions{}
	v := viper.New()

	root := &cobra.Command{
		Use:           "cbdemo",
		Short:         "Exercise the circular buffer from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.debug {
				level.SetLevel(zap.DebugLevel)
			}
			return loadConfig(v, cmd.Flags(), opts.configPath)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (yaml, toml or json)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log at debug level")

	root.AddCommand(
		newRandomCmd(logger, v),
		newRunCmd(logger),
	)

	return root
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
