package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sushydev/circular_buffer_go/internal/scenario"
)

func newRunCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Replay scenario files and check every expectation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := scenario.NewRunner(logger)

			for _, path := range args {
				s, err := scenario.Load(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				result, err := runner.Run(cmd.Context(), s)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d steps, %d dropped, %d rejected) [%s]\n",
					path, result.Steps, result.Dropped, result.Rejected, formatValues(result.Contents))
			}

			return nil
		},
	}
}
