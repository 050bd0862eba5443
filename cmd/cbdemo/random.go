package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	cb "github.com/sushydev/circular_buffer_go"
	"github.com/sushydev/circular_buffer_go/metrics"
)

type randomConfig struct {
	Capacity   int
	Iterations int
	GrowAt     int
	GrowTo     int
	ClearEvery int
	SortEvery  int
	Search     int
	Seed       uint64

	MetricsAddr string
}

func randomConfigFrom(v *viper.Viper) randomConfig {
	return randomConfig{
		Capacity:    v.GetInt("capacity"),
		Iterations:  v.GetInt("iterations"),
		GrowAt:      v.GetInt("grow-at"),
		GrowTo:      v.GetInt("grow-to"),
		ClearEvery:  v.GetInt("clear-every"),
		SortEvery:   v.GetInt("sort-every"),
		Search:      v.GetInt("search"),
		Seed:        v.GetUint64("seed"),
		MetricsAddr: v.GetString("metrics-addr"),
	}
}

func newRandomCmd(logger *zap.Logger, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Push random values, periodically sorting, searching and clearing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			return runRandom(ctx, randomConfigFrom(v), cmd.OutOrStdout(), logger)
		},
	}

	flags := cmd.Flags()
	flags.Int("capacity", 10, "initial buffer capacity")
	flags.Int("iterations", 100, "number of values to push")
	flags.Int("grow-at", 50, "iteration at which the buffer is resized (0 disables)")
	flags.Int("grow-to", 100, "capacity used by the resize")
	flags.Int("clear-every", 25, "clear the buffer every N iterations (0 disables)")
	flags.Int("sort-every", 10, "sort the buffer every N iterations (0 disables)")
	flags.Int("search", 20, "value to look up after sorting")
	flags.Uint64("seed", 1, "random seed")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address after the run")

	return cmd
}

func every(i int, n int) bool {
	return n > 0 && i%n == 0
}

func runRandom(ctx context.Context, cfg randomConfig, out io.Writer, logger *zap.Logger) error {
	buffer, err := cb.NewLockingCircularBuffer[int](cfg.Capacity, cb.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create buffer: %w", err)
	}
	defer buffer.Close()

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))

	for i := 0; i < cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if cfg.GrowAt > 0 && i == cfg.GrowAt {
			if err := buffer.Resize(cfg.GrowTo); err != nil {
				return fmt.Errorf("failed to resize: %w", err)
			}
		}

		if err := buffer.PushBack(rng.IntN(100)); err != nil {
			return err
		}

		if every(i, cfg.SortEvery) {
			sorted := buffer.Snapshot()
			slices.Sort(sorted)
			if err := buffer.Replace(0, sorted...); err != nil {
				return fmt.Errorf("failed to write sorted values: %w", err)
			}

			found := "none"
			if idx, _ := slices.BinarySearch(sorted, cfg.Search); idx < len(sorted) {
				found = strconv.Itoa(sorted[idx])
			}
			fmt.Fprintf(out, "lower bound of %d: %s\n", cfg.Search, found)
		}

		fmt.Fprintln(out, formatValues(buffer.Snapshot()))

		if every(i, cfg.ClearEvery) {
			buffer.Clear()
		}
	}

	logger.Info("random run finished",
		zap.Int("size", buffer.Size()),
		zap.Int("capacity", buffer.Capacity()),
		zap.Uint64("dropped", buffer.Dropped()),
	)

	if cfg.MetricsAddr == "" {
		return nil
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(metrics.NewCollector("cbdemo", "random", buffer)); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	return metrics.Serve(ctx, metrics.ServerOptions{Addr: cfg.MetricsAddr, Gatherer: registry}, logger)
}

func formatValues(values []int) string {
	parts := make([]string, len(values))
	for i, value := range values {
		parts[i] = strconv.Itoa(value)
	}
	return strings.Join(parts, " ")
}
