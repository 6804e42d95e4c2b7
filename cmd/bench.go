package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alkhaddour/tensorflow-image-models/format"
	"github.com/Alkhaddour/tensorflow-image-models/ml"
	"github.com/Alkhaddour/tensorflow-image-models/model/models/vit"
)

func NewBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench MODEL",
		Args:  cobra.ExactArgs(1),
		Short: "Time forward passes of a model",
		RunE:  benchHandler,
	}

	cmd.Flags().Int("batch", 1, "Batch size")
	cmd.Flags().Int("steps", 10, "Number of timed forward passes")
	cmd.Flags().Int("workers", 0, "Worker goroutines (0 uses all CPUs)")

	return cmd
}

func benchHandler(cmd *cobra.Command, args []string) error {
	batch, _ := cmd.Flags().GetInt("batch")
	steps, _ := cmd.Flags().GetInt("steps")
	workers, _ := cmd.Flags().GetInt("workers")
	if batch < 1 || steps < 1 {
		return fmt.Errorf("batch and steps must be positive")
	}

	cfg, ok := vit.CatalogConfig(args[0])
	if !ok {
		return fmt.Errorf("unknown model %q", args[0])
	}

	slog.Info("building model", "name", cfg.Name, "parameters", cfg.ParamCount())
	m, err := vit.New(cfg)
	if err != nil {
		return err
	}

	ctx := ml.NewContext(ml.WithWorkers(workers))
	pixels := ml.Zeros(batch, cfg.InputSize[0], cfg.InputSize[1], cfg.InChans)

	// One untimed pass to fault in the working set.
	if _, err := m.Forward(ctx, pixels); err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < steps; i++ {
		if _, err := m.Forward(ctx, pixels); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	perStep := elapsed / time.Duration(steps)
	fmt.Printf("%s: %d passes of batch %d in %s\n", cfg.Name, steps, batch, format.ExactDuration(elapsed))
	fmt.Printf("%s per pass, %.1f images/sec\n", format.ExactDuration(perStep),
		float64(batch*steps)/elapsed.Seconds())

	return nil
}
