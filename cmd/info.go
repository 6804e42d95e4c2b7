package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Alkhaddour/tensorflow-image-models/format"
	"github.com/Alkhaddour/tensorflow-image-models/model/models/vit"
)

func NewInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info MODEL",
		Args:  cobra.ExactArgs(1),
		Short: "Show a model's configuration",
		RunE:  infoHandler,
	}

	return cmd
}

func sizeString(s [2]int) string {
	return fmt.Sprintf("%dx%d", s[0], s[1])
}

func infoHandler(cmd *cobra.Command, args []string) error {
	cfg, ok := vit.CatalogConfig(args[0])
	if !ok {
		return fmt.Errorf("unknown model %q", args[0])
	}

	grid := cfg.GridSize()
	rows := [][]string{
		{"name", cfg.Name},
		{"parameters", format.HumanNumber(uint64(cfg.ParamCount()))},
		{"embed dim", fmt.Sprint(cfg.EmbedDim)},
		{"depth", fmt.Sprint(cfg.Depth)},
		{"heads", fmt.Sprint(cfg.NumHeads)},
		{"input size", sizeString(cfg.InputSize)},
		{"patch size", sizeString(cfg.PatchSize)},
		{"patch grid", sizeString(grid)},
		{"sequence length", fmt.Sprint(cfg.NumPatches() + cfg.NumPrefixTokens())},
		{"classes", fmt.Sprint(cfg.NumClasses)},
		{"distilled", fmt.Sprint(cfg.Distilled)},
		{"crop fraction", fmt.Sprint(cfg.CropPct)},
		{"interpolation", cfg.Interpolation},
		{"mean", fmt.Sprint(cfg.Mean)},
		{"std", fmt.Sprint(cfg.Std)},
	}
	if cfg.RepresentationSize > 0 {
		rows = append(rows, []string{"representation size", fmt.Sprint(cfg.RepresentationSize)})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(rows)
	table.Render()

	return nil
}
