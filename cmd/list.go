package cmd

import (
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Alkhaddour/tensorflow-image-models/format"
	"github.com/Alkhaddour/tensorflow-image-models/model/models/vit"
)

func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [prefix]",
		Aliases: []string{"ls"},
		Args:    cobra.MaximumNArgs(1),
		Short:   "List catalog models",
		RunE:    listHandler,
	}

	return cmd
}

func listHandler(cmd *cobra.Command, args []string) error {
	var data [][]string

	for _, cfg := range vit.Configs() {
		if len(args) > 0 && !strings.HasPrefix(strings.ToLower(cfg.Name), strings.ToLower(args[0])) {
			continue
		}

		params := cfg.ParamCount()
		data = append(data, []string{
			cfg.Name,
			format.HumanNumber(uint64(params)),
			format.HumanBytes(int64(params) * 4),
			sizeString(cfg.InputSize),
			sizeString(cfg.PatchSize),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"NAME", "PARAMS", "SIZE", "INPUT", "PATCH"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}
