// Package cmd implements the timm command line: inspecting the model
// catalog and benchmarking forward passes.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Alkhaddour/tensorflow-image-models/model/models/vit"
	"github.com/Alkhaddour/tensorflow-image-models/version"
)

func NewCLI() *cobra.Command {
	vit.RegisterModels()

	rootCmd := &cobra.Command{
		Use:     "timm",
		Short:   "Image model catalog and inference",
		Version: version.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
	}

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		NewListCmd(),
		NewInfoCmd(),
		NewBenchCmd(),
	)

	return rootCmd
}
