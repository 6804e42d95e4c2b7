package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Alkhaddour/tensorflow-image-models/cmd"
)

func main() {
	cobra.CheckErr(cmd.NewCLI().ExecuteContext(context.Background()))
}
