package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxsml/pipewalk/inspect"
	"github.com/fxsml/pipewalk/pipe"
)

var inspectFlags struct {
	format string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the stage tree of the sample pipeline",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFlags.format, "format", "f", string(inspect.FormatYAML), "Output format (yaml|json)")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	retry, err := loadRetry(rootFlags.stage)
	if err != nil {
		return fmt.Errorf("load retry config: %w", err)
	}
	p := newOrderPipeline(cmd.OutOrStdout(), retry)
	report := inspect.Build(pipe.PipeNode[orderContext](p))
	return report.Encode(cmd.OutOrStdout(), inspect.Format(inspectFlags.format))
}
