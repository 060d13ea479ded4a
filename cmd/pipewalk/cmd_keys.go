package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxsml/pipewalk/config"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the environment variables of the retry policy",
	RunE:  runKeys,
}

func runKeys(cmd *cobra.Command, _ []string) error {
	keys, err := config.Keys(rootFlags.stage, &config.Retry{})
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), k)
	}
	return nil
}
