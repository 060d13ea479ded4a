// pipewalk builds a sample order pipeline and inspects or runs it.
//
// Usage:
//
//	pipewalk inspect [--stage=orders] [--format=yaml|json]
//	pipewalk send --data='{"id":"42","amount":9.5}' [--type=order.placed]
//	pipewalk keys [--stage=orders]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fxsml/pipewalk/pipe"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	stage   string
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:   "pipewalk",
	Short: "Inspect and run a sample message pipeline",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := slog.LevelInfo
		if rootFlags.verbose {
			level = slog.LevelDebug
		}
		l := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		pipe.SetDefaultLogger(l)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.stage, "stage", "orders", "Config stage of the retry policy")
	f.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
