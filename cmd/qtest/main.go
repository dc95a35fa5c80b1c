// qtest drives a string queue from a command script or an interactive session.
//
// Commands are read from standard input, or from the file given with --file.
// Run "help" inside the session for the command list. The exit status is
// non-zero when any command failed.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/go-strqueue/internal/console"
	"github.com/arloliu/go-strqueue/logger"
	"github.com/spf13/cobra"
)

const (
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

type rootCmdConfig struct {
	file        string
	verbose     int
	seed        uint64
	failPercent int
	removeLen   int
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:          "qtest",
		Short:        "qtest exercises a string queue",
		Long:         `Run queue commands from a script or interactively and report failed checks`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, config)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&config.file, "file", "f", "", "read commands from file instead of stdin")
	flags.IntVarP(&config.verbose, "verbose", "v", 1, "verbosity level (0-3)")
	flags.Uint64Var(&config.seed, "seed", 0, "seed for storage fault injection")
	flags.IntVar(&config.failPercent, "malloc", 0, "percent of storage requests to refuse")
	flags.IntVar(&config.removeLen, "length", console.DefaultRemoveLength, "buffer capacity used by rh")

	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func run(cmd *cobra.Command, config *rootCmdConfig) error {
	var in io.Reader = cmd.InOrStdin()
	if config.file != "" {
		f, err := os.Open(config.file)
		if err != nil {
			return fmt.Errorf("open command file: %w", err)
		}
		defer f.Close()
		in = f
	}

	log := logger.NewSlogWriter(cmd.ErrOrStderr(), logger.VerbosityLevel(config.verbose), false)
	logger.SetLogger(log)

	c, err := console.New(
		console.WithOutput(cmd.OutOrStdout()),
		console.WithLogger(log),
		console.WithSeed(config.seed),
		console.WithFailPercent(config.failPercent),
		console.WithRemoveLength(config.removeLen),
	)
	if err != nil {
		return err
	}

	return c.Run(cmd.Context(), in)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of qtest",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qtest v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
