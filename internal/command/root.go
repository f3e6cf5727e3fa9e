// Package command implements the descpub command line interface.
package command

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/simplesurance/descpub/internal/command/term"
	"github.com/simplesurance/descpub/internal/exec"
	"github.com/simplesurance/descpub/internal/log"
	"github.com/simplesurance/descpub/internal/version"
)

var rootCmd = &cobra.Command{
	Use:              "descpub",
	Short:            "descpub sets project descriptions from files that builds create.",
	PersistentPreRun: initSb,
	SilenceUsage:     true,
}

var (
	verboseFlag bool
	noColorFlag bool
)

var ctx = context.Background()

var (
	stdout = term.NewStream(os.Stdout)
	stderr = term.NewStream(os.Stderr)
)

var exitFunc = func(code int) { os.Exit(code) }

func initSb(_ *cobra.Command, _ []string) {
	if verboseFlag {
		log.StdLogger.EnableDebug(verboseFlag)
		exec.DefaultLogFn = log.StdLogger.Debugf
	}

	if noColorFlag {
		color.NoColor = true
	}
}

// Execute parses commandline flags and executes their actions.
func Execute() {
	if err := version.LoadPackageVars(); err != nil {
		stderr.Printf("setting version failed: %s\n", err)
	}
	rootCmd.Version = version.CurSemVer.Full()

	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable color output")

	err := rootCmd.Execute()
	exitOnErr(err)
}
