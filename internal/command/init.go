package command

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simplesurance/descpub/internal/command/term"
	"github.com/simplesurance/descpub/pkg/cfg"
)

const (
	cmdInit   = "descpub init"
	cmdInitDb = "descpub init db"
	cmdRun    = "descpub run"
)

var initLongHelp = fmt.Sprintf(`
Creates a %s configuration file in the current directory.
The project name defaults to the name of the directory.

To setup descpub for the first time, the following commands should be run:
1.) %s
2.) %s (optional, to store build numbers and descriptions)

Afterwards builds are run with '%s'.
`, term.Highlight(cfg.FileName),
	term.Highlight(cmdInit),
	term.Highlight(cmdInitDb),
	term.Highlight(cmdRun))

func init() {
	rootCmd.AddCommand(&newInitCmd().Command)
}

type initCmd struct {
	cobra.Command

	commented bool
}

func newInitCmd() *initCmd {
	cmd := initCmd{
		Command: cobra.Command{
			Use:               "init [PROJECT-NAME]",
			Short:             "create a configuration file or the database schema",
			Long:              strings.TrimSpace(initLongHelp),
			Args:              cobra.MaximumNArgs(1),
			ValidArgsFunction: cobra.NoFileCompletions,
		},
	}

	cmd.Run = cmd.run
	cmd.Flags().BoolVar(&cmd.commented, "commented", false,
		"comment out all settings in the created file")

	cmd.AddCommand(&newInitDbCmd().Command)

	return &cmd
}

func (c *initCmd) run(_ *cobra.Command, args []string) {
	cwd, err := os.Getwd()
	exitOnErr(err)

	name := filepath.Base(cwd)
	if len(args) == 1 {
		name = args[0]
	}

	conf := cfg.Example(name)
	if err := conf.Validate(); err != nil {
		fatal(fmt.Sprintf("invalid project name %q: %s", name, err))
		return
	}

	path := filepath.Join(cwd, cfg.FileName)

	var writeErr error
	if c.commented {
		writeErr = conf.ToFile(path, cfg.ToFileOptCommented())
	} else {
		writeErr = conf.ToFile(path)
	}

	if writeErr != nil {
		if errors.Is(writeErr, os.ErrExist) {
			stderr.Printf("%s already exists\n", path)
			exitFunc(exitCodeAlreadyExist)
			return
		}

		exitOnErr(writeErr)
	}

	stdout.Printf("configuration file for project %s written to %s\n",
		term.Highlight(name), term.Highlight(path))
	stdout.Printf("Adapt the configuration to your needs and run '%s' afterwards.\n",
		term.Highlight(cmdRun))
}
