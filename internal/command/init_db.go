package command

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simplesurance/descpub/internal/command/term"
	"github.com/simplesurance/descpub/pkg/cfg"
	"github.com/simplesurance/descpub/pkg/storage"
)

const initDbExample = `
descpub init db postgres://postgres@localhost:5432/descpub?sslmode=disable
`

var initDbLongHelp = fmt.Sprintf(`
Creates the descpub tables in a PostgreSQL database.

The Postgres URL is read from the configuration file.
Alternatively the URL can be passed as argument or
by setting the '%s' environment variable.`,
	term.Highlight(envVarPSQLURL))

type initDbCmd struct {
	cobra.Command
}

func newInitDbCmd() *initDbCmd {
	cmd := initDbCmd{
		Command: cobra.Command{
			Use:               "db [POSTGRES-URL]",
			Short:             "create descpub tables in a PostgreSQL database",
			Example:           strings.TrimSpace(initDbExample),
			Long:              strings.TrimSpace(initDbLongHelp),
			Args:              cobra.MaximumNArgs(1),
			ValidArgsFunction: cobra.NoFileCompletions,
		},
	}

	cmd.Run = cmd.run

	return &cmd
}

func (c *initDbCmd) run(_ *cobra.Command, args []string) {
	var dbURL string

	if len(args) == 1 {
		dbURL = args[0]
	} else {
		dbURL = os.Getenv(envVarPSQLURL)
	}

	if dbURL == "" {
		conf, err := findConfig()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				stderr.Printf("could not find '%s' configuration file.\n"+
					"Run '%s' first or pass the Postgres URL as argument.\n",
					term.Highlight(cfg.FileName), term.Highlight(cmdInit))
				exitFunc(exitCodeError)
				return
			}

			exitOnErr(err)
		}

		mustPrepareConfig(conf)

		dbURL = conf.Storage.PGSQLURL
		if dbURL == "" {
			fatal(fmt.Sprintf("postgresql_url is not set in %s", conf.FilePath()))
			return
		}
	}

	storageClt, err := newStorageClient(dbURL)
	exitOnErr(err, "establishing connection failed")
	defer storageClt.Close()

	err = storageClt.Init(ctx)
	if errors.Is(err, storage.ErrExists) {
		stderr.Println("database already exists")
		exitFunc(exitCodeAlreadyExist)
		return
	}
	exitOnErr(err)

	stdout.Println("database tables created successfully")
}
