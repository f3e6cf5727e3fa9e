package command

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simplesurance/descpub/internal/command/flag"
	"github.com/simplesurance/descpub/internal/command/term"
	"github.com/simplesurance/descpub/internal/format"
	"github.com/simplesurance/descpub/internal/format/jsonformat"
	"github.com/simplesurance/descpub/internal/format/table"
	"github.com/simplesurance/descpub/pkg/storage"
)

const showLongHelp = `
Shows the current description of a project.
If no project name is passed, the project of the configuration file is shown.

With --history the stored descriptions of the project are listed, newest
first. With --config the configuration is printed after variables were
resolved and defaults were applied.
`

const showExample = `
descpub show                       show the current description of the project
descpub show web --history -l 5    list the last 5 descriptions of the web project
descpub show --config              show the effective configuration
`

func init() {
	rootCmd.AddCommand(&newShowCmd().Command)
}

type showCmd struct {
	cobra.Command

	history bool
	limit   uint
	config  bool
	format  *flag.OneOf
}

func newShowCmd() *showCmd {
	cmd := showCmd{
		Command: cobra.Command{
			Use:               "show [PROJECT-NAME]",
			Short:             "show the description of a project",
			Long:              strings.TrimSpace(showLongHelp),
			Example:           strings.TrimSpace(showExample),
			Args:              cobra.MaximumNArgs(1),
			ValidArgsFunction: cobra.NoFileCompletions,
		},
		format: flag.NewFormatFlag(),
	}

	cmd.Run = cmd.run

	cmd.Flags().BoolVar(&cmd.history, "history", false,
		"list stored descriptions")
	cmd.Flags().UintVarP(&cmd.limit, "limit", "l", 10,
		"max. number of descriptions that are listed with --history, 0 lists all")
	cmd.Flags().BoolVar(&cmd.config, "config", false,
		"print the configuration")
	cmd.Flags().Var(cmd.format, cmd.format.Name(), cmd.format.Usage(term.Highlight))

	if err := cmd.format.RegisterFlagCompletion(&cmd.Command); err != nil {
		panic(err)
	}

	cmd.MarkFlagsMutuallyExclusive("history", "config")

	return &cmd
}

func (c *showCmd) run(_ *cobra.Command, args []string) {
	conf := mustFindConfig()
	mustPrepareConfig(conf)

	if c.config {
		stdout.Printf("# %s\n", conf.FilePath())
		stdout.Printf("%s", conf)
		return
	}

	project := conf.Job.Name
	if len(args) == 1 {
		project = args[0]
	}

	storer := mustHaveStorage(conf)
	defer storer.Close()

	if c.history {
		c.showHistory(storer, project)
		return
	}

	desc, err := storer.LatestDescription(ctx, project)
	if errors.Is(err, storage.ErrNotExist) {
		stderr.Printf("no description stored for project %s\n", term.Highlight(project))
		exitFunc(exitCodeNotExist)
		return
	}
	exitOnErr(err)

	if c.format.Value() == flag.FormatJSON {
		c.printDescriptions([]*storage.DescriptionWithID{desc})
		return
	}

	stdout.Printf("%s", desc.Content)
	if !strings.HasSuffix(desc.Content, "\n") {
		stdout.Println()
	}
}

func (c *showCmd) showHistory(storer storage.Storer, project string) {
	descs, err := storer.Descriptions(ctx, project, c.limit)
	if errors.Is(err, storage.ErrNotExist) {
		stderr.Printf("no descriptions stored for project %s\n", term.Highlight(project))
		exitFunc(exitCodeNotExist)
		return
	}
	exitOnErr(err)

	c.printDescriptions(descs)
}

func (c *showCmd) printDescriptions(descs []*storage.DescriptionWithID) {
	var formatter format.Formatter

	if c.format.Value() == flag.FormatJSON {
		formatter = jsonformat.New([]string{"ID", "Build", "BuildID", "Result", "Created", "Description"}, stdout)
	} else {
		formatter = table.New([]string{"Id", "Build", "Result", "Created", "Description"}, stdout)
	}

	for _, d := range descs {
		var err error

		if c.format.Value() == flag.FormatJSON {
			err = formatter.WriteRow(d.ID, d.BuildNumber, d.BuildID, d.BuildResult, d.CreatedAt, d.Content)
		} else {
			err = formatter.WriteRow(
				d.ID,
				d.BuildNumber,
				d.BuildResult,
				d.CreatedAt.Local().Format(term.TimeFormat),
				term.FirstLine(d.Content),
			)
		}

		exitOnErr(err)
	}

	exitOnErr(formatter.Flush())
}
