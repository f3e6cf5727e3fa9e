package command

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/simplesurance/descpub/internal/command/flag"
	"github.com/simplesurance/descpub/internal/command/term"
	"github.com/simplesurance/descpub/internal/format"
	"github.com/simplesurance/descpub/internal/format/jsonformat"
	"github.com/simplesurance/descpub/internal/format/table"
	"github.com/simplesurance/descpub/pkg/tokenmacro"
)

const tokensLongHelp = `
Lists the macros that can be referenced in the description file path and in
the description.

References have the format $NAME, ${NAME} or ${NAME,arg="value",n=3},
$$ is replaced by a single $. Names that are not macros are looked up in the
build environment.
`

func init() {
	rootCmd.AddCommand(&newTokensCmd().Command)
}

type tokensCmd struct {
	cobra.Command

	format *flag.OneOf
}

func newTokensCmd() *tokensCmd {
	cmd := tokensCmd{
		Command: cobra.Command{
			Use:               "tokens",
			Short:             "list available macros",
			Long:              strings.TrimSpace(tokensLongHelp),
			Args:              cobra.NoArgs,
			ValidArgsFunction: cobra.NoFileCompletions,
		},
		format: flag.NewFormatFlag(),
	}

	cmd.Run = cmd.run
	cmd.Flags().Var(cmd.format, cmd.format.Name(), cmd.format.Usage(term.Highlight))

	if err := cmd.format.RegisterFlagCompletion(&cmd.Command); err != nil {
		panic(err)
	}

	return &cmd
}

func (c *tokensCmd) run(_ *cobra.Command, _ []string) {
	var formatter format.Formatter

	if c.format.Value() == flag.FormatJSON {
		formatter = jsonformat.New([]string{"Name", "Description"}, stdout)
	} else {
		formatter = table.New([]string{"Name", "Description"}, stdout)
	}

	reg := tokenmacro.Default()
	for _, name := range reg.Names() {
		desc, _ := reg.Description(name)
		exitOnErr(formatter.WriteRow(name, desc))
	}

	exitOnErr(formatter.Flush())
}
