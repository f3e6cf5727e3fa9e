package command

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simplesurance/descpub/internal/command/flag"
	"github.com/simplesurance/descpub/internal/command/term"
	"github.com/simplesurance/descpub/internal/log"
	"github.com/simplesurance/descpub/internal/prettyprint"
	"github.com/simplesurance/descpub/pkg/build"
	"github.com/simplesurance/descpub/pkg/cfg"
	"github.com/simplesurance/descpub/pkg/host"
	"github.com/simplesurance/descpub/pkg/publisher"
	"github.com/simplesurance/descpub/pkg/storage"
)

const publishLongHelp = `
Sets the project description from the description file of an existing
workspace, without running the job.

Settings that are passed as flags override the values of the configuration
file. If no configuration file exists, the project name must be passed
with --job and the description file with --file.

If no build number is passed, the next build number is allocated from the
database, if none is configured 1 is used.
`

const publishExample = `
descpub publish --job web --workspace ./out --file 'desc-${BUILD_NUMBER}.txt' --number 12
descpub publish --dry-run                        print the description without storing it
`

func init() {
	rootCmd.AddCommand(&newPublishCmd().Command)
}

type publishCmd struct {
	cobra.Command

	workspaceDir  string
	file          string
	charset       string
	disableTokens bool
	jobName       string
	number        int
	envVars       []string
	result        *flag.OneOf
	dryRun        bool
}

func newPublishCmd() *publishCmd {
	cmd := publishCmd{
		Command: cobra.Command{
			Use:               "publish",
			Short:             "set the project description from a workspace",
			Long:              strings.TrimSpace(publishLongHelp),
			Example:           strings.TrimSpace(publishExample),
			Args:              cobra.NoArgs,
			ValidArgsFunction: cobra.NoFileCompletions,
		},
		result: flag.NewOneOfFlag(
			"result", "success", "result of the build",
			"success", "failure", "aborted",
		),
	}

	cmd.Run = cmd.run

	cmd.Flags().StringVarP(&cmd.workspaceDir, "workspace", "w", "",
		"directory of a local workspace, overrides the configured workspace")
	cmd.Flags().StringVarP(&cmd.file, "file", "f", "",
		"path of the description file, relative to the workspace")
	cmd.Flags().StringVar(&cmd.charset, "charset", "",
		"encoding of the description file")
	cmd.Flags().BoolVar(&cmd.disableTokens, "disable-tokens", false,
		"do not expand macro references in the description")
	cmd.Flags().StringVarP(&cmd.jobName, "job", "j", "",
		"name of the project")
	cmd.Flags().IntVarP(&cmd.number, "number", "n", 0,
		"build number")
	cmd.Flags().StringArrayVarP(&cmd.envVars, "env", "e", nil,
		"set a build environment variable, format: KEY=VALUE")
	cmd.Flags().Var(cmd.result, cmd.result.Name(), cmd.result.Usage(term.Highlight))
	cmd.Flags().BoolVar(&cmd.dryRun, "dry-run", false,
		"print the description instead of storing it")

	if err := cmd.result.RegisterFlagCompletion(&cmd.Command); err != nil {
		panic(err)
	}

	return &cmd
}

func (c *publishCmd) loadConfig() *cfg.Config {
	conf, err := findConfig()
	if err == nil {
		return conf
	}

	if !errors.Is(err, os.ErrNotExist) {
		exitOnErr(err)
	}

	if c.jobName == "" {
		stderr.Printf("could not find %s configuration file.\n"+
			"Pass the project name with --%s or run '%s' to create one.\n",
			term.Highlight(cfg.FileName), "job", term.Highlight(cmdInit))
		exitFunc(exitCodeError)
		return nil
	}

	log.Debugf("%s not found, using defaults", cfg.FileName)

	return &cfg.Config{ConfigVersion: cfg.Version}
}

func (c *publishCmd) applyFlags(conf *cfg.Config) {
	if c.jobName != "" {
		conf.Job.Name = c.jobName
	}

	if c.workspaceDir != "" {
		conf.Workspace = cfg.Workspace{Type: cfg.WorkspaceLocal, Path: c.workspaceDir}
	}

	if c.file != "" {
		conf.Publisher.DescriptionFile = c.file
	}

	if c.charset != "" {
		conf.Publisher.Charset = c.charset
	}

	if c.disableTokens {
		conf.Publisher.DisableTokens = true
	}
}

func (c *publishCmd) run(_ *cobra.Command, _ []string) {
	conf := c.loadConfig()
	c.applyFlags(conf)
	mustPrepareConfig(conf)

	env, err := parseEnvVars(c.envVars)
	exitOnErr(err)

	var storer storage.Storer
	var sinks []host.Sink
	if !c.dryRun {
		storer = mustNewCompatibleStorage(conf)
		if storer != nil {
			defer storer.Close()
		}

		sinks = mustNewSinks(conf, storer)
	}

	ws, closeWs := mustNewWorkspace(conf)
	defer closeWs()

	pub, err := publisher.New(publisherConfig(conf), host.New(nil, sinks...))
	exitOnErr(err)

	number := c.number
	if number == 0 {
		number = 1

		if storer != nil {
			number, err = storer.NextBuildNumber(ctx, conf.Job.Name)
			exitOnErr(err, "allocating build number failed")
		}
	}

	b := build.New(build.NewProject(conf.Job.Name), number)
	b.Workspace = ws
	b.Console = build.NewConsole(stdout, term.Highlight(fmt.Sprintf("%s: ", b)))
	b.SetResult(build.Result(strings.ToUpper(c.result.Value())))
	for k, v := range env {
		b.Env[k] = v
	}

	outcome, err := pub.Publish(ctx, b)
	exitOnErr(err)

	if log.DebugEnabled() {
		log.Debugf("publish outcome: %s", prettyprint.AsString(outcome))
	}

	switch outcome.State {
	case publisher.StatePublished:
		if c.dryRun {
			stdout.Printf("%s", outcome.Description)
			return
		}

		stdout.BuildPrintf(b, "description set from %s: %s\n",
			term.Highlight(outcome.Path), term.FirstLine(outcome.Description))

	case publisher.StateSkipped:
		stdout.BuildPrintf(b, "%s, description not changed\n", term.YellowHighlight(outcome.Reason))

	default:
		fatal(fmt.Sprintf("publishing ended in unexpected state %s", outcome.State))
	}
}
