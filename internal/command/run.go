package command

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/simplesurance/descpub/internal/command/term"
	"github.com/simplesurance/descpub/internal/log"
	"github.com/simplesurance/descpub/internal/prettyprint"
	"github.com/simplesurance/descpub/pkg/build"
	"github.com/simplesurance/descpub/pkg/cfg"
	"github.com/simplesurance/descpub/pkg/host"
	"github.com/simplesurance/descpub/pkg/publisher"
	"github.com/simplesurance/descpub/pkg/workspace"
)

const runLongHelp = `
Runs the job that is defined in the configuration file and sets the project
description from the description file afterwards.

Matrix jobs run one build per combination of axis values, each in its own
subdirectory of the workspace. The description is set once, from the
workspace of the matrix build, after all combinations finished.

If a PostgreSQL database is configured, build numbers are allocated from it
and descriptions are stored in it.

The command exits with code 3 if the build did not succeed.
`

const runExample = `
descpub run                           run the job of the configuration file
descpub run --env DEPLOY=production   run the job with an additional environment variable
`

const maxPrintedAxisValues = 8

func init() {
	rootCmd.AddCommand(&newRunCmd().Command)
}

type runCmd struct {
	cobra.Command

	envVars     []string
	parallelism uint
}

func newRunCmd() *runCmd {
	cmd := runCmd{
		Command: cobra.Command{
			Use:               "run",
			Short:             "run the configured job and publish the description",
			Long:              strings.TrimSpace(runLongHelp),
			Example:           strings.TrimSpace(runExample),
			Args:              cobra.NoArgs,
			ValidArgsFunction: cobra.NoFileCompletions,
		},
	}

	cmd.Run = cmd.run

	cmd.Flags().StringArrayVarP(&cmd.envVars, "env", "e", nil,
		"set an environment variable for the build steps, format: KEY=VALUE")
	cmd.Flags().UintVarP(&cmd.parallelism, "parallelism", "p", 0,
		"max. number of matrix combinations that are built in parallel,\noverrides the configuration value")

	return &cmd
}

func (c *runCmd) run(_ *cobra.Command, _ []string) {
	startTime := time.Now()

	conf := mustFindConfig()
	mustPrepareConfig(conf)

	env, err := parseEnvVars(c.envVars)
	exitOnErr(err)

	storer := mustNewCompatibleStorage(conf)
	if storer != nil {
		defer storer.Close()
	}

	ws, closeWs := mustNewWorkspace(conf)
	defer closeWs()

	pub, err := publisher.New(publisherConfig(conf), host.New(nil, mustNewSinks(conf, storer)...))
	exitOnErr(err)

	hooks := build.NewHooks()
	pub.Attach(hooks)

	opts := []build.Option{
		build.WithOutput(stdout),
		build.WithLogger(log.StdLogger),
	}
	if storer != nil {
		opts = append(opts, build.WithNumberSource(storer))
	}

	project := build.NewProject(conf.Job.Name)
	job := c.job(conf, ws, env)

	for _, axis := range job.Axes {
		stdout.Printf("matrix axis %s: %s\n",
			term.Highlight(axis.Name), prettyprint.TruncatedStrSlice(axis.Values, maxPrintedAxisValues))
	}

	b, err := build.NewRunner(hooks, opts...).Run(ctx, project, job)
	exitOnErr(err)

	stdout.PrintSep()
	stdout.Printf("build %s finished with result %s in %ss\n",
		term.Highlight(b.Name()),
		term.ColoredResult(b.Result()),
		term.DurationToStrSeconds(time.Since(startTime)),
	)

	if desc := project.Description(); desc != "" {
		stdout.Printf("description: %s\n", term.FirstLine(desc))
	}

	if b.Result() != build.ResultSuccess {
		if err := b.Err(); err != nil {
			stderr.Printf("%s %s\n", term.RedHighlight("ERROR:"), err)
		}

		exitFunc(exitCodeBuildFailed)
	}
}

func (c *runCmd) job(conf *cfg.Config, ws workspace.Workspace, env map[string]string) *build.Job {
	job := build.Job{
		Name:        conf.Job.Name,
		Steps:       conf.Job.Steps,
		Env:         make(map[string]string, len(conf.Job.Environment)+len(env)),
		Exclude:     conf.Job.Matrix.Exclude,
		Parallelism: conf.Job.Matrix.Parallelism,
		Workspace:   ws,
	}

	for k, v := range conf.Job.Environment {
		job.Env[k] = v
	}

	for k, v := range env {
		job.Env[k] = v
	}

	if c.parallelism != 0 {
		job.Parallelism = c.parallelism
	}

	for _, a := range conf.Job.Matrix.Axis {
		job.Axes = append(job.Axes, build.Axis{Name: a.Name, Values: a.Values})
	}

	return &job
}
