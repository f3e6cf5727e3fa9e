package command

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/simplesurance/descpub/internal/command/term"
	"github.com/simplesurance/descpub/internal/docker"
	"github.com/simplesurance/descpub/internal/filecopy"
	"github.com/simplesurance/descpub/internal/fs"
	"github.com/simplesurance/descpub/internal/log"
	"github.com/simplesurance/descpub/internal/s3"
	"github.com/simplesurance/descpub/internal/vcs/git"
	"github.com/simplesurance/descpub/pkg/cfg"
	"github.com/simplesurance/descpub/pkg/host"
	"github.com/simplesurance/descpub/pkg/publisher"
	"github.com/simplesurance/descpub/pkg/storage"
	"github.com/simplesurance/descpub/pkg/storage/postgres"
	"github.com/simplesurance/descpub/pkg/workspace"
)

// envVarPSQLURL contains the name of an environment variable in that the
// postgresql URL can be stored
const envVarPSQLURL = "DESCPUB_POSTGRESQL_URL"

func exitOnErr(err error, msg ...any) {
	if err == nil {
		return
	}

	if len(msg) == 0 {
		stderr.Printf("%s %s\n", term.RedHighlight("ERROR:"), err)
		exitFunc(exitCodeError)
		return
	}

	stderr.Printf("%s %s: %s\n", term.RedHighlight("ERROR:"), fmt.Sprint(msg...), err)
	exitFunc(exitCodeError)
}

func fatal(msg ...any) {
	stderr.Printf("%s %s\n", term.RedHighlight("ERROR:"), fmt.Sprint(msg...))
	exitFunc(exitCodeError)
}

// findConfig searches for the configuration file in the current working
// directory and its parents and loads it.
// If none is found an error wrapping os.ErrNotExist is returned.
func findConfig() (*cfg.Config, error) {
	log.Debugln("searching for configuration file...")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	path, err := fs.FindFileInParentDirs(cwd, cfg.FileName)
	if err != nil {
		return nil, err
	}

	log.Debugf("configuration file found: %s", path)

	return cfg.FromFile(path)
}

func mustFindConfig() *cfg.Config {
	conf, err := findConfig()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			stderr.Printf("could not find %s configuration file.\n"+
				"Run '%s' to create one.\n",
				term.Highlight(cfg.FileName), term.Highlight(cmdInit))
			exitFunc(exitCodeError)
			return nil
		}

		exitOnErr(err)
	}

	return conf
}

// mustPrepareConfig validates the configuration and resolves variables
// in its values.
func mustPrepareConfig(conf *cfg.Config) {
	src := conf.FilePath()
	if src == "" {
		src = "configuration"
	}

	err := conf.Validate()
	exitOnErr(err, src)

	err = conf.Resolve(conf.DefaultResolvers(func() (string, error) {
		return git.CommitID(ctx, conf.Dir())
	}))
	exitOnErr(err, src)
}

// psqlURL returns the PostgreSQL URL from the environment variable
// envVarPSQLURL, if it is not set the URL from the configuration.
func psqlURL(conf *cfg.Config) string {
	if envURL := os.Getenv(envVarPSQLURL); envURL != "" {
		log.Debugf("using postgresql connection URL from $%s environment variable", envVarPSQLURL)
		return envURL
	}

	log.Debugf("environment variable $%s not set", envVarPSQLURL)

	return conf.Storage.PGSQLURL
}

func newStorageClient(psqlURL string) (storage.Storer, error) {
	return postgres.New(ctx, psqlURL, log.StdLogger)
}

// mustNewCompatibleStorage returns a storage client for the configured
// database. If no database is configured, nil is returned.
func mustNewCompatibleStorage(conf *cfg.Config) storage.Storer {
	url := psqlURL(conf)
	if url == "" {
		log.Debugln("no PostgreSQL URL configured, descriptions are not stored")
		return nil
	}

	clt, err := newStorageClient(url)
	exitOnErr(err, "establishing connection to the PostgreSQL database failed")

	if err := clt.IsCompatible(ctx); err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			stderr.Printf("the database schema does not exist, run '%s' to create it\n",
				term.Highlight(cmdInitDb))
			exitFunc(exitCodeError)
			return nil
		}

		exitOnErr(err)
	}

	return clt
}

// mustHaveStorage is like mustNewCompatibleStorage but terminates when no
// database is configured.
func mustHaveStorage(conf *cfg.Config) storage.Storer {
	if psqlURL(conf) == "" {
		fatal(fmt.Sprintf("PostgreSQL connection information is missing.\n"+
			"- set postgresql_url in %s or\n"+
			"- set the $%s environment variable", cfg.FileName, envVarPSQLURL))
		return nil
	}

	return mustNewCompatibleStorage(conf)
}

// s3Client is created once per command invocation, it is shared by the S3
// workspace and the S3 sink.
var s3Client *s3.Client

func getS3Client() (*s3.Client, error) {
	if s3Client != nil {
		return s3Client, nil
	}

	clt, err := s3.NewClient(ctx, log.StdLogger)
	if err != nil {
		return nil, err
	}

	s3Client = clt

	return clt, nil
}

// newWorkspace creates the workspace that is configured in conf.
// The returned function releases its resources.
func newWorkspace(conf *cfg.Config) (workspace.Workspace, func(), error) {
	noop := func() {}

	switch conf.Workspace.Type {
	case cfg.WorkspaceLocal:
		ws, err := workspace.NewLocal(conf.WorkspaceDir())
		return ws, noop, err

	case cfg.WorkspaceS3:
		bucket, prefix, err := s3.ParseURL(conf.Workspace.URL)
		if err != nil {
			return nil, noop, err
		}

		clt, err := getS3Client()
		if err != nil {
			return nil, noop, fmt.Errorf("creating s3 client failed: %w", err)
		}

		return workspace.NewS3(clt, bucket, prefix), noop, nil

	case cfg.WorkspaceDocker:
		clt, err := docker.NewClient(log.StdLogger.Debugf)
		if err != nil {
			return nil, noop, fmt.Errorf("creating docker client failed: %w", err)
		}

		id, err := clt.ContainerID(ctx, conf.Workspace.Container)
		if err != nil {
			_ = clt.Close()
			return nil, noop, err
		}

		return workspace.NewDocker(clt, id, conf.Workspace.Path), func() { _ = clt.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unsupported workspace type %q", conf.Workspace.Type)
	}
}

func mustNewWorkspace(conf *cfg.Config) (workspace.Workspace, func()) {
	ws, closeFn, err := newWorkspace(conf)
	exitOnErr(err, "creating workspace failed")

	log.Debugf("using workspace %s", ws)

	return ws, closeFn
}

// mustNewSinks returns the destinations descriptions are stored in
// additionally to the project.
func mustNewSinks(conf *cfg.Config, storer storage.Storer) []host.Sink {
	var sinks []host.Sink

	if storer != nil {
		sinks = append(sinks, host.NewStorageSink(storer))
	}

	if conf.Sink.S3URL != "" {
		clt, err := getS3Client()
		exitOnErr(err, "creating s3 client failed")

		sink, err := host.NewS3Sink(clt, conf.Sink.S3URL)
		exitOnErr(err, "Sink.s3_url")

		sinks = append(sinks, sink)
	}

	if dir := conf.SinkDir(); dir != "" {
		sinks = append(sinks, host.NewFileSink(filecopy.New(log.StdLogger.Debugf), dir))
	}

	return sinks
}

func publisherConfig(conf *cfg.Config) publisher.Config {
	return publisher.Config{
		Charset:         conf.Publisher.Charset,
		DescriptionFile: conf.Publisher.DescriptionFile,
		DisableTokens:   conf.Publisher.DisableTokens,
	}
}

// parseEnvVars parses KEY=VALUE strings into a map.
func parseEnvVars(vars []string) (map[string]string, error) {
	res := make(map[string]string, len(vars))

	for _, kv := range vars {
		k, v, found := strings.Cut(kv, "=")
		if !found || k == "" {
			return nil, fmt.Errorf("invalid environment variable %q, format must be KEY=VALUE", kv)
		}

		res[k] = v
	}

	return res, nil
}
