package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/descpub/internal/testutils/fstest"
	"github.com/simplesurance/descpub/pkg/cfg"
)

const standaloneCfg = `config_version = 1

[Publisher]
  description_file = "desc-${BUILD_NUMBER}.txt"

[Job]
  name = "web"
  steps = [
    ["sh", "-c", 'printf "Build ${BUILD_NUMBER} of ${JOB_NAME}: \${BUILD_RESULT}" > desc-${BUILD_NUMBER}.txt'],
  ]
`

func TestInitCreatesConfig(t *testing.T) {
	dir := initTest(t)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newInitCmd().Command, 0, "web")

	cfgPath := filepath.Join(dir, cfg.FileName)
	assert.Contains(t, stdoutBuf.String(), cfgPath)

	conf, err := cfg.FromFile(cfgPath)
	require.NoError(t, err)
	require.NoError(t, conf.Validate())
	assert.Equal(t, "web", conf.Job.Name)

	execCheck(t, &newInitCmd().Command, exitCodeAlreadyExist, "web")
}

func TestInitUsesDirectoryNameAsProjectName(t *testing.T) {
	dir := initTest(t)
	projectDir := filepath.Join(dir, "backend")
	require.NoError(t, os.Mkdir(projectDir, 0o755))
	require.NoError(t, os.Chdir(projectDir))

	execCheck(t, &newInitCmd().Command, 0, "--commented")

	content, err := os.ReadFile(filepath.Join(projectDir, cfg.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# config_version = 1")
	assert.Contains(t, string(content), "backend")
}

func TestInitRejectsInvalidProjectName(t *testing.T) {
	dir := initTest(t)

	execCheck(t, &newInitCmd().Command, exitCodeError, "a/b")
	assert.False(t, fileExists(t, filepath.Join(dir, cfg.FileName)))
}

func TestRunPublishesDescription(t *testing.T) {
	dir := initTest(t)
	writeConfig(t, dir, standaloneCfg)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newRunCmd().Command, 0)

	assert.FileExists(t, filepath.Join(dir, "desc-1.txt"))
	assert.Contains(t, stdoutBuf.String(), "description: Build 1 of web: SUCCESS")
	assert.Contains(t, stdoutBuf.String(), "setting description from desc-1.txt")
}

func TestRunFromSubdirectory(t *testing.T) {
	dir := initTest(t)
	writeConfig(t, dir, standaloneCfg)
	stdoutBuf, _ := interceptCmdOutput(t)

	subDir := filepath.Join(dir, "src", "pkg")
	require.NoError(t, os.MkdirAll(subDir, 0o755))
	require.NoError(t, os.Chdir(subDir))

	execCheck(t, &newRunCmd().Command, 0)

	assert.FileExists(t, filepath.Join(dir, "desc-1.txt"))
	assert.Contains(t, stdoutBuf.String(), "description: Build 1 of web")
}

func TestRunPassesEnvironment(t *testing.T) {
	dir := initTest(t)
	writeConfig(t, dir, `config_version = 1

[Publisher]
  description_file = "desc.txt"
  disable_tokens = true

[Job]
  name = "web"
  steps = [["sh", "-c", 'printf "$STAGE $TARGET" > desc.txt']]
  environment = { STAGE = "staging", TARGET = "eu" }
`)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newRunCmd().Command, 0, "--env", "TARGET=us")

	assert.Contains(t, stdoutBuf.String(), "description: staging us")
}

func TestRunMatrixPublishesOnce(t *testing.T) {
	dir := initTest(t)
	writeConfig(t, dir, `config_version = 1

[Publisher]
  description_file = "summary.txt"

[Job]
  name = "web"
  steps = [["sh", "-c", 'printf "$os" > member.txt']]

  [Job.Matrix]
    parallelism = 2
    exclude = ["os=windows"]

    [[Job.Matrix.Axis]]
      name = "os"
      values = ["linux", "darwin", "windows"]
`)
	fstest.WriteToFile(t, []byte("matrix build ${BUILD_NUMBER}: ${BUILD_RESULT}"), filepath.Join(dir, "summary.txt"))
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newRunCmd().Command, 0)

	for _, osName := range []string{"linux", "darwin"} {
		content, err := os.ReadFile(filepath.Join(dir, "os="+osName, "member.txt"))
		require.NoError(t, err)
		assert.Equal(t, osName, string(content))
	}
	assert.NoDirExists(t, filepath.Join(dir, "os=windows"))

	assert.Contains(t, stdoutBuf.String(), "description: matrix build 1: SUCCESS")
	assert.Equal(t, 1, strings.Count(stdoutBuf.String(), "setting description from summary.txt"))
}

func TestRunFailingStep(t *testing.T) {
	dir := initTest(t)
	writeConfig(t, dir, `config_version = 1

[Publisher]
  description_file = "desc.txt"

[Job]
  name = "web"
  steps = [["sh", "-c", 'printf "\${BUILD_RESULT}" > desc.txt; exit 1']]
`)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newRunCmd().Command, exitCodeBuildFailed)

	assert.Contains(t, stdoutBuf.String(), "description: FAILURE")
}

func TestRunWithoutConfig(t *testing.T) {
	initTest(t)
	_, stderrBuf := interceptCmdOutput(t)

	execCheck(t, &newRunCmd().Command, exitCodeError)
	assert.Contains(t, stderrBuf.String(), cfg.FileName)
}

func TestRunInvalidConfig(t *testing.T) {
	dir := initTest(t)
	writeConfig(t, dir, "config_version = 1\n[Publisher]\n  charset = \"EBCDIC-XY\"\n[Job]\n  name = \"web\"\n")
	_, stderrBuf := interceptCmdOutput(t)

	execCheck(t, &newRunCmd().Command, exitCodeError)
	assert.Contains(t, stderrBuf.String(), "Publisher.charset")
}

func TestPublishWithoutConfig(t *testing.T) {
	dir := initTest(t)
	wsDir := filepath.Join(dir, "ws")
	fstest.WriteToFile(t, []byte("Build $BUILD_NUMBER of ${JOB_NAME} (${BUILD_RESULT}) $$5"), filepath.Join(wsDir, "desc-7.txt"))
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newPublishCmd().Command, 0,
		"--job", "web",
		"--workspace", wsDir,
		"--file", "desc-${BUILD_NUMBER}.txt",
		"--number", "7",
		"--result", "FAILURE",
		"--dry-run",
	)

	assert.Contains(t, stdoutBuf.String(), "Build 7 of web (FAILURE) $5")
}

func TestPublishDisableTokens(t *testing.T) {
	dir := initTest(t)
	fstest.WriteToFile(t, []byte("Build ${BUILD_NUMBER}"), filepath.Join(dir, "desc.txt"))
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newPublishCmd().Command, 0,
		"--job", "web", "--file", "desc.txt", "--disable-tokens", "--dry-run",
	)

	assert.Contains(t, stdoutBuf.String(), "Build ${BUILD_NUMBER}")
}

func TestPublishCharset(t *testing.T) {
	dir := initTest(t)
	// "Größe" in ISO-8859-1
	fstest.WriteToFile(t, []byte{'G', 'r', 0xf6, 0xdf, 'e'}, filepath.Join(dir, "desc.txt"))
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newPublishCmd().Command, 0,
		"--job", "web", "--file", "desc.txt", "--charset", "latin1", "--dry-run",
	)

	assert.Contains(t, stdoutBuf.String(), "Größe")
}

func TestPublishUsesConfig(t *testing.T) {
	dir := initTest(t)
	writeConfig(t, dir, standaloneCfg)
	fstest.WriteToFile(t, []byte("released by ${JOB_NAME}"), filepath.Join(dir, "desc-1.txt"))
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newPublishCmd().Command, 0)

	assert.Contains(t, stdoutBuf.String(), "description set from")
	assert.Contains(t, stdoutBuf.String(), "released by web")
}

func TestPublishMissingFileIsSkipped(t *testing.T) {
	initTest(t)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newPublishCmd().Command, 0, "--job", "web", "--file", "missing.txt")

	assert.Contains(t, stdoutBuf.String(), "description file not found: missing.txt")
	assert.Contains(t, stdoutBuf.String(), "description not changed")
}

func TestPublishNoFileConfigured(t *testing.T) {
	initTest(t)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newPublishCmd().Command, 0, "--job", "web")

	assert.Contains(t, stdoutBuf.String(), "no description file configured")
}

func TestPublishErrors(t *testing.T) {
	testcases := []struct {
		name    string
		args    []string
		content string
	}{
		{
			name: "without job name",
			args: []string{"--file", "desc.txt"},
		},
		{
			name: "invalid charset",
			args: []string{"--job", "web", "--file", "desc.txt", "--charset", "no-such-charset"},
		},
		{
			name:    "unknown macro",
			args:    []string{"--job", "web", "--file", "desc.txt"},
			content: "${NO_SUCH_MACRO_OR_VAR}",
		},
		{
			name: "path escapes workspace",
			args: []string{"--job", "web", "--file", "../desc.txt"},
		},
		{
			name: "invalid env var",
			args: []string{"--job", "web", "--env", "NOVALUE"},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			dir := initTest(t)
			fstest.WriteToFile(t, []byte(tc.content), filepath.Join(dir, "desc.txt"))

			execCheck(t, &newPublishCmd().Command, exitCodeError, tc.args...)
		})
	}
}

func TestPublishInvalidResultFlag(t *testing.T) {
	initTest(t)

	cmd := newPublishCmd()
	cmd.SetArgs([]string{"--job", "web", "--result", "unstable"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	require.ErrorContains(t, cmd.Execute(), "result must be one of: aborted, failure, success")
}

func TestTokensListsMacros(t *testing.T) {
	initTest(t)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newTokensCmd().Command, 0)

	for _, name := range []string{"BUILD_NUMBER", "BUILD_RESULT", "ENV", "FILE", "GIT_COMMIT"} {
		assert.Contains(t, stdoutBuf.String(), name)
	}
}

func TestTokensJSON(t *testing.T) {
	initTest(t)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newTokensCmd().Command, 0, "--format", "json")

	var res []map[string]string
	require.NoError(t, json.Unmarshal(stdoutBuf.Bytes(), &res))
	require.NotEmpty(t, res)

	names := make([]string, 0, len(res))
	for _, e := range res {
		names = append(names, e["Name"])
		assert.NotEmpty(t, e["Description"])
	}
	assert.Contains(t, names, "BUILD_NUMBER")
	assert.IsIncreasing(t, names)
}

func TestShowConfig(t *testing.T) {
	dir := initTest(t)
	cfgPath := writeConfig(t, dir, standaloneCfg)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, &newShowCmd().Command, 0, "--config")

	out := stdoutBuf.String()
	assert.Contains(t, out, cfgPath)
	assert.Contains(t, out, "UTF-8")
	assert.Contains(t, out, "desc-${BUILD_NUMBER}.txt")
	assert.Contains(t, out, "local")
}

func TestShowWithoutDatabase(t *testing.T) {
	dir := initTest(t)
	writeConfig(t, dir, standaloneCfg)
	_, stderrBuf := interceptCmdOutput(t)

	execCheck(t, &newShowCmd().Command, exitCodeError)
	assert.Contains(t, stderrBuf.String(), envVarPSQLURL)
}

func TestRunWritesDescriptionToSinkDir(t *testing.T) {
	dir := initTest(t)
	writeConfig(t, dir, standaloneCfg+`
[Sink]
  dir = "{{ .root }}/published"
`)

	execCheck(t, &newRunCmd().Command, 0)

	content, err := os.ReadFile(filepath.Join(dir, "published", "web", "description.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Build 1 of web: SUCCESS", string(content))
}
