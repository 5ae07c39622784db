package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/identref/internal/config"
	"github.com/phobologic/identref/internal/lang"
	"github.com/phobologic/identref/internal/model"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func createSampleRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "src/main/java/UserAccount.java", `public class UserAccount extends BaseEntity {
    private String displayName;

    public UserAccount(String displayName) {
        this.displayName = displayName;
    }

    public String getDisplayName() {
        return displayName;
    }
}
`)
	writeTestFile(t, dir, "src/main/java/AccountService.java", `public class AccountService {
    public UserAccount findAccount(long accountId) {
        return null;
    }
}
`)
	writeTestFile(t, dir, "src/test/java/AccountServiceTest.java", `class AccountServiceTest {}
`)
	return dir
}

func TestRunWithConfigFile(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	out := filepath.Join(t.TempDir(), "out")

	cfgPath := filepath.Join(t.TempDir(), "config.java.json")
	writeTestFile(t, filepath.Dir(cfgPath), filepath.Base(cfgPath), `{
    "root_path": "`+filepath.ToSlash(dir)+`",
    "include_folders": ["src", "main", "test", "java"],
    "exclude_folders": ["test"],
    "output_directory": "`+filepath.ToSlash(out)+`",
    "language": "Java"
}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", cfgPath}, &stdout, &stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())

	data, err := os.ReadFile(filepath.Join(out, "index.java.json"))
	require.NoError(t, err)
	var idx model.Index
	require.NoError(t, json.Unmarshal(data, &idx))

	require.Len(t, idx, 2, "test folder is excluded")
	svc := idx["src/main/java/AccountService.java"]
	require.NotNil(t, svc)
	// AccountService is scanned first: account=1, service=2.
	assert.Equal(t, "^1^2", svc.Types[0].Name)
	assert.Equal(t, "~3^1", svc.Types[0].Methods[0].Name)

	user := idx["src/main/java/UserAccount.java"]
	require.NotNil(t, user)
	assert.Equal(t, svc.Types[0].Methods[0].ReturnType, user.Types[0].Name)

	combined, err := os.ReadFile(filepath.Join(out, "combined.java"))
	require.NoError(t, err)
	assert.Contains(t, string(combined), "// File: src/main/java/AccountService.java\npublic class AccountService {")
	assert.Contains(t, stderr.String(), "scan complete")
}

func TestRunFlagsAndSummary(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"--config", "",
		"--output", out,
		"--language", "java",
		"--include", "src,main,java,test",
		"--exclude", "test",
		"--write-references",
		"--summary",
		dir,
	}, &stdout, &stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())

	got := stdout.String()
	assert.True(t, strings.HasPrefix(got, "root: "+filepath.Base(dir)+"\nlanguage: java\n"), got)
	assert.Contains(t, got, "files[2]{path,start_line,types,methods,fields}:")
	assert.Contains(t, got, "outputs[3]{kind,path}:")
	assert.FileExists(t, filepath.Join(out, "references.java.json"))
}

func TestRunExplicitConfigMissing(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", filepath.Join(t.TempDir(), "missing.json")}, &stdout, &stderr)
	require.Error(t, err)
	var cerr *config.Error
	assert.True(t, errors.As(err, &cerr), "got %T: %v", err, err)
}

func TestRunDefaultConfigMissingWithoutRoot(t *testing.T) {
	t.Parallel()

	// The package directory has no config.json.
	_, statErr := os.Stat(defaultConfigFile)
	require.True(t, os.IsNotExist(statErr))

	var stdout, stderr bytes.Buffer
	err := run(nil, &stdout, &stderr)
	require.Error(t, err)
	var cerr *config.Error
	require.True(t, errors.As(err, &cerr), "got %T: %v", err, err)
	assert.Equal(t, defaultConfigFile, cerr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunParseErrorAborts(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	writeTestFile(t, dir, "src/main/java/Broken.java", "public class Broken {\n  void x( {\n")
	out := filepath.Join(t.TempDir(), "out")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", "", "--include", "src,main,java", "-o", out, dir}, &stdout, &stderr)
	require.Error(t, err)
	var pe *lang.ParseError
	assert.True(t, errors.As(err, &pe))
	assert.NoFileExists(t, filepath.Join(out, "index.java.json"))
}

func TestRunUnsupportedLanguage(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", "", "-l", "cobol", t.TempDir()}, &stdout, &stderr)
	require.Error(t, err)
	assert.True(t, errors.Is(err, lang.ErrUnsupported))
}

func TestRunBadLogLevel(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"--log-level", "loud", t.TempDir()}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--log-level")
}

func TestRunTooManyArgs(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"a", "b"}, &stdout, &stderr)
	require.Error(t, err)
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--version"}, &stdout, &stderr))
	assert.Equal(t, "identref dev\n", stdout.String())
}
