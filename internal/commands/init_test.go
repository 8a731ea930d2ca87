package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finad-dev/finad/internal/store"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "finad-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "finad")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/finad")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runFinad(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "FINAD_PASSWORD=")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinad(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	expectedDirs := []string{
		"books",
		"logs",
		"exports",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinad(t, "init", dir, "--name", "My Company", "--opening-balance", "750000")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "finad.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: My Company")
	assert.Contains(t, contents, `opening_balance: "750000"`)
}

func TestInit_Books(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinad(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	snap, err := store.Load(dir)
	require.NoError(t, err)
	assert.Len(t, snap.Departments, 5, "a new workspace has five departments")
	assert.Empty(t, snap.Expenses)
	assert.Empty(t, snap.Ledger)
	assert.Equal(t, "500000.00", snap.OpeningBalance.StringFixed(2))
}

func TestInit_GitRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinad(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	// .git directory should exist.
	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	// git log should have an init commit.
	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init:")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "FinAd <books@finad.dev>")
}

func TestInit_NoGit(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinad(t, "init", dir, "--name", "Test Biz", "--no-git")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinad(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	contents := string(data)

	for _, pattern := range []string{"exports/", "import/processed/"} {
		assert.Contains(t, contents, pattern, ".gitignore should contain %s", pattern)
	}
}

func TestInit_RequiresName(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinad(t, "init", dir)
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RefusesExistingBooks(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinad(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	out, err := runFinad(t, "init", dir, "--name", "Other")
	require.Error(t, err)
	assert.Contains(t, out, "already holds finad books")
}
