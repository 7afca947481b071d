package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	caselawtypes "github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommandHelp(t *testing.T) {
	stdout, _, err := runCommand(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "lexmeta")
	assert.Contains(t, stdout, "extract")
	assert.Contains(t, stdout, "batch")
	assert.Contains(t, stdout, "watch")
	assert.Contains(t, stdout, "migrate")
}

func TestRootCommandVersion(t *testing.T) {
	stdout, _, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestExtractWithoutArgumentRunsDemo(t *testing.T) {
	stdout, _, err := runCommand(t, "extract")
	require.NoError(t, err)

	var meta caselawtypes.CaseMetadata
	require.NoError(t, json.Unmarshal([]byte(stdout), &meta))
	assert.Equal(t, "ROE v. WADE", meta.CaseName)
	assert.Equal(t, "410 U.S. 113", meta.Citation)
}

func TestExtractCommandOnOpinionFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/smith.txt"
	text := "SMITH v. JONES\n550 U.S. 544\nIN THE SUPREME COURT OF THE UNITED STATES\n"
	require.NoError(t, writeTestFile(path, text))

	stdout, _, err := runCommand(t, "extract", path)
	require.NoError(t, err)

	var meta caselawtypes.CaseMetadata
	require.NoError(t, json.Unmarshal([]byte(stdout), &meta))
	assert.NotEmpty(t, meta.Citation)
}

func TestExtractCommandMissingFile(t *testing.T) {
	_, _, err := runCommand(t, "extract", "/no/such/opinion.txt")
	assert.Error(t, err)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeTestFile(dir+"/a.txt", "SMITH v. JONES\n550 U.S. 544\n"))
	require.NoError(t, writeTestFile(dir+"/b.txt", "DOE v. ROE\n410 U.S. 113\n"))

	stdout, _, err := runCommand(t, "batch", dir)
	require.NoError(t, err)

	var out BatchOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, 2, out.Total)
	assert.Len(t, out.Results, 2)
}

func TestBatchCommandTableOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeTestFile(dir+"/a.txt", "SMITH v. JONES\n550 U.S. 544\n"))

	stdout, _, err := runCommand(t, "batch", dir, "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CASE NAME")
	assert.Contains(t, stdout, "SMITH v. JONES")
}

func TestFormatTable(t *testing.T) {
	out := FormatTable(
		[]string{"ID", "NAME"},
		[][]string{{"1", "Smith v. Jones"}, {"2", "Doe"}},
	)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Smith v. Jones")
	assert.Contains(t, out, "--")

	assert.Empty(t, FormatTable(nil, nil))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcd", padRight("abcd", 3))
}
