package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSnapshot = `{
  "departments": [{"id": "A", "title": "Accounting"}, {"id": "B", "title": "Banking"}],
  "persons": [{"id": "u1", "departmentIds": ["A"]}, {"id": "u2", "departmentIds": ["B"]}],
  "projects": [{"id": "P1", "participants": [
    {"personId": "u1", "isInternal": true, "share": 0.5},
    {"personId": "u2", "isInternal": true, "share": 0.5}]}],
  "publications": [
    {"id": "o1", "title": "Ledger methods", "projectIds": ["P1"], "level": "international",
     "standards": {"isScopus": true, "scopusQuartile": 1}, "periodStart": "2020-03-01"},
    {"id": "o2", "projectIds": ["P404"], "level": "national"}]
}`

func setupCmdTest(t *testing.T) (dir string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "graph.json"), []byte(testSnapshot), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icreport.yaml"), []byte("report:\n  start_year: 2019\n  end_year: 2024\n"), 0o644))
	reportOpts.from, reportOpts.to = 0, 0
	reportOpts.department = ""
	reportOpts.kinds = nil
	reportOpts.csvPath = ""
	reportOpts.items = false
	reportOpts.dump = false
	source, input = sourceFile, ""
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(dir, "icreport.yaml"), "--input", filepath.Join(dir, "graph.json")))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestReportCommand(t *testing.T) {
	dir := setupCmdTest(t)
	csvPath := filepath.Join(dir, "out.csv")

	out, err := run(t, dir, "report", "standards_single", "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Accounting")
	assert.Contains(t, out, "Banking")
	assert.Contains(t, out, "outputs 2, counted 1")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Department,"))
	assert.True(t, strings.HasPrefix(lines[1], "Accounting,"))
	assert.True(t, strings.HasPrefix(lines[3], "Total,"))
}

func TestReportCommandDetailItems(t *testing.T) {
	dir := setupCmdTest(t)
	out, err := run(t, dir, "report", "publication_detail", "--items", "--department", "A")
	require.NoError(t, err)
	assert.Contains(t, out, "Ledger methods")
	assert.NotContains(t, out, "Banking")
}

func TestReportCommandRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown variant", []string{"report", "nope"}},
		{"inverted window", []string{"report", "impact", "--from", "2024", "--to", "2019"}},
		{"unknown kind", []string{"report", "impact", "--kinds", "poster"}},
		{"unknown source", []string{"report", "impact", "--source", "ftp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupCmdTest(t)
			_, err := run(t, dir, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestVariantsCommand(t *testing.T) {
	dir := setupCmdTest(t)
	out, err := run(t, dir, "variants")
	require.NoError(t, err)
	for _, name := range []string{"membership", "impact", "standards_multi", "standards_single", "publication_detail", "conference_detail"} {
		assert.Contains(t, out, name)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := setupCmdTest(t)
	out, err := run(t, dir, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "publications o2: unknown project P404")
	assert.Contains(t, out, "1 issues")
}
