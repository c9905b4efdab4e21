package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssematimba/worklogr/internal/worklog"
)

func sampleResponse() *worklog.Response {
	entry := worklog.Entry{
		IssueKey:         "OPS-1",
		Author:           "ann@example.com",
		TimeSpentSeconds: 3661,
		Started:          "2024-01-05",
		Created:          "2024-01-07",
	}
	return &worklog.Response{
		Users: []worklog.UserReport{
			{
				User:         "ann@example.com",
				TotalSeconds: 3661,
				TotalHours:   "1.02",
				Worklogs:     []worklog.Entry{entry},
				Issues: []worklog.IssueReport{
					{Key: "OPS-1", Summary: "api work", Worklogs: []worklog.Entry{entry}},
				},
			},
		},
		IssuesScanned: 2,
		Degraded:      1,
	}
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	require.NoError(t, e.ExportJSON(sampleResponse(), "out.json"))

	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)

	var got worklog.Response
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Users, 1)
	assert.Equal(t, "1.02", got.Users[0].TotalHours)
	assert.Equal(t, 1, got.Degraded)
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir)

	require.NoError(t, e.ExportCSV(sampleResponse(), "ts", "2024-01-01", "2024-01-31"))

	entriesFile, err := os.Open(filepath.Join(dir, "worklogs_ts_entries.csv"))
	require.NoError(t, err)
	defer entriesFile.Close()

	rows, err := csv.NewReader(entriesFile).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "User", rows[0][1])
	assert.Equal(t, []string{"1", "ann@example.com", "OPS-1", "api work", "2024-01-05", "2024-01-07", "1.02"}, rows[1])

	summaryFile, err := os.Open(filepath.Join(dir, "worklogs_ts_summary.csv"))
	require.NoError(t, err)
	defer summaryFile.Close()

	reader := csv.NewReader(summaryFile)
	reader.FieldsPerRecord = -1
	summary, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Date From:", "2024-01-01"}, summary[0])
	assert.Equal(t, []string{"ann@example.com", "1.02", "1", "1"}, summary[4])
	assert.Equal(t, "Total", summary[5][0])
	// Degraded issues surface as a trailing note.
	assert.Contains(t, summary[6][0], "unavailable worklogs: 1")
}

func TestExportExcel(t *testing.T) {
	dir := t.TempDir()
	e := NewExcelExporter(dir)

	require.NoError(t, e.Export(sampleResponse(), "ts", "2024-01-01", "2024-01-31"))

	_, err := os.Stat(filepath.Join(dir, "worklogs_ts.xlsx"))
	assert.NoError(t, err)
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "a-b", sanitizeSheetName("a/b"))
	assert.Equal(t, "(x)", sanitizeSheetName("[x]"))

	long := sanitizeSheetName("someone.with.a.very.long.address@example.com")
	assert.Len(t, long, 31)
}
