package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ssematimba/worklogr/internal/worklog"
)

type Exporter struct {
	OutputDir string
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{OutputDir: outputDir}
}

func (e *Exporter) ExportJSON(resp *worklog.Response, filename string) error {
	data, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(e.OutputDir, filename), data, 0644)
}

// ExportCSV writes two files: a flat entry list and a per-user summary
// dashboard.
func (e *Exporter) ExportCSV(resp *worklog.Response, timestamp, from, to string) error {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := e.exportEntries(resp, timestamp); err != nil {
		return fmt.Errorf("failed to export entry list: %w", err)
	}

	if err := e.exportSummary(resp, timestamp, from, to); err != nil {
		return fmt.Errorf("failed to export summary: %w", err)
	}

	return nil
}

func (e *Exporter) exportEntries(resp *worklog.Response, timestamp string) error {
	filename := filepath.Join(e.OutputDir, fmt.Sprintf("worklogs_%s_entries.csv", timestamp))
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"#",
		"User",
		"Issue Key",
		"Issue Summary",
		"Date Performed",
		"Date Recorded",
		"Hours",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	n := 0
	for _, user := range resp.Users {
		for _, issue := range user.Issues {
			for _, entry := range issue.Worklogs {
				n++
				row := []string{
					fmt.Sprintf("%d", n),
					user.User,
					issue.Key,
					issue.Summary,
					entry.Started,
					entry.Created,
					worklog.FormatHours(entry.TimeSpentSeconds),
				}
				if err := writer.Write(row); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (e *Exporter) exportSummary(resp *worklog.Response, timestamp, from, to string) error {
	filename := filepath.Join(e.OutputDir, fmt.Sprintf("worklogs_%s_summary.csv", timestamp))
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Date From:", from}); err != nil {
		return err
	}
	if err := writer.Write([]string{"Date to:", to}); err != nil {
		return err
	}
	if err := writer.Write([]string{""}); err != nil {
		return err
	}

	header := []string{"User", "Total Hours", "Issues", "Entries"}
	if err := writer.Write(header); err != nil {
		return err
	}

	totalSeconds := 0
	for _, user := range resp.Users {
		row := []string{
			user.User,
			user.TotalHours,
			fmt.Sprintf("%d", len(user.Issues)),
			fmt.Sprintf("%d", len(user.Worklogs)),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
		totalSeconds += user.TotalSeconds
	}

	totalsRow := []string{"Total", worklog.FormatHours(totalSeconds), "", ""}
	if err := writer.Write(totalsRow); err != nil {
		return err
	}

	if resp.Degraded > 0 {
		note := []string{fmt.Sprintf("Issues with unavailable worklogs: %d", resp.Degraded)}
		if err := writer.Write(note); err != nil {
			return err
		}
	}

	return nil
}
