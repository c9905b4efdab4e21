package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ssematimba/worklogr/internal/worklog"
)

type ExcelExporter struct {
	OutputDir string
}

func NewExcelExporter(outputDir string) *ExcelExporter {
	return &ExcelExporter{OutputDir: outputDir}
}

func (e *ExcelExporter) Export(resp *worklog.Response, timestamp, from, to string) error {
	filename := filepath.Join(e.OutputDir, fmt.Sprintf("worklogs_%s.xlsx", timestamp))

	f := excelize.NewFile()
	defer f.Close()

	if err := e.createDashboardSheet(f, "Dashboard", resp, from, to); err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}

	for _, user := range resp.Users {
		sheetName := sanitizeSheetName(user.User)
		if err := e.createUserSheet(f, sheetName, user); err != nil {
			return fmt.Errorf("failed to create sheet for %s: %w", user.User, err)
		}
	}

	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}

	return nil
}

func (e *ExcelExporter) createDashboardSheet(f *excelize.File, sheetName string, resp *worklog.Response, from, to string) error {
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})

	totalStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#B4C7E7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, "A1", "Date From:")
	f.SetCellValue(sheetName, "B1", from)
	f.SetCellValue(sheetName, "A2", "Date to:")
	f.SetCellValue(sheetName, "B2", to)
	f.SetCellValue(sheetName, "A3", "Issues scanned:")
	f.SetCellValue(sheetName, "B3", resp.IssuesScanned)
	if resp.Degraded > 0 {
		f.SetCellValue(sheetName, "C3", fmt.Sprintf("(%d with unavailable worklogs)", resp.Degraded))
	}

	titleCaser := cases.Title(language.English)

	headers := []string{"User", "Total Hours", "Issues", "Entries"}
	row := 5
	for col, header := range headers {
		cell := cellName(col+1, row)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	totalSeconds := 0
	for _, user := range resp.Users {
		row++
		f.SetCellValue(sheetName, cellName(1, row), displayName(titleCaser, user.User))
		f.SetCellValue(sheetName, cellName(2, row), user.TotalHours)
		f.SetCellValue(sheetName, cellName(3, row), len(user.Issues))
		f.SetCellValue(sheetName, cellName(4, row), len(user.Worklogs))
		totalSeconds += user.TotalSeconds
	}

	row++
	f.SetCellValue(sheetName, cellName(1, row), "Total")
	f.SetCellValue(sheetName, cellName(2, row), worklog.FormatHours(totalSeconds))
	f.SetCellStyle(sheetName, cellName(1, row), cellName(4, row), totalStyle)

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "D", 15)

	return nil
}

func (e *ExcelExporter) createUserSheet(f *excelize.File, sheetName string, user worklog.UserReport) error {
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})

	headers := []string{
		"#",
		"Issue Key",
		"Issue Summary",
		"Date Performed",
		"Date Recorded",
		"Hours",
	}

	for col, header := range headers {
		cell := cellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 1
	n := 0
	for _, issue := range user.Issues {
		for _, entry := range issue.Worklogs {
			row++
			n++
			f.SetCellValue(sheetName, cellName(1, row), n)
			f.SetCellValue(sheetName, cellName(2, row), issue.Key)
			f.SetCellValue(sheetName, cellName(3, row), issue.Summary)
			f.SetCellValue(sheetName, cellName(4, row), entry.Started)
			f.SetCellValue(sheetName, cellName(5, row), entry.Created)
			f.SetCellValue(sheetName, cellName(6, row), worklog.FormatHours(entry.TimeSpentSeconds))
		}
	}

	row++
	f.SetCellValue(sheetName, cellName(5, row), "Total")
	f.SetCellValue(sheetName, cellName(6, row), user.TotalHours)

	f.SetColWidth(sheetName, "A", "A", 5)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 40)
	f.SetColWidth(sheetName, "D", "F", 15)

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

// displayName title-cases users identified by a bare name; emails stay as-is.
func displayName(caser cases.Caser, user string) string {
	if strings.Contains(user, "@") {
		return user
	}
	return caser.String(user)
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

func sanitizeSheetName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, "?", "")
	name = strings.ReplaceAll(name, "*", "")
	name = strings.ReplaceAll(name, "[", "(")
	name = strings.ReplaceAll(name, "]", ")")

	if len(name) > 31 {
		name = name[:31]
	}

	return name
}
