package services

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"time"

	"crew_shift_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// scheduleWeek is the assembled export view: one row per employee,
// seven day columns.
type scheduleWeek struct {
	Start time.Time
	Days  [7]time.Time
	Rows  []scheduleRow
}

type scheduleRow struct {
	UserName string
	Cells    [7][]models.ShiftAssignment
}

func buildScheduleWeek(dbConn *gorm.DB, companyID string, weekStart time.Time) (*scheduleWeek, error) {
	start := NormalizeDate(weekStart)
	end := start.AddDate(0, 0, 6)

	assignments, err := GetScheduleRange(dbConn, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule range: %w", err)
	}

	week := &scheduleWeek{Start: start}
	for i := 0; i < 7; i++ {
		week.Days[i] = start.AddDate(0, 0, i)
	}

	byUser := make(map[string]*scheduleRow)
	for _, a := range assignments {
		row, ok := byUser[a.UserID]
		if !ok {
			row = &scheduleRow{UserName: a.UserName}
			byUser[a.UserID] = row
		}
		dayIdx := int(NormalizeDate(a.Date).Sub(start).Hours() / 24)
		if dayIdx < 0 || dayIdx > 6 {
			continue
		}
		row.Cells[dayIdx] = append(row.Cells[dayIdx], a)
	}

	for _, row := range byUser {
		week.Rows = append(week.Rows, *row)
	}
	sort.Slice(week.Rows, func(i, j int) bool {
		return week.Rows[i].UserName < week.Rows[j].UserName
	})

	return week, nil
}

// ExportScheduleExcel renders one week of the company schedule as an
// xlsx workbook: employees down, days across.
func ExportScheduleExcel(dbConn *gorm.DB, companyID, companyName string, weekStart time.Time) (*bytes.Buffer, error) {
	week, err := buildScheduleWeek(dbConn, companyID, weekStart)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Schedule"
	f.SetSheetName("Sheet1", sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}})

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s — week of %s", companyName, week.Start.Format("Jan 2, 2006")))
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	// Header row: employee column then one column per day
	f.SetCellValue(sheet, "A3", "Employee")
	for i, day := range week.Days {
		cell, _ := excelize.CoordinatesToCellName(i+2, 3)
		f.SetCellValue(sheet, cell, day.Format("Mon Jan 2"))
	}
	lastHeader, _ := excelize.CoordinatesToCellName(8, 3)
	f.SetCellStyle(sheet, "A3", lastHeader, headerStyle)

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "H", 20)

	for rowIdx, row := range week.Rows {
		excelRow := rowIdx + 4
		nameCell, _ := excelize.CoordinatesToCellName(1, excelRow)
		f.SetCellValue(sheet, nameCell, row.UserName)

		for dayIdx, cellAssignments := range row.Cells {
			if len(cellAssignments) == 0 {
				continue
			}
			var text string
			for k, a := range cellAssignments {
				if k > 0 {
					text += "\n"
				}
				text += fmt.Sprintf("%s-%s %s", a.StartTime, a.EndTime, a.LocationName)
			}
			cell, _ := excelize.CoordinatesToCellName(dayIdx+2, excelRow)
			f.SetCellValue(sheet, cell, text)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

var schedulePDFTemplate = template.Must(template.New("schedule_pdf").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 10px; }
  h1 { font-size: 16px; margin-bottom: 4px; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border: 1px solid #999; padding: 4px 6px; text-align: left; vertical-align: top; }
  th { background: #eee; }
  .shift { white-space: nowrap; }
</style>
</head>
<body>
<h1>{{.CompanyName}} — week of {{.WeekStart}}</h1>
<table>
  <tr>
    <th>Employee</th>
    {{range .Days}}<th>{{.}}</th>{{end}}
  </tr>
  {{range .Rows}}
  <tr>
    <td>{{.UserName}}</td>
    {{range .Cells}}<td>{{range .}}<div class="shift">{{.}}</div>{{end}}</td>{{end}}
  </tr>
  {{end}}
</table>
</body>
</html>`))

type schedulePDFData struct {
	CompanyName string
	WeekStart   string
	Days        []string
	Rows        []schedulePDFRow
}

type schedulePDFRow struct {
	UserName string
	Cells    [][]string
}

// ExportSchedulePDF renders one week of the company schedule as a PDF
// via headless Chrome.
func ExportSchedulePDF(dbConn *gorm.DB, companyID, companyName string, weekStart time.Time) ([]byte, error) {
	week, err := buildScheduleWeek(dbConn, companyID, weekStart)
	if err != nil {
		return nil, err
	}

	data := schedulePDFData{
		CompanyName: companyName,
		WeekStart:   week.Start.Format("Jan 2, 2006"),
	}
	for _, day := range week.Days {
		data.Days = append(data.Days, day.Format("Mon Jan 2"))
	}
	for _, row := range week.Rows {
		pdfRow := schedulePDFRow{UserName: row.UserName, Cells: make([][]string, 7)}
		for dayIdx, cellAssignments := range row.Cells {
			for _, a := range cellAssignments {
				pdfRow.Cells[dayIdx] = append(pdfRow.Cells[dayIdx],
					fmt.Sprintf("%s-%s %s", a.StartTime, a.EndTime, a.LocationName))
			}
		}
		data.Rows = append(data.Rows, pdfRow)
	}

	var html bytes.Buffer
	if err := schedulePDFTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render schedule HTML: %w", err)
	}

	return GeneratePDF(html.String(), SchedulePDFOptions())
}
