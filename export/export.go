// Package export renders an attendance roster as CSV, XLSX or PDF.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/attendance"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/reports"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, bool) {
	switch f := Format(s); f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, true
	}
	return "", false
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Filename is the download name for a roster over [from, to].
func (f Format) Filename(from, to string) string {
	return fmt.Sprintf("attendance_%s_%s.%s", from, to, f)
}

var summaryHeader = []string{"Employee ID", "Name", "Working Days", "Present", "Incomplete", "Absent", "Latest Status"}

var dailyHeader = []string{"Employee ID", "Name", "Date", "Status", "Check In", "Check Out", "Working Hours", "Check In Location", "Check Out Location"}

// Write renders roster in format f. Times are shown in loc.
func Write(f Format, w io.Writer, roster *reports.Roster, loc *time.Location) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, roster, loc)
	case FormatXLSX:
		return WriteXLSX(w, roster, loc)
	case FormatPDF:
		return WritePDF(w, roster, loc)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteCSV writes one line per employee and working day.
func WriteCSV(w io.Writer, roster *reports.Roster, loc *time.Location) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(dailyHeader); err != nil {
		return err
	}
	for _, row := range roster.Rows {
		for _, rec := range row.Summary.Records {
			if err := writer.Write(dailyLine(row, rec, loc)); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes a Summary sheet and a Daily sheet.
func WriteXLSX(w io.Writer, roster *reports.Roster, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := f.SetCellValue(summarySheet, "A1", fmt.Sprintf("Attendance %s to %s", roster.From, roster.To)); err != nil {
		return err
	}
	if err := writeRow(f, summarySheet, 3, toCells(summaryHeader), headerStyle); err != nil {
		return err
	}
	for i, row := range roster.Rows {
		cells := []interface{}{
			row.Employee.EmployeeID,
			row.Employee.Name,
			row.Summary.WorkingDays(),
			row.Summary.PresentDays,
			row.Summary.IncompleteDays,
			row.Summary.AbsentDays,
			latestLabel(row),
		}
		if err := writeRow(f, summarySheet, 4+i, cells, 0); err != nil {
			return err
		}
	}
	if err := setColWidths(f, summarySheet, colWidth{"A", "A", 14}, colWidth{"B", "B", 28}, colWidth{"C", "G", 14}); err != nil {
		return err
	}

	const dailySheet = "Daily"
	if _, err := f.NewSheet(dailySheet); err != nil {
		return err
	}
	if err := writeRow(f, dailySheet, 1, toCells(dailyHeader), headerStyle); err != nil {
		return err
	}
	line := 2
	for _, row := range roster.Rows {
		for _, rec := range row.Summary.Records {
			if err := writeRow(f, dailySheet, line, toCells(dailyLine(row, rec, loc)), 0); err != nil {
				return err
			}
			line++
		}
	}
	if err := setColWidths(f, dailySheet, colWidth{"A", "A", 14}, colWidth{"B", "B", 28}, colWidth{"C", "G", 14}, colWidth{"H", "I", 24}); err != nil {
		return err
	}

	return f.Write(w)
}

type colWidth struct {
	from, to string
	width    float64
}

func setColWidths(f *excelize.File, sheet string, widths ...colWidth) error {
	for _, c := range widths {
		if err := f.SetColWidth(sheet, c.from, c.to, c.width); err != nil {
			return fmt.Errorf("set width %s:%s on %s: %w", c.from, c.to, sheet, err)
		}
	}
	return nil
}

// WritePDF writes the summary table on A4 landscape. The core fonts only
// cover cp1252, so text is translated from UTF-8 before it is drawn.
func WritePDF(w io.Writer, roster *reports.Roster, loc *time.Location) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Attendance Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", roster.From, roster.To))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Working days: %d", len(roster.WorkingDays)))
	pdf.Ln(12)

	widths := []float64{30, 70, 30, 25, 28, 25, 45}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range summaryHeader {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range roster.Rows {
		for i, c := range summaryCells(row, tr) {
			align := "C"
			if i == 1 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 8, fmt.Sprintf("Generated %s", time.Now().In(loc).Format("02 Jan 2006 15:04")))

	return pdf.Output(w)
}

// summaryCells renders one roster row for the PDF table, passing every value
// through tr.
func summaryCells(row reports.RosterRow, tr func(string) string) []string {
	cells := []string{
		row.Employee.EmployeeID,
		row.Employee.Name,
		strconv.Itoa(row.Summary.WorkingDays()),
		strconv.Itoa(row.Summary.PresentDays),
		strconv.Itoa(row.Summary.IncompleteDays),
		strconv.Itoa(row.Summary.AbsentDays),
		latestLabel(row),
	}
	for i, c := range cells {
		cells[i] = tr(c)
	}
	return cells
}

func dailyLine(row reports.RosterRow, rec attendance.DayRecord, loc *time.Location) []string {
	return []string{
		row.Employee.EmployeeID,
		row.Employee.Name,
		rec.Date,
		string(rec.Status),
		clock(rec.CheckIn, loc),
		clock(rec.CheckOut, loc),
		rec.WorkingHours,
		rec.CheckInLocation,
		rec.CheckOutLocation,
	}
}

func latestLabel(row reports.RosterRow) string {
	if row.LatestStatus == nil {
		return attendance.NoDuration
	}
	return fmt.Sprintf("%s (%s)", row.LatestStatus.Status, row.LatestStatus.Date)
}

func clock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return attendance.NoDuration
	}
	return t.In(loc).Format("15:04")
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func writeRow(f *excelize.File, sheet string, line int, cells []interface{}, style int) error {
	start, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &cells); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(cells), line)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}
