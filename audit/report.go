package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"fieldtrack/database"
)

// utf8BOM makes spreadsheet tools detect the encoding, so accented names
// survive the round trip into Excel
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{"#", "Action", "Entity", "Employee", "Admin", "Changes", "Date"}

// ReportMeta describes the header block of a generated report
type ReportMeta struct {
	GeneratedAt time.Time
	Filters     map[string]string
}

// WriteCSV renders the given records as a BOM-prefixed RFC4180 CSV stream.
// The caller supplies exactly the records to export; no filtering happens
// here.
func WriteCSV(w io.Writer, records []database.AuditLog) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for i, record := range records {
		row := []string{
			strconv.Itoa(i + 1),
			formatActionType(record.ActionType),
			formatEntityType(record.EntityType),
			employeeColumn(record),
			record.PerformedByName,
			strings.Join(Summarize(record), "; "),
			formatDate(record.CreatedAt),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Column layout for the PDF table, widths in mm on landscape A4
var pdfColumns = []struct {
	title string
	width float64
}{
	{"#", 10},
	{"Action", 30},
	{"Entity", 32},
	{"Employee", 55},
	{"Admin", 40},
	{"Changes", 80},
	{"Date", 30},
}

// WritePDF renders the given records as a paginated PDF table with a report
// header block (generation time, record count, applied filters).
func WritePDF(w io.Writer, records []database.AuditLog, meta ReportMeta) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Report header block
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 9, "Audit Log Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Generated: "+formatDate(meta.GeneratedAt), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Total Records: %d", len(records)), "", 1, "C", false, 0, "")

	if len(meta.Filters) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Filters Applied:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, label := range sortedKeys(meta.Filters) {
			pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s", titleCase(label), meta.Filters[label]), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(3)

	writePDFTableHeader(pdf)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	for i, record := range records {
		if pdf.GetY() > 180 {
			pdf.AddPage()
			writePDFTableHeader(pdf)
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(0, 0, 0)
		}

		cells := []string{
			strconv.Itoa(i + 1),
			formatActionType(record.ActionType),
			formatEntityType(record.EntityType),
			employeeColumn(record),
			record.PerformedByName,
			strings.Join(Summarize(record), "\n"),
			formatDate(record.CreatedAt),
		}

		pdf.SetFillColor(245, 246, 248)
		for col, text := range cells {
			pdf.CellFormat(pdfColumns[col].width, 7, truncate(text, 60), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	return pdf.Output(w)
}

func writePDFTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(52, 73, 94)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

// employeeColumn renders the entity as "number - name" when an employee
// number is captured in either snapshot
func employeeColumn(record database.AuditLog) string {
	num := snapshotEmployeeNumber(record.NewValues)
	if num == "" {
		num = snapshotEmployeeNumber(record.OldValues)
	}
	if num == "" {
		return record.EntityName
	}
	return num + " - " + record.EntityName
}

func snapshotEmployeeNumber(raw []byte) string {
	snapshot := DecodeSnapshot(raw)
	if snapshot == nil {
		return ""
	}
	if num, ok := snapshot["employee_number"].(string); ok {
		return num
	}
	return ""
}

func formatActionType(actionType string) string {
	if actionType == "" {
		return "Unknown"
	}
	return titleCase(strings.ToLower(actionType))
}

func formatEntityType(entityType string) string {
	switch entityType {
	case database.EntityAdmin:
		return "Admin Account"
	case database.EntitySuperAdmin:
		return "Super Admin Account"
	case database.EntityEmployee:
		return "Employee"
	case database.EntityLeaveRequest:
		return "Field Work Request"
	case "":
		return "Unknown"
	}
	return strings.ReplaceAll(entityType, "_", " ")
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04 PM")
}

// truncate shortens s to max runes so a cut never lands mid-character
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
