// Package export renders simulations and the dashboard as downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/optionslab/optionslab-client/internal/metrics"
	"github.com/optionslab/optionslab-client/internal/normalize"
	"github.com/optionslab/optionslab-client/internal/views"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

var simulationHeader = []string{
	"ID", "Name", "Strategy", "Symbol", "Start", "End",
	"Initial Capital", "Final Capital", "Return %", "Win Rate %", "Max Drawdown %", "Status",
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func numberCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func simulationRow(r normalize.SimulationRecord) []string {
	return []string{
		r.ID, r.Name, r.StrategyName, r.Symbol, dateCell(r.StartDate), dateCell(r.EndDate),
		numberCell(r.InitialCapital), numberCell(r.FinalCapital), numberCell(r.ReturnPct),
		numberCell(r.WinRate), numberCell(r.MaxDrawdown), r.Status.Label(),
	}
}

// SimulationsCSV writes one row per simulation; missing numbers are blank.
func SimulationsCSV(records []normalize.SimulationRecord) (out []byte, err error) {
	start := time.Now()
	defer func() { metrics.ObserveExport(FormatCSV, err, time.Since(start)) }()

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(simulationHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := cw.Write(simulationRow(r)); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SimulationsXLSX renders a workbook with a summary sheet and a simulations
// sheet. Numeric cells stay numeric so spreadsheets can aggregate them.
func SimulationsXLSX(records []normalize.SimulationRecord, capital views.CapitalSummary) (out []byte, err error) {
	start := time.Now()
	defer func() { metrics.ObserveExport(FormatXLSX, err, time.Since(start)) }()

	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	simSheet := "simulations"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(simSheet); err != nil {
		return nil, err
	}

	summary := [][2]any{
		{"Simulations", len(records)},
		{"With capital", capital.Simulations},
		{"Total Initial", capital.TotalInitial},
		{"Total Final", capital.TotalFinal},
		{"Net Result", capital.NetResult},
		{"Return %", capital.ReturnPct},
	}
	_ = f.SetCellValue(summarySheet, "A1", "Simulations Export")
	for i, kv := range summary {
		row := i + 3
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), kv[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), kv[1])
	}

	for i, h := range simulationHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(simSheet, cell, h)
	}
	for i, r := range records {
		row := i + 2
		values := []any{
			r.ID, r.Name, r.StrategyName, r.Symbol, dateCell(r.StartDate), dateCell(r.EndDate),
			numberValue(r.InitialCapital), numberValue(r.FinalCapital), numberValue(r.ReturnPct),
			numberValue(r.WinRate), numberValue(r.MaxDrawdown), r.Status.Label(),
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(simSheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func numberValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// DashboardPDF renders the dashboard as a one-page A4 report.
func DashboardPDF(d views.Dashboard) (out []byte, err error) {
	start := time.Now()
	defer func() { metrics.ObserveExport(FormatPDF, err, time.Since(start)) }()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Simulations Dashboard")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("User: %s", d.UserID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", d.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	st := d.Statistics
	lines := []string{
		fmt.Sprintf("Simulations: %d (concluded %d, in progress %d)", st.Total, st.Concluded, st.InProgress),
		fmt.Sprintf("Win rate: %s   Avg return: %s", st.WinRate, st.AvgReturn),
		fmt.Sprintf("Best: %s   Worst: %s", st.BestReturn, st.WorstReturn),
		fmt.Sprintf("Capital: %s -> %s (net %s, %s%%)",
			d.Capital.TotalInitial, d.Capital.TotalFinal, d.Capital.NetResult, d.Capital.ReturnPct),
		fmt.Sprintf("Risk profile: %s   Level: %s", d.Suggestions.Risk, d.Suggestions.Level),
	}
	for _, l := range lines {
		pdf.Cell(0, 6, tr(l))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Recent simulation", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Symbol", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Return %", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, r := range d.Recent {
		pdf.CellFormat(70, 6, tr(r.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr(r.Symbol), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, numberCell(r.ReturnPct), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, tr(r.Status.Label()), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Suggested strategies")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	for _, s := range d.Suggestions.Strategies {
		pdf.Cell(0, 6, tr(fmt.Sprintf("- %s (%s, %s)", s.Name, s.Bias, s.Risk)))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
