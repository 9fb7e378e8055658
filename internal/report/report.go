// Package report renders the dataset as an XLSX workbook or a PDF summary.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/starford/chainscope/internal/dataset"
	"github.com/starford/chainscope/internal/view"
)

// Sheet names in the workbook.
const (
	SheetNodes     = "nodes"
	SheetFlows     = "flows"
	SheetTeams     = "teams"
	SheetProcesses = "processes"
)

func joinTemps(ts []dataset.TempRegime) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func asnText(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "yes"
	default:
		return "no"
	}
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("report: %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// BuildWorkbook renders nodes, flows, teams and business processes, one sheet each.
func BuildWorkbook(ds *dataset.Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetNodes); err != nil {
		return nil, err
	}
	for _, s := range []string{SheetFlows, SheetTeams, SheetProcesses} {
		if _, err := f.NewSheet(s); err != nil {
			return nil, err
		}
	}

	nodes := [][]any{{"ID", "Type", "Name", "Temperature", "Operator", "Location", "Systems"}}
	for _, n := range ds.Nodes {
		nodes = append(nodes, []any{n.ID, string(n.Type), n.Name, joinTemps(n.Temp), n.OperatorName(), n.Location, strings.Join(n.Systems, ", ")})
	}

	flows := [][]any{{"ID", "From", "To", "Type", "Temperature", "ASN"}}
	for _, fl := range ds.Flows {
		flows = append(flows, []any{fl.ID, fl.From, fl.To, fl.Type, string(fl.Temp), asnText(fl.HasASN)})
	}

	teams := [][]any{{"System", "Team", "Contact"}}
	systems := make([]string, 0, len(ds.Teams))
	for s := range ds.Teams {
		systems = append(systems, s)
	}
	sort.Strings(systems)
	for _, s := range systems {
		teams = append(teams, []any{s, ds.Teams[s].Name, ds.Teams[s].Contact})
	}

	processes := [][]any{{"Process", "Stage", "Step", "Systems", "Description"}}
	keys := make([]string, 0, len(ds.BusinessProcesses))
	for k := range ds.BusinessProcesses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		bp := ds.BusinessProcesses[k]
		for _, st := range bp.Steps {
			processes = append(processes, []any{bp.Name, bp.Logical, st.Name, strings.Join(st.Systems, ", "), st.Description})
		}
	}

	for sheet, rows := range map[string][][]any{SheetNodes: nodes, SheetFlows: flows, SheetTeams: teams, SheetProcesses: processes} {
		if err := writeRows(f, sheet, rows); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPDF renders a one-document summary: per-type counts under the
// filter, the visible nodes and the visible flows.
func BuildPDF(ds *dataset.Dataset, filter view.Filter, now time.Time) ([]byte, error) {
	v := view.Compute(ds, filter)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Supply Chain Network")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", now.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Active filters: %d", filter.ActiveCount()))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Visible", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, c := range view.Summary(ds, v.Nodes) {
		pdf.CellFormat(40, 6, string(c.Type), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", c.Visible), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", c.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	for _, h := range []struct {
		w float64
		s string
	}{{20, "ID"}, {60, "Name"}, {20, "Type"}, {30, "Location"}, {40, "Operator"}} {
		pdf.CellFormat(h.w, 6, h.s, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, n := range v.Nodes {
		pdf.CellFormat(20, 6, n.ID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, n.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, string(n.Type), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, n.Location, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, n.OperatorName(), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	for _, h := range []string{"ID", "From", "To", "Type", "Temp"} {
		pdf.CellFormat(30, 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, fl := range v.Flows {
		for _, s := range []string{fl.ID, fl.From, fl.To, fl.Type, string(fl.Temp)} {
			pdf.CellFormat(30, 6, s, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
