// Package report renders a laminate analysis summary as a PDF document.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/fwerr"
)

// Input carries everything the report prints. Failure may be nil when no
// load was given; the safety-factor table is omitted then.
type Input struct {
	Project   string
	Author    string
	Sequence  string
	Material  string
	Plies     []laminate.Ply
	Effective laminate.EffectiveProperties
	Load      *laminate.LoadState
	Failure   *laminate.FailureResult
	Date      time.Time
}

// Build writes the report as an A4 portrait PDF.
func Build(w io.Writer, in Input) error {
	if len(in.Plies) == 0 {
		return fwerr.Input("report needs a parsed ply stack")
	}
	title := in.Project
	if title == "" {
		title = "Laminate Analysis Report"
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if in.Author != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Author: %s", in.Author))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", date.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Sequence: %s", in.Sequence))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Material: %s", in.Material))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Plies: %d, total thickness %.3f mm",
		len(in.Plies), laminate.TotalThickness(in.Plies)*1e3))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Effective Properties")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	propRow(pdf, "E_x", fmt.Sprintf("%.2f GPa", in.Effective.Ex/1e9))
	propRow(pdf, "E_y", fmt.Sprintf("%.2f GPa", in.Effective.Ey/1e9))
	propRow(pdf, "G_xy", fmt.Sprintf("%.2f GPa", in.Effective.Gxy/1e9))
	propRow(pdf, "nu_xy", fmt.Sprintf("%.4f", in.Effective.NuXY))
	pdf.Ln(4)

	if in.Failure != nil {
		failureSection(pdf, in)
	}

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 5, "Mandrel filament winding toolkit")

	return pdf.Output(w)
}

func propRow(pdf *gofpdf.Fpdf, name, value string) {
	pdf.CellFormat(30, 6, name, "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, value, "1", 1, "R", false, 0, "")
}

func failureSection(pdf *gofpdf.Fpdf, in Input) {
	f := in.Failure

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Failure Analysis")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	if in.Load != nil {
		pdf.Cell(0, 5, fmt.Sprintf("Loads: N_x=%.0f, N_y=%.0f, N_xy=%.0f N/m",
			in.Load.Nx, in.Load.Ny, in.Load.Nxy))
		pdf.Ln(6)
	}
	pdf.Cell(0, 5, fmt.Sprintf("Criterion: %s", f.Criterion))
	pdf.Ln(6)
	pdf.Cell(0, 5, fmt.Sprintf("Minimum safety factor: %s (ply %d), status: %s",
		formatSF(f.MinSafetyFactor), f.CriticalPlyID, f.Status))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(18, 6, "Ply", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Angle", "1", 0, "C", false, 0, "")
	pdf.CellFormat(32, 6, "Safety factor", "1", 0, "C", false, 0, "")
	pdf.CellFormat(46, 6, "Mode", "1", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, p := range f.Plies {
		pdf.CellFormat(18, 6, strconv.Itoa(p.PlyID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(24, 6, fmt.Sprintf("%.1f", p.AngleDeg), "1", 0, "C", false, 0, "")
		pdf.CellFormat(32, 6, formatSF(p.SafetyFactor), "1", 0, "C", false, 0, "")
		pdf.CellFormat(46, 6, p.Mode, "1", 1, "C", false, 0, "")
	}
}

// formatSF keeps near-unloaded plies from printing astronomic numbers.
func formatSF(sf float64) string {
	if sf >= 1000 {
		return "> 1000"
	}
	return fmt.Sprintf("%.3f", sf)
}
