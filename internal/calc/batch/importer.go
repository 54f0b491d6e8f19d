package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"Mandrel/internal/fwerr"
)

// ReadCases extracts load cases from the first sheet of an xlsx workbook.
// Expected columns: name, N_x, N_y, N_xy, one case per row below a header
// row. N_y and N_xy may be blank. Rows that do not parse are skipped.
func ReadCases(r io.Reader) ([]Case, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fwerr.Input("invalid workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fwerr.Wrap(fwerr.KindInput, err, "unreadable sheet")
	}
	if len(rows) < 2 {
		return nil, fwerr.Input("sheet has no data rows")
	}

	var cases []Case
	for i := 1; i < len(rows); i++ {
		c, err := parseCaseRow(rows[i])
		if err != nil {
			continue
		}
		cases = append(cases, c)
	}
	if len(cases) == 0 {
		return nil, fwerr.Input("no parsable load-case rows")
	}
	return cases, nil
}

func parseCaseRow(row []string) (Case, error) {
	// expected: name, N_x, N_y(optional), N_xy(optional)
	if len(row) < 2 {
		return Case{}, fmt.Errorf("bad row")
	}
	c := Case{Name: strings.TrimSpace(row[0])}
	nx, err := toFloat(row[1])
	if err != nil {
		return Case{}, err
	}
	c.Nx = nx
	if len(row) > 2 && row[2] != "" {
		c.Ny, _ = toFloat(row[2])
	}
	if len(row) > 3 && row[3] != "" {
		c.Nxy, _ = toFloat(row[3])
	}
	return c, nil
}

func toFloat(s string) (float64, error) {
	var v float64
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &v)
	return v, err
}
