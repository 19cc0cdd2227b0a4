// Package export renders in-memory tables as downloadable CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

// CSV renders rows, the first of which is usually the header.
func CSV(rows [][]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// Table prepends header to rows.
func Table(header []string, rows ...[]string) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, header)
	return append(out, rows...)
}

var formHeader = []string{"form_id", "form_name", "step", "step_order", "step_visible", "field_label", "field_name", "field_type", "options", "required", "visible"}

// FormRows flattens form definitions to one row per field. Steps without
// fields still get a row so they show up in the sheet.
func FormRows(docs []models.FormDocument) [][]string {
	rows := [][]string{formHeader}
	for _, d := range docs {
		for _, s := range d.Steps {
			stepCols := []string{d.ID, d.FormName, s.StepTitle, strconv.Itoa(s.StepOrder), strconv.FormatBool(s.Visible)}
			if len(s.Fields) == 0 {
				rows = append(rows, append(stepCols, "", "", "", "", "", ""))
				continue
			}
			for _, f := range s.Fields {
				row := append(append([]string{}, stepCols...),
					f.Label, f.Name, string(f.Type), strings.Join(f.Options, "|"),
					strconv.FormatBool(f.Required), strconv.FormatBool(f.Visible))
				rows = append(rows, row)
			}
		}
	}
	return rows
}
