// Package export writes finished runs to an io.Writer as CSV or JSON.
// Nothing here opens files; the caller picks the destination.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

// Columns is the CSV header, matching the state layout.
var Columns = []string{"t", "x1", "x2", "v1", "v2"}

type ExportData struct {
	Params  physics.Params     `json:"params"`
	Method  string             `json:"method"`
	Samples int                `json:"samples"`
	Stats   dynamo.Stats       `json:"stats"`
	Times   []float64          `json:"times"`
	States  [][]float64        `json:"states"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// NewExportData flattens tr for encoding.
func NewExportData(p physics.Params, tr *dynamo.Trajectory, m map[string]float64) ExportData {
	data := ExportData{
		Params:  p,
		Method:  tr.Stats().Method,
		Samples: tr.Len(),
		Stats:   tr.Stats(),
		Times:   tr.Times(),
		States:  make([][]float64, tr.Len()),
		Metrics: m,
	}
	tr.Each(func(i int, _ float64, x dynamo.State) {
		data.States[i] = x.Clone()
	})
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteCSV writes one row per sample. Values use the shortest representation
// that parses back to the same float64.
func WriteCSV(w io.Writer, tr *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}

	row := make([]string, len(Columns))
	var werr error
	tr.Each(func(i int, t float64, x dynamo.State) {
		if werr != nil {
			return
		}
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for j, v := range x {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		werr = cw.Write(row)
	})
	if werr != nil {
		return werr
	}

	cw.Flush()
	return cw.Error()
}
