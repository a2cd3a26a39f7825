package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

func testTrajectory(t *testing.T) *dynamo.Trajectory {
	t.Helper()
	tr, err := dynamo.NewTrajectory(
		dynamo.TimeGrid{0, 0.1, 0.2},
		[]dynamo.State{
			physics.NewState(1, 0, 0, 0),
			physics.NewState(0.995, 0.0001, -0.0998, 0.005),
			physics.NewState(1.0/3, -2e-9, 0, 7),
		},
		dynamo.Stats{Method: "dopri5", Accepted: 12},
	)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestWriteCSV(t *testing.T) {
	tr := testTrajectory(t)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tr); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != tr.Len()+1 {
		t.Fatalf("expected %d rows, got %d", tr.Len()+1, len(records))
	}
	for i, col := range Columns {
		if records[0][i] != col {
			t.Errorf("header[%d] = %s, want %s", i, records[0][i], col)
		}
	}

	// Values must parse back bit for bit.
	for i := 0; i < tr.Len(); i++ {
		x := tr.At(i)
		for j, v := range x {
			got, err := strconv.ParseFloat(records[i+1][j+1], 64)
			if err != nil {
				t.Fatal(err)
			}
			if got != v {
				t.Errorf("row %d col %d: %v, want %v", i, j, got, v)
			}
		}
	}
}

func TestWriteJSON(t *testing.T) {
	tr := testTrajectory(t)
	p := physics.DefaultParams()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewExportData(p, tr, map[string]float64{"energy_drift": 0.5})); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Params != p {
		t.Errorf("params = %+v, want %+v", got.Params, p)
	}
	if got.Samples != 3 || len(got.States) != 3 || len(got.Times) != 3 {
		t.Errorf("expected 3 samples, got %d/%d/%d", got.Samples, len(got.States), len(got.Times))
	}
	if got.Method != "dopri5" || got.Stats.Accepted != 12 {
		t.Errorf("unexpected stats %+v", got.Stats)
	}
	if got.States[2][physics.X1] != 1.0/3 {
		t.Errorf("state not preserved: %v", got.States[2])
	}
	if got.Metrics["energy_drift"] != 0.5 {
		t.Errorf("metrics not preserved: %v", got.Metrics)
	}
}

func TestNewExportData_Copies(t *testing.T) {
	tr := testTrajectory(t)
	data := NewExportData(physics.DefaultParams(), tr, nil)
	data.States[0][0] = 99
	if tr.At(0)[0] == 99 {
		t.Error("export data must not alias trajectory storage")
	}
}
