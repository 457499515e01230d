package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/san-kum/episim/internal/epi"
)

// ExportData is the flat JSON shape for downstream tooling.
type ExportData struct {
	Model        string             `json:"model"`
	Compartments []string           `json:"compartments"`
	Integrator   string             `json:"integrator"`
	DtSecs       float64            `json:"dt_secs"`
	Samples      int                `json:"samples"`
	Start        time.Time          `json:"start"`
	R0           float64            `json:"r0"`
	Times        []float64          `json:"times"`
	States       [][]float64        `json:"states"`
	Metrics      map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, states []epi.State, times []float64) error {
	data := ExportData{
		Model:        meta.Model,
		Compartments: meta.Compartments,
		Integrator:   meta.Integrator,
		DtSecs:       meta.DtSecs,
		Samples:      len(states),
		Start:        meta.Start,
		R0:           meta.R0,
		Times:        times,
		States:       make([][]float64, len(states)),
		Metrics:      meta.Metrics,
	}

	for i, s := range states {
		data.States[i] = s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV streams a saved trajectory with compartment-named columns and
// the timestamp label start + i*dt.
func ExportCSV(w io.Writer, meta *RunMetadata, states []epi.State, times []float64) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"time", "timestamp"}
	header = append(header, meta.Compartments...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range states {
		label := meta.Start.Add(time.Duration(times[i] * float64(time.Second)))
		row := []string{
			strconv.FormatFloat(times[i], 'f', 6, 64),
			label.UTC().Format(time.RFC3339),
		}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return nil
}
