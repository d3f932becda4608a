package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

// WriteCSV writes a header of "time" plus the trace columns, then one row
// per sample.
func WriteCSV(w io.Writer, trace *Trace) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, trace.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range trace.Rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, strconv.FormatFloat(trace.Times[i], 'f', 6, 64))
		for _, val := range row {
			record = append(record, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type ExportData struct {
	Meta    RunMetadata `json:"meta"`
	Columns []string    `json:"columns"`
	Times   []float64   `json:"times"`
	Rows    [][]float64 `json:"rows"`
}

func WriteJSON(w io.Writer, meta RunMetadata, trace *Trace) error {
	data := ExportData{
		Meta:    meta,
		Columns: trace.Columns,
		Times:   trace.Times,
		Rows:    trace.Rows,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
