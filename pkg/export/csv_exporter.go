package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
)

var errNoHeaders = errors.New("csv requires at least one header")

// CSVExporter renders a Dataset as CSV. The title is not part of the output.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) ContentType() string { return "text/csv" }
func (e *CSVExporter) Extension() string   { return "csv" }

// Render emits the header row and then one record per row, with cells taken
// from the row map by header name.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, errNoHeaders
	}
	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Headers)
	for _, row := range data.Rows {
		cells := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			cells[i] = row[header]
		}
		records = append(records, cells)
	}

	var buf bytes.Buffer
	if err := csv.NewWriter(&buf).WriteAll(records); err != nil {
		return nil, fmt.Errorf("write availability csv: %w", err)
	}
	return buf.Bytes(), nil
}
