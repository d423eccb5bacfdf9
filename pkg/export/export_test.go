package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func availabilityDataset() Dataset {
	return Dataset{
		Title:   "Room availability 10:00 - 11:00",
		Headers: []string{"Room", "Capacity", "Available Slots"},
		Rows: []map[string]string{
			{"Room": "Amaze", "Capacity": "3", "Available Slots": "10:00 - 10:15, 10:15 - 10:30"},
			{"Room": "Inspire", "Capacity": "12", "Available Slots": ""},
		},
	}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)

	format, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVExporterRender(t *testing.T) {
	renderer, err := NewRenderer(FormatCSV)
	require.NoError(t, err)

	out, err := renderer.Render(availabilityDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Room,Capacity,Available Slots", lines[0])
	assert.Equal(t, `Amaze,3,"10:00 - 10:15, 10:15 - 10:30"`, lines[1])
	assert.Equal(t, "Inspire,12,", lines[2])
	assert.Equal(t, "availability.csv", Filename("availability", renderer))
	assert.Equal(t, "text/csv", renderer.ContentType())
}

func TestPDFExporterRender(t *testing.T) {
	renderer, err := NewRenderer(FormatPDF)
	require.NoError(t, err)

	out, err := renderer.Render(availabilityDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", renderer.ContentType())
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewRenderer("xlsx")
	assert.Error(t, err)
}

func TestColumnWidthsFillPage(t *testing.T) {
	widths := columnWidths(3)
	total := 0.0
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, pdfPageWidth, total, 0.001)
	assert.Greater(t, widths[2], widths[0])
}
