package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 277.0
	pdfLineHeight = 6.0
)

// PDFExporter renders datasets into a landscape table. Cells wrap, so long
// slot lists stay readable.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) ContentType() string { return "application/pdf" }
func (e *PDFExporter) Extension() string   { return "pdf" }

// Render creates a PDF document with an optional title and table body. The
// last column takes the remaining width.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, data.Title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	widths := columnWidths(len(data.Headers))

	pdf.SetFont("Arial", "B", 10)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		height := pdfLineHeight
		for i, header := range data.Headers {
			lines := pdf.SplitLines([]byte(row[header]), widths[i]-2)
			if h := float64(len(lines)) * pdfLineHeight; h > height {
				height = h
			}
		}
		x, y := pdf.GetXY()
		for i, header := range data.Headers {
			pdf.Rect(x, y, widths[i], height, "D")
			pdf.MultiCell(widths[i], pdfLineHeight, row[header], "", "L", false)
			x += widths[i]
			pdf.SetXY(x, y)
		}
		pdf.SetXY(10, y+height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(columns int) []float64 {
	widths := make([]float64, columns)
	if columns == 1 {
		widths[0] = pdfPageWidth
		return widths
	}
	narrow := pdfPageWidth / float64(columns+2)
	for i := 0; i < columns-1; i++ {
		widths[i] = narrow
	}
	widths[columns-1] = pdfPageWidth - narrow*float64(columns-1)
	return widths
}
