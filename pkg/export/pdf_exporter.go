package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 190.0

// PDFExporter renders datasets into a tabular A4 report.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType reports the MIME type of rendered output.
func (e *PDFExporter) ContentType() string {
	return "application/pdf"
}

// Extension is the file suffix for rendered output.
func (e *PDFExporter) Extension() string {
	return "pdf"
}

// Render creates a PDF document with the dataset title, caption and a striped table body.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
	}
	if data.Caption != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, tr(data.Caption), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	widths := columnWidths(data)

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range data.Headers {
			pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	header()

	pdf.SetFont("Arial", "", 9)
	pdf.SetFillColor(245, 245, 245)
	for n, row := range data.Rows {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
			pdf.SetFont("Arial", "", 9)
			pdf.SetFillColor(245, 245, 245)
		}
		record := fit(row, len(data.Headers))
		for i, value := range record {
			pdf.CellFormat(widths[i], 7, tr(value), "1", 0, "", n%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(data Dataset) []float64 {
	widths := make([]float64, len(data.Headers))
	if len(data.Widths) == len(data.Headers) {
		var total float64
		for _, w := range data.Widths {
			total += w
		}
		if total > 0 {
			for i, w := range data.Widths {
				widths[i] = pageWidth * w / total
			}
			return widths
		}
	}
	for i := range widths {
		widths[i] = pageWidth / float64(len(widths))
	}
	return widths
}
