package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Test history",
		Caption: "2 attempts",
		Headers: []string{"Date", "Subject", "Score"},
		Widths:  []float64{2, 3, 1},
		Rows: [][]string{
			{"2024-05-01", "Math", "8/10"},
			{"2024-05-02", "Physics, Optics"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Date,Subject,Score\n2024-05-01,Math,8/10\n2024-05-02,\"Physics, Optics\",\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths(sampleDataset())
	assert.InDelta(t, 63.33, widths[0], 0.01)
	assert.InDelta(t, 95.0, widths[1], 0.01)

	even := columnWidths(Dataset{Headers: []string{"a", "b"}})
	assert.Equal(t, []float64{95, 95}, even)
}
