package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRender(t *testing.T) {
	exporter := NewCSVExporter()

	data, err := exporter.Render(Dataset{
		Headers: []string{"id", "name"},
		Rows: [][]string{
			{"1", "Ada"},
			{"2"},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name", lines[0])
	assert.Equal(t, "1,Ada", lines[1])
	assert.Equal(t, "2,", lines[2])
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

func TestReadCSVSkipsHeader(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("id,name\n1,Ada\n2,Alan,extra\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "Ada"}, rows[0])
	assert.Equal(t, []string{"2", "Alan", "extra"}, rows[1])
}

func TestReadCSVHeaderOnly(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("id,name\n"))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestPDFRender(t *testing.T) {
	exporter := NewPDFExporter()
	data, err := exporter.Render("Roster", []Field{{Label: "Term", Value: "FALL"}}, Dataset{
		Headers: []string{"id", "name"},
		Rows:    [][]string{{"1", "Ada"}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))

	_, err = exporter.Render("", nil, Dataset{})
	assert.Error(t, err)
}
