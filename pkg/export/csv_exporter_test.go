package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVRenderProducesSpreadsheetFriendlyOutput(t *testing.T) {
	exporter := NewCSVExporter()

	content, err := exporter.Render(Dataset{
		Headers: []string{"Username", "Email"},
		Rows: []map[string]string{
			{"Username": "jdoe", "Email": "jdoe@example.com"},
			{"Username": "asmith"},
		},
	})

	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(content), "\xEF\xBB\xBF"), "output should start with a UTF-8 BOM")

	body := strings.TrimPrefix(string(content), "\xEF\xBB\xBF")
	lines := strings.Split(strings.TrimSuffix(body, "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Username,Email", lines[0])
	require.Equal(t, "jdoe,jdoe@example.com", lines[1])
	require.Equal(t, "asmith,", lines[2], "missing cells render empty")
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})

	require.Error(t, err)
}
