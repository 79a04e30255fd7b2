package render

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datanotes/internal/config"
	apperrors "datanotes/internal/errors"
)

func sampleDocument() *Document {
	return &Document{
		Slug:      "claims",
		Title:     "Round numbers in claim adjustments",
		Generated: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
		Sections: []Section{
			{
				Prose: []string{"Paired before/after valuations, reshaped to long format."},
			},
			{
				Heading: "Trailing digits",
				Table: &TableBlock{
					Caption: "Differences modulo 1000",
					Headers: []string{"Bucket", "Count", "Share"},
					Rows:    [][]string{{"0", "12", "24.0%"}, {"500", "9", "18.0%"}},
				},
				Figure: &Figure{
					Name:    "digit-histogram",
					Kind:    KindHistogram,
					Caption: "Round buckets dominate",
					Series:  []Series{{Name: "share", X: []string{"0", "500"}, Y: []float64{0.24, 0.18}}},
					Theme:   DefaultTheme(),
				},
			},
		},
	}
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown(sampleDocument())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "---\n"))
	assert.Contains(t, out, `title: "Round numbers in claim adjustments"`)
	assert.Contains(t, out, "date: 2021-06-01")
	assert.Contains(t, out, "## Trailing digits")
	assert.Contains(t, out, "| Bucket | Count | Share |")
	assert.Contains(t, out, "| 0 | 12 | 24.0% |")
	assert.Contains(t, out, `data-figure="digit-histogram.json"`)
	assert.Contains(t, out, "*Round buckets dominate*")
}

func TestMarkdown_ShortRowsPadded(t *testing.T) {
	doc := &Document{
		Title:     "t",
		Generated: time.Now(),
		Sections: []Section{{
			Table: &TableBlock{Headers: []string{"a", "b"}, Rows: [][]string{{"only"}}},
		}},
	}

	out, err := Markdown(doc)
	require.NoError(t, err)
	assert.Contains(t, out, "| only |  |")
}

func TestMarkdown_WideRowRejected(t *testing.T) {
	doc := &Document{
		Title:     "t",
		Generated: time.Now(),
		Sections: []Section{{
			Table: &TableBlock{Headers: []string{"a", "b"}, Rows: [][]string{{"1", "2", "surplus"}}},
		}},
	}

	_, err := Markdown(doc)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeRender))
	assert.Contains(t, err.Error(), "3 cells")
}

func TestWriteDocument(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "claims")
	doc := sampleDocument()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	require.NoError(t, WriteDocument(dir, doc, logger))

	md, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Trailing digits")

	raw, err := os.ReadFile(filepath.Join(dir, "digit-histogram.json"))
	require.NoError(t, err)

	var fig Figure
	require.NoError(t, json.Unmarshal(raw, &fig))
	assert.Equal(t, KindHistogram, fig.Kind)
	assert.Equal(t, DefaultTheme().Palette, fig.Theme.Palette)

	// Rerun overwrites cleanly.
	require.NoError(t, WriteDocument(dir, doc, logger))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "buckets.csv")

	err := WriteCSV(path, CSVOptions{
		Headers:   []string{"bucket", "count"},
		Records:   [][]string{{"0", "12"}, {"500", "9"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(data), "bucket,count\n0,12\n500,9\n")
}

func TestThemeFromConfig(t *testing.T) {
	theme := ThemeFromConfig(config.ThemeConfig{
		Palette:   []string{"#000000"},
		GridLines: false,
	})

	assert.Equal(t, []string{"#000000"}, theme.Palette)
	assert.Equal(t, DefaultTheme().FontFamily, theme.FontFamily)
	assert.False(t, theme.GridLines)
}
