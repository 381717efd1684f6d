package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreirec/leyescrawler/internal/config"
	"github.com/mfreirec/leyescrawler/internal/domain/entity"
)

func sampleRecord(page, row int, link string) *entity.ProjectRecord {
	reason := entity.LinkResolved
	if link == "" {
		reason = entity.LinkNoDocument
	}
	return &entity.ProjectRecord{
		Page:         page,
		Row:          row,
		Date:         "2024-06-10",
		Title:        fmt.Sprintf("Ley %d-%d", page, row),
		Status:       "En trámite",
		Author:       "Ejecutivo",
		Committee:    "Comisión de Justicia",
		DocumentLink: link,
		LinkReason:   reason,
		ScrapedAt:    time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC),
	}
}

func TestAppendValidatesRecords(t *testing.T) {
	sink := InitSink(t.TempDir(), config.FormatBoth)

	require.NoError(t, sink.Append(sampleRecord(1, 1, "https://site.test/a.pdf")))
	require.NoError(t, sink.Append(sampleRecord(1, 2, "")))

	noTitle := sampleRecord(1, 3, "")
	noTitle.Title = ""
	assert.Error(t, sink.Append(noTitle))

	noOrigin := sampleRecord(0, 3, "")
	assert.Error(t, sink.Append(noOrigin))

	badLink := sampleRecord(1, 3, "not a url")
	assert.Error(t, sink.Append(badLink))

	assert.Len(t, sink.Records(), 2)
}

func TestFlushWritesAllOutputs(t *testing.T) {
	dir := t.TempDir()
	sink := InitSink(dir, config.FormatBoth)
	require.NoError(t, sink.Append(sampleRecord(1, 1, "https://site.test/a.pdf")))
	require.NoError(t, sink.Append(sampleRecord(1, 2, "")))
	require.NoError(t, sink.Append(sampleRecord(2, 1, "https://site.test/b.pdf")))
	sink.Skip(2, 2, "retry_exhausted", fmt.Errorf("gave up"))

	paths, err := sink.Flush(context.Background())
	require.NoError(t, err)
	require.Len(t, paths, 4)
	for _, name := range []string{"proyectos.csv", "proyectos.json", "documentos.txt", "resumen.json"} {
		assert.Contains(t, paths, filepath.Join(dir, name))
	}

	// CSV: header plus one line per record, columns in listing order.
	f, err := os.Open(filepath.Join(dir, "proyectos.csv"))
	require.NoError(t, err)
	defer f.Close()
	lines, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, csvHeader, lines[0])
	assert.Equal(t, []string{"1", "1", "2024-06-10", "Ley 1-1", "En trámite", "Ejecutivo", "Comisión de Justicia", "https://site.test/a.pdf"}, lines[1])
	assert.Equal(t, "", lines[2][7], "absent link stays empty")

	// JSON: an array of records; the absent link is omitted entirely.
	data, err := os.ReadFile(filepath.Join(dir, "proyectos.json"))
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "Ley 1-1", decoded[0]["title"])
	assert.NotContains(t, decoded[1], "document_link")
	assert.Equal(t, "no_document", decoded[1]["link_reason"])

	// TXT: resolved URLs only, numbered from 1.
	txt, err := os.ReadFile(filepath.Join(dir, "documentos.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1. https://site.test/a.pdf\n2. https://site.test/b.pdf\n", string(txt))

	// Summary counts records, reasons and the skip audit.
	sum, err := os.ReadFile(filepath.Join(dir, "resumen.json"))
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.Unmarshal(sum, &summary))
	assert.EqualValues(t, 3, summary["total_records"])
	assert.EqualValues(t, 2, summary["with_document"])
	assert.EqualValues(t, 2, summary["pages_observed"])
	skipped, ok := summary["skipped_rows"].([]any)
	require.True(t, ok)
	require.Len(t, skipped, 1)
	assert.InDelta(t, 0.5, summary["success_rate"], 1e-9)
}

func TestFlushRespectsFormatSelection(t *testing.T) {
	dir := t.TempDir()
	sink := InitSink(dir, config.FormatCSV)
	require.NoError(t, sink.Append(sampleRecord(1, 1, "https://site.test/a.pdf")))

	paths, err := sink.Flush(context.Background())
	require.NoError(t, err)

	joined := strings.Join(paths, " ")
	assert.Contains(t, joined, "proyectos.csv")
	assert.NotContains(t, joined, "proyectos.json")
	_, statErr := os.Stat(filepath.Join(dir, "proyectos.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFlushEmptyRunStillWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	sink := InitSink(dir, config.FormatJSON)

	_, err := sink.Flush(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "proyectos.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	txt, err := os.ReadFile(filepath.Join(dir, "documentos.txt"))
	require.NoError(t, err)
	assert.Empty(t, string(txt))
}
