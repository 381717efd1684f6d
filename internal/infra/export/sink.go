package export

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/mfreirec/leyescrawler/internal/config"
	"github.com/mfreirec/leyescrawler/internal/domain/entity"
)

// SkipEntry is the audit record for a row that produced no ProjectRecord,
// with its page/row origin and failure kind.
type SkipEntry struct {
	Page  int    `json:"page"`
	Row   int    `json:"row"`
	Kind  string `json:"kind"`
	Cause string `json:"cause,omitempty"`
}

// Sink accumulates the run's records in memory and serializes them at the
// end. Partial results are always worth flushing: a fatal abort on page 3
// still writes pages 1-2.
type Sink interface {
	Append(rec *entity.ProjectRecord) error
	Skip(page, row int, kind string, cause error)
	Records() []*entity.ProjectRecord
	Skips() []SkipEntry
	// Flush writes the configured formats plus the document-URL log and the
	// run summary, and returns the paths written.
	Flush(ctx context.Context) ([]string, error)
}

type memorySink struct {
	dir     string
	format  string
	records []*entity.ProjectRecord
	skips   []SkipEntry
}

func InitSink(dir, format string) Sink {
	return &memorySink{dir: dir, format: format}
}

// Append enforces the record invariant: non-empty title, defined page/row
// origin, and a link that is either a well-formed URL or absent.
func (ms *memorySink) Append(rec *entity.ProjectRecord) error {
	if rec.Title == "" {
		return fmt.Errorf("page %d row %d: record without title", rec.Page, rec.Row)
	}
	if rec.Page <= 0 || rec.Row <= 0 {
		return fmt.Errorf("record without page/row origin: %q", rec.Title)
	}
	if rec.DocumentLink != "" {
		if _, err := url.ParseRequestURI(rec.DocumentLink); err != nil {
			return fmt.Errorf("page %d row %d: malformed document link %q: %w", rec.Page, rec.Row, rec.DocumentLink, err)
		}
	}
	ms.records = append(ms.records, rec)
	return nil
}

func (ms *memorySink) Skip(page, row int, kind string, cause error) {
	entry := SkipEntry{Page: page, Row: row, Kind: kind}
	if cause != nil {
		entry.Cause = cause.Error()
	}
	ms.skips = append(ms.skips, entry)
	log.Printf("skipped page %d row %d (%s): %v", page, row, kind, cause)
}

func (ms *memorySink) Records() []*entity.ProjectRecord { return ms.records }

func (ms *memorySink) Skips() []SkipEntry { return ms.skips }

func (ms *memorySink) Flush(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(ms.dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	type output struct {
		path  string
		write func(path string) error
	}
	var outputs []output

	if ms.format == config.FormatCSV || ms.format == config.FormatBoth {
		outputs = append(outputs, output{
			path:  filepath.Join(ms.dir, "proyectos.csv"),
			write: func(path string) error { return writeCSV(path, ms.records) },
		})
	}
	if ms.format == config.FormatJSON || ms.format == config.FormatBoth {
		outputs = append(outputs, output{
			path:  filepath.Join(ms.dir, "proyectos.json"),
			write: func(path string) error { return writeJSON(path, ms.records) },
		})
	}
	outputs = append(outputs,
		output{
			path:  filepath.Join(ms.dir, "documentos.txt"),
			write: func(path string) error { return writeDocumentLog(path, ms.records) },
		},
		output{
			path:  filepath.Join(ms.dir, "resumen.json"),
			write: func(path string) error { return writeSummary(path, ms.records, ms.skips) },
		},
	)

	g, _ := errgroup.WithContext(ctx)
	paths := make([]string, len(outputs))
	for i, out := range outputs {
		g.Go(func() error {
			if err := out.write(out.path); err != nil {
				return fmt.Errorf("write %s: %w", out.path, err)
			}
			paths[i] = out.path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
