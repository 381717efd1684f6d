package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/mfreirec/leyescrawler/internal/domain/entity"
)

// csvHeader matches the ProjectRecord fields; the column order is the
// listing table's column order.
var csvHeader = []string{"page", "row", "date", "title", "status", "author", "committee", "document_link"}

func writeCSV(path string, records []*entity.ProjectRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Page),
			strconv.Itoa(rec.Row),
			rec.Date,
			rec.Title,
			rec.Status,
			rec.Author,
			rec.Committee,
			rec.DocumentLink,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, records []*entity.ProjectRecord) error {
	if records == nil {
		records = []*entity.ProjectRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// writeDocumentLog lists the resolved document URLs, one per line, each
// preceded by a 1-based sequence number.
func writeDocumentLog(path string, records []*entity.ProjectRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	seq := 0
	for _, rec := range records {
		if rec.DocumentLink == "" {
			continue
		}
		seq++
		if _, err := fmt.Fprintf(f, "%d. %s\n", seq, rec.DocumentLink); err != nil {
			return err
		}
	}
	return nil
}

type runSummary struct {
	TotalRecords  int            `json:"total_records"`
	WithDocument  int            `json:"with_document"`
	ByLinkReason  map[string]int `json:"by_link_reason"`
	SkippedRows   []SkipEntry    `json:"skipped_rows"`
	SuccessRate   float64        `json:"success_rate"`
	PagesObserved int            `json:"pages_observed"`
}

func writeSummary(path string, records []*entity.ProjectRecord, skips []SkipEntry) error {
	summary := runSummary{
		TotalRecords: len(records),
		ByLinkReason: map[string]int{},
		SkippedRows:  skips,
	}
	if summary.SkippedRows == nil {
		summary.SkippedRows = []SkipEntry{}
	}

	pages := map[int]bool{}
	for _, rec := range records {
		pages[rec.Page] = true
		summary.ByLinkReason[string(rec.LinkReason)]++
		if rec.DocumentLink != "" {
			summary.WithDocument++
		}
	}
	summary.PagesObserved = len(pages)
	if attempted := len(records) + len(skips); attempted > 0 {
		summary.SuccessRate = float64(summary.WithDocument) / float64(attempted)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
