package service

import (
	"context"
	"strings"

	"github.com/mfreirec/leyescrawler/internal/infra/crawler/chrome"
)

// The listing table carries six columns: date, title, status, author,
// committee and the documents cell.
const expectedColumns = 6

const (
	colDate = iota
	colTitle
	colStatus
	colAuthor
	colCommittee
	colDocs
)

// Row is one data row of the current page: the trimmed cell texts in column
// order plus the handle the link resolver clicks through.
type Row struct {
	Index  int
	Cells  []string
	Handle chrome.Element
}

// ExtractRows walks the listing rows of the loaded page in DOM order.
// Header and separator rows (no td cells) are skipped; Index counts data
// rows from 1. A data row with the wrong cell count, or a page with no data
// rows at all, is a *StructureMismatchError.
func ExtractRows(ctx context.Context, nav chrome.Navigator, sel Selectors, page int) ([]Row, error) {
	els, err := nav.FindAll(ctx, sel.Row)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(els))
	for _, el := range els {
		cells, err := el.FindAll(ctx, sel.Cell)
		if err != nil {
			return nil, err
		}
		if len(cells) == 0 {
			// header or separator row
			continue
		}
		if len(cells) != expectedColumns {
			return nil, &StructureMismatchError{Page: page, Want: expectedColumns, Got: len(cells)}
		}
		texts := make([]string, 0, len(cells))
		for _, cell := range cells {
			text, err := cell.Text(ctx)
			if err != nil {
				return nil, err
			}
			texts = append(texts, strings.TrimSpace(text))
		}
		rows = append(rows, Row{Index: len(rows) + 1, Cells: texts, Handle: el})
	}

	if len(rows) == 0 {
		return nil, &StructureMismatchError{Page: page, Want: expectedColumns, Got: 0}
	}
	return rows, nil
}
