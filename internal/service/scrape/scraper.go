package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mfreirec/leyescrawler/internal/domain/entity"
	"github.com/mfreirec/leyescrawler/internal/infra/crawler/chrome"
	"github.com/mfreirec/leyescrawler/internal/infra/export"
	"github.com/mfreirec/leyescrawler/param"
)

// Scraper drives one sequential extraction run: the pager loads pages, the
// row extractor yields rows, each row's document link is resolved under the
// retry policy, and completed records flow into the sink.
type Scraper struct {
	nav    chrome.Navigator
	sink   export.Sink
	sel    Selectors
	params *param.Scrape
}

func InitScraper(nav chrome.Navigator, sink export.Sink, params *param.Scrape) (*Scraper, error) {
	if !params.IsValid() {
		return nil, fmt.Errorf("invalid scrape params: %+v", params)
	}
	return &Scraper{nav: nav, sink: sink, sel: DefaultSelectors(), params: params}, nil
}

// Run walks pages in ascending order and rows in DOM order. It returns nil
// when the source is exhausted or the page limit is reached; any returned
// error means the run was aborted, with everything already in the sink
// still valid and worth flushing.
func (s *Scraper) Run(ctx context.Context) error {
	log.Printf("starting extraction: %s", s.params.Url)

	if err := s.nav.Navigate(ctx, s.params.Url); err != nil {
		return fmt.Errorf("navigate to listing: %w", err)
	}
	if err := s.nav.WaitReady(ctx, s.sel.Table, s.params.PageLoadTimeout); err != nil {
		return fmt.Errorf("listing table not ready: %w", err)
	}

	pager := NewPager(s.nav, s.sel, s.params.MaxPages, s.params.PageLoadTimeout)
	for {
		page := pager.Page()
		rows, err := ExtractRows(ctx, s.nav, s.sel, page)
		if err != nil {
			pager.Abort()
			var mismatch *StructureMismatchError
			if errors.As(err, &mismatch) {
				return fmt.Errorf("listing layout changed: %w", err)
			}
			return fmt.Errorf("extract rows on page %d: %w", page, err)
		}
		log.Printf("page %d: %d rows", page, len(rows))

		for _, row := range rows {
			rec := recordFromRow(page, row)
			if rec.Title == "" {
				s.sink.Skip(page, row.Index, "empty_title", nil)
				continue
			}

			var link string
			var reason entity.LinkReason
			err := Retry(ctx, s.params.Retry, func(ctx context.Context) error {
				l, r, e := ResolveDocumentLink(ctx, s.nav, row, s.sel, s.params.ModalTimeout)
				if e != nil {
					return e
				}
				link, reason = l, r
				return nil
			})

			var exhausted *RetryExhaustedError
			switch {
			case err == nil:
				rec.DocumentLink = link
				rec.LinkReason = reason
			case errors.As(err, &exhausted):
				s.sink.Skip(page, row.Index, "retry_exhausted", err)
				continue
			default:
				pager.Abort()
				return fmt.Errorf("page %d row %d: %w", page, row.Index, err)
			}

			if err := s.sink.Append(rec); err != nil {
				s.sink.Skip(page, row.Index, "invalid_record", err)
			}
			if err := s.pause(ctx); err != nil {
				pager.Abort()
				return err
			}
		}

		advanced, err := pager.Advance(ctx)
		if err != nil {
			return fmt.Errorf("advance from page %d: %w", page, err)
		}
		if !advanced {
			break
		}
	}

	log.Printf("extraction finished: %d records, %d skipped", len(s.sink.Records()), len(s.sink.Skips()))
	return nil
}

func recordFromRow(page int, row Row) *entity.ProjectRecord {
	return &entity.ProjectRecord{
		Page:      page,
		Row:       row.Index,
		Date:      row.Cells[colDate],
		Title:     row.Cells[colTitle],
		Status:    row.Cells[colStatus],
		Author:    row.Cells[colAuthor],
		Committee: row.Cells[colCommittee],
		ScrapedAt: time.Now(),
	}
}

// pause is the politeness delay between row interactions.
func (s *Scraper) pause(ctx context.Context) error {
	if s.params.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.params.Delay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
