package entity

import (
	"fmt"
	"time"

	"github.com/mfreirec/leyescrawler/internal/domain/model"
)

// LinkReason records how a record ended up with or without a document link.
// "no_document" (the modal opened empty) and "extract_failed" (the modal had
// candidates but none matched) both leave the link absent; the distinction is
// kept for auditing.
type LinkReason string

const (
	LinkResolved      LinkReason = "resolved"
	LinkNoDocument    LinkReason = "no_document"
	LinkExtractFailed LinkReason = "extract_failed"
)

// ProjectRecord is one law project extracted from the listing table.
// Identity is positional: page number plus row index within the page.
// DocumentLink is empty when absent; it is never serialized as "".
type ProjectRecord struct {
	Page         int        `json:"page"`
	Row          int        `json:"row"`
	Date         string     `json:"date"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	Author       string     `json:"author"`
	Committee    string     `json:"committee"`
	DocumentLink string     `json:"document_link,omitempty"`
	LinkReason   LinkReason `json:"link_reason"`
	ScrapedAt    time.Time  `json:"scraped_at"`
}

// ID is the positional identity used for deduplication and ES indexing.
func (p *ProjectRecord) ID() string {
	return fmt.Sprintf("p%04d-r%02d", p.Page, p.Row)
}

func (p *ProjectRecord) ToDocument() *model.LawProjectDoc {
	return &model.LawProjectDoc{
		ID:           p.ID(),
		Page:         p.Page,
		Row:          p.Row,
		Date:         p.Date,
		Title:        p.Title,
		Status:       p.Status,
		Author:       p.Author,
		Committee:    p.Committee,
		DocumentLink: p.DocumentLink,
		LinkReason:   string(p.LinkReason),
		ScrapedAt:    p.ScrapedAt.UTC().Format(time.RFC3339),
	}
}
