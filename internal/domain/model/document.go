package model

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

// Document is what the Elasticsearch persistence layer needs from an
// indexable value: a stable ID, a target index and its field mapping.
type Document interface {
	GetID() string
	GetIndex() string
	GetTypeMapping() *types.TypeMapping
}

const lawProjectIndex = "law_projects"

// LawProjectDoc is the Elasticsearch shape of one scraped law project.
type LawProjectDoc struct {
	ID           string `json:"id"`
	Page         int    `json:"page"`
	Row          int    `json:"row"`
	Date         string `json:"date"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	Author       string `json:"author"`
	Committee    string `json:"committee"`
	DocumentLink string `json:"document_link,omitempty"`
	LinkReason   string `json:"link_reason"`
	ScrapedAt    string `json:"scraped_at"`
}

func (d *LawProjectDoc) GetID() string {
	if d.ID != "" {
		return d.ID
	}
	return fmt.Sprintf("p%04d-r%02d", d.Page, d.Row)
}

func (d *LawProjectDoc) GetIndex() string {
	return lawProjectIndex
}

func (d *LawProjectDoc) GetTypeMapping() *types.TypeMapping {
	return &types.TypeMapping{
		Properties: map[string]types.Property{
			"id":            types.NewKeywordProperty(),
			"page":          types.NewIntegerNumberProperty(),
			"row":           types.NewIntegerNumberProperty(),
			"date":          types.NewKeywordProperty(),
			"title":         types.NewTextProperty(),
			"status":        types.NewKeywordProperty(),
			"author":        types.NewTextProperty(),
			"committee":     types.NewTextProperty(),
			"document_link": types.NewKeywordProperty(),
			"link_reason":   types.NewKeywordProperty(),
			"scraped_at":    types.NewDateProperty(),
		},
	}
}
