package es

import (
	"context"

	"github.com/mfreirec/leyescrawler/internal/domain/model"
)

// TypedEsClient indexes scraped documents. D supplies the index name and
// mapping through the model.Document contract.
type TypedEsClient[D model.Document] interface {
	CreateIndexWithMapping(ctx context.Context) error
	BulkIndexDocsWithID(ctx context.Context, docs []D) error
	CountDocs(ctx context.Context) (int64, error)
}
