package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"

	"github.com/mfreirec/leyescrawler/internal/config"
	"github.com/mfreirec/leyescrawler/internal/domain/model"
	"github.com/mfreirec/leyescrawler/internal/infra/crawler/collector"
	"github.com/mfreirec/leyescrawler/internal/infra/export"
	"github.com/mfreirec/leyescrawler/internal/infra/persistence/es"
	service "github.com/mfreirec/leyescrawler/internal/service/colly"
	"github.com/mfreirec/leyescrawler/param"
)

//go:embed appconfig/appconfig.json
var appConfig []byte

func main() {
	if err := run(); err != nil {
		log.Fatalf("leyescrawler: %v", err)
	}
}

func run() error {
	cfg, err := config.ParseConfig(appConfig)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return fmt.Errorf("apply env: %w", err)
	}

	endpoint := flag.String("endpoint", cfg.Api.Endpoint, "JSON endpoint serving law projects")
	limit := flag.Int("limit", cfg.Api.Limit, "maximum records to fetch, 0 for all")
	outputFormat := flag.String("output-format", cfg.Scrape.OutputFormat, "csv, json or both")
	outputDir := flag.String("out", cfg.Scrape.OutputDir, "output directory")
	flag.Parse()

	switch *outputFormat {
	case config.FormatCSV, config.FormatJSON, config.FormatBoth:
	default:
		return fmt.Errorf("unknown output format %q", *outputFormat)
	}

	ctx := context.Background()
	apiService := service.InitApiService(collector.InitCollyCrawler(cfg))

	records, err := apiService.FetchProjects(ctx, &param.ApiFetch{
		Endpoint: *endpoint,
		Limit:    *limit,
	})
	if err != nil {
		return fmt.Errorf("fetch projects: %w", err)
	}

	sink := export.InitSink(*outputDir, *outputFormat)
	for _, rec := range records {
		if err := sink.Append(rec); err != nil {
			sink.Skip(rec.Page, rec.Row, "invalid_record", err)
		}
	}

	paths, err := sink.Flush(ctx)
	if err != nil {
		return fmt.Errorf("flush outputs: %w", err)
	}
	log.Printf("wrote %d records to %v", len(sink.Records()), paths)

	indexRecords(ctx, cfg, sink)
	return nil
}

func indexRecords(ctx context.Context, cfg *config.Config, sink export.Sink) {
	if !cfg.Elasticsearch.Enabled {
		return
	}
	client, err := es.InitTypedEsClient(cfg, &model.LawProjectDoc{})
	if err != nil {
		log.Printf("elasticsearch disabled: %v", err)
		return
	}
	if err := client.CreateIndexWithMapping(ctx); err != nil {
		log.Printf("create index: %v", err)
		return
	}
	records := sink.Records()
	docs := make([]*model.LawProjectDoc, 0, len(records))
	for _, rec := range records {
		docs = append(docs, rec.ToDocument())
	}
	if err := client.BulkIndexDocsWithID(ctx, docs); err != nil {
		log.Printf("bulk index: %v", err)
		return
	}
	count, err := client.CountDocs(ctx)
	if err != nil {
		log.Printf("count docs: %v", err)
		return
	}
	log.Printf("index now holds %d documents", count)
}
