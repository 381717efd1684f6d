package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/mfreirec/leyescrawler/internal/config"
	"github.com/mfreirec/leyescrawler/internal/domain/model"
	"github.com/mfreirec/leyescrawler/internal/infra/crawler/chrome"
	"github.com/mfreirec/leyescrawler/internal/infra/export"
	"github.com/mfreirec/leyescrawler/internal/infra/persistence/es"
	service "github.com/mfreirec/leyescrawler/internal/service/scrape"
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

	maxPages := flag.Int("max-pages", cfg.Scrape.MaxPages, "maximum pages to extract, 0 for all")
	outputFormat := flag.String("output-format", cfg.Scrape.OutputFormat, "csv, json or both")
	outputDir := flag.String("out", cfg.Scrape.OutputDir, "output directory")
	headless := flag.Bool("headless", cfg.Chromedp.Headless, "run the browser headless")
	delay := flag.Int("delay", cfg.Scrape.DelaySeconds, "seconds between row interactions")
	flag.Parse()

	switch *outputFormat {
	case config.FormatCSV, config.FormatJSON, config.FormatBoth:
	default:
		return fmt.Errorf("unknown output format %q", *outputFormat)
	}
	cfg.Scrape.MaxPages = *maxPages
	cfg.Scrape.OutputFormat = *outputFormat
	cfg.Scrape.OutputDir = *outputDir
	cfg.Scrape.DelaySeconds = *delay
	cfg.Chromedp.Headless = *headless

	ctx := context.Background()
	sink := export.InitSink(cfg.Scrape.OutputDir, cfg.Scrape.OutputFormat)

	nav := chrome.InitChromedpNavigator(ctx, cfg)
	defer nav.Close()

	scraper, err := service.InitScraper(nav, sink, &param.Scrape{
		Url:             cfg.Scrape.Url,
		MaxPages:        cfg.Scrape.MaxPages,
		Delay:           time.Duration(cfg.Scrape.DelaySeconds) * time.Second,
		PageLoadTimeout: time.Duration(cfg.Scrape.PageLoadTimeoutSeconds) * time.Second,
		ModalTimeout:    time.Duration(cfg.Scrape.ModalTimeoutSeconds) * time.Second,
		Retry: param.Retry{
			MaxAttempts:   cfg.Scrape.RetryMaxAttempts,
			BaseDelay:     time.Duration(cfg.Scrape.RetryBaseDelayMs) * time.Millisecond,
			BackoffFactor: cfg.Scrape.RetryBackoffFactor,
		},
	})
	if err != nil {
		return err
	}

	runErr := scraper.Run(ctx)
	if runErr != nil {
		log.Printf("run aborted: %v", runErr)
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
