package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/mfreirec/leyescrawler/internal/domain/entity"
	"github.com/mfreirec/leyescrawler/internal/infra/crawler/collector"
	"github.com/mfreirec/leyescrawler/param"
)

// The JSON feed pages the same way the site does.
const itemsPerPage = 10

// ApiService is the alternate API-based mode: instead of driving a browser
// through the listing, it fetches the JSON feed behind it and maps the
// payload onto the same records.
type ApiService interface {
	FetchProjects(ctx context.Context, params *param.ApiFetch) ([]*entity.ProjectRecord, error)
}

type apiService struct {
	collector collector.CollyCrawler
}

func InitApiService(coll collector.CollyCrawler) ApiService {
	return &apiService{collector: coll}
}

type apiProject struct {
	Fecha        string `json:"fecha"`
	Titulo       string `json:"titulo"`
	Estado       string `json:"estado"`
	Autor        string `json:"autor"`
	Comision     string `json:"comision"`
	DocumentoUrl string `json:"documento_url"`
}

type apiPayload struct {
	Total     int          `json:"total"`
	Proyectos []apiProject `json:"proyectos"`
}

func (as *apiService) FetchProjects(ctx context.Context, params *param.ApiFetch) ([]*entity.ProjectRecord, error) {
	if !params.IsValid() {
		return nil, fmt.Errorf("invalid api fetch params: %+v", params)
	}

	var records []*entity.ProjectRecord
	var fetchErr error

	as.collector.OnResponse(func(r *colly.Response) {
		var payload apiPayload
		if err := json.Unmarshal(r.Body, &payload); err != nil {
			fetchErr = fmt.Errorf("decode payload from %s: %w", r.Request.URL, err)
			return
		}
		records = mapProjects(payload.Proyectos, params.Limit)
	})
	as.collector.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetch %s: %w", r.Request.URL, err)
	})

	log.Printf("fetching projects from %s", params.Endpoint)
	if err := as.collector.Visit(params.Endpoint); err != nil {
		return nil, err
	}
	as.collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	log.Printf("fetched %d projects", len(records))
	return records, nil
}

func mapProjects(projects []apiProject, limit int) []*entity.ProjectRecord {
	if limit > 0 && len(projects) > limit {
		projects = projects[:limit]
	}
	records := make([]*entity.ProjectRecord, 0, len(projects))
	for i, p := range projects {
		if p.Titulo == "" {
			log.Printf("payload item %d has no title, dropped", i+1)
			continue
		}
		rec := &entity.ProjectRecord{
			Page:       i/itemsPerPage + 1,
			Row:        i%itemsPerPage + 1,
			Date:       p.Fecha,
			Title:      p.Titulo,
			Status:     p.Estado,
			Author:     p.Autor,
			Committee:  p.Comision,
			LinkReason: entity.LinkNoDocument,
			ScrapedAt:  time.Now(),
		}
		if p.DocumentoUrl != "" {
			rec.DocumentLink = p.DocumentoUrl
			rec.LinkReason = entity.LinkResolved
		}
		records = append(records, rec)
	}
	return records
}
