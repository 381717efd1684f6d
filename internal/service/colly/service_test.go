package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gocolly/colly/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreirec/leyescrawler/internal/config"
	"github.com/mfreirec/leyescrawler/internal/domain/entity"
	"github.com/mfreirec/leyescrawler/internal/infra/crawler/collector"
	"github.com/mfreirec/leyescrawler/param"
)

// fakeCrawler scripts the collector seam: Visit synchronously replays the
// configured body (or failure) through the registered callbacks.
type fakeCrawler struct {
	body     []byte
	netErr   error
	visitErr error

	onResponse func(*colly.Response)
	onError    func(*colly.Response, error)
	visited    []string
}

func (f *fakeCrawler) Visit(u string) error {
	f.visited = append(f.visited, u)
	if f.visitErr != nil {
		return f.visitErr
	}
	parsed, _ := url.Parse(u)
	resp := &colly.Response{Body: f.body, Request: &colly.Request{URL: parsed}}
	if f.netErr != nil {
		if f.onError != nil {
			f.onError(resp, f.netErr)
		}
		return nil
	}
	if f.onResponse != nil {
		f.onResponse(resp)
	}
	return nil
}

func (f *fakeCrawler) Wait() {}

func (f *fakeCrawler) OnRequest(headers map[string]string, cb func(*colly.Request)) {}

func (f *fakeCrawler) OnResponse(cb func(*colly.Response)) { f.onResponse = cb }

func (f *fakeCrawler) OnHTML(selector string, cb func(*colly.HTMLElement)) {}

func (f *fakeCrawler) OnError(cb func(*colly.Response, error)) { f.onError = cb }

const samplePayload = `{
  "total": 3,
  "proyectos": [
    {"fecha": "2024-02-01", "titulo": "Ley de Aguas", "estado": "En trámite", "autor": "Ejecutivo", "comision": "Soberanía", "documento_url": "https://site.test/docs/aguas.pdf"},
    {"fecha": "2024-02-02", "titulo": "Ley de Minería", "estado": "Archivado", "autor": "Bancada", "comision": "Régimen Económico", "documento_url": ""},
    {"fecha": "2024-02-03", "titulo": "", "estado": "En trámite", "autor": "Bancada", "comision": "Justicia", "documento_url": ""}
  ]
}`

func TestFetchProjectsMapsPayload(t *testing.T) {
	crawler := &fakeCrawler{body: []byte(samplePayload)}
	svc := InitApiService(crawler)

	records, err := svc.FetchProjects(context.Background(), &param.ApiFetch{Endpoint: "https://api.test/proyectos"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://api.test/proyectos"}, crawler.visited)

	// The untitled third item is dropped.
	require.Len(t, records, 2)
	first := records[0]
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 1, first.Row)
	assert.Equal(t, "Ley de Aguas", first.Title)
	assert.Equal(t, "https://site.test/docs/aguas.pdf", first.DocumentLink)
	assert.Equal(t, entity.LinkResolved, first.LinkReason)

	second := records[1]
	assert.Equal(t, 2, second.Row)
	assert.Empty(t, second.DocumentLink)
	assert.Equal(t, entity.LinkNoDocument, second.LinkReason)
}

func TestFetchProjectsHonorsLimit(t *testing.T) {
	crawler := &fakeCrawler{body: []byte(samplePayload)}
	svc := InitApiService(crawler)

	records, err := svc.FetchProjects(context.Background(), &param.ApiFetch{Endpoint: "https://api.test/proyectos", Limit: 1})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ley de Aguas", records[0].Title)
}

func TestFetchProjectsRejectsInvalidParams(t *testing.T) {
	svc := InitApiService(&fakeCrawler{})
	_, err := svc.FetchProjects(context.Background(), &param.ApiFetch{})
	assert.Error(t, err)
}

func TestFetchProjectsSurfacesNetworkError(t *testing.T) {
	crawler := &fakeCrawler{netErr: fmt.Errorf("connection refused")}
	svc := InitApiService(crawler)

	_, err := svc.FetchProjects(context.Background(), &param.ApiFetch{Endpoint: "https://api.test/proyectos"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetchProjectsSurfacesMalformedPayload(t *testing.T) {
	crawler := &fakeCrawler{body: []byte("<html>not json</html>")}
	svc := InitApiService(crawler)

	_, err := svc.FetchProjects(context.Background(), &param.ApiFetch{Endpoint: "https://api.test/proyectos"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode payload")
}

func TestFetchProjectsAgainstHTTPServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, samplePayload)
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.Colly.MaxDepth = 1
	cfg.Colly.UserAgent = "leyescrawler-test"
	cfg.Colly.IgnoreRobotsTxt = true

	svc := InitApiService(collector.InitCollyCrawler(cfg))
	records, err := svc.FetchProjects(context.Background(), &param.ApiFetch{Endpoint: server.URL})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestPageRowAssignmentAcrossPages(t *testing.T) {
	projects := make([]apiProject, 0, 23)
	for i := 0; i < 23; i++ {
		projects = append(projects, apiProject{Titulo: fmt.Sprintf("Ley %d", i+1)})
	}

	records := mapProjects(projects, 0)
	require.Len(t, records, 23)
	assert.Equal(t, 1, records[0].Page)
	assert.Equal(t, 1, records[0].Row)
	assert.Equal(t, 1, records[9].Page)
	assert.Equal(t, 10, records[9].Row)
	assert.Equal(t, 2, records[10].Page)
	assert.Equal(t, 1, records[10].Row)
	assert.Equal(t, 3, records[22].Page)
	assert.Equal(t, 3, records[22].Row)
}
