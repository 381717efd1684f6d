package collector

import (
	"github.com/gocolly/colly/v2"
)

// CollyCrawler is the thin seam over colly used by the API-based mode.
type CollyCrawler interface {
	Visit(url string) error
	Wait()
	OnRequest(headers map[string]string, callback func(r *colly.Request))
	OnResponse(callback func(r *colly.Response))
	OnHTML(selector string, callback func(e *colly.HTMLElement))
	OnError(callback func(r *colly.Response, err error))
}
