package collector

import (
	"fmt"
	"log"
	"net/http/cookiejar"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/mfreirec/leyescrawler/internal/config"
)

type collyCrawler struct {
	colly *colly.Collector
}

func InitCollyCrawler(cfg *config.Config) CollyCrawler {
	var opts []colly.CollectorOption
	opts = append(opts,
		colly.MaxDepth(cfg.Colly.MaxDepth),
		colly.Async(cfg.Colly.Async),
		colly.UserAgent(cfg.Colly.UserAgent),
		colly.AllowedDomains(cfg.Colly.AllowedDomains...),
	)
	if cfg.Colly.IgnoreRobotsTxt {
		opts = append(opts, colly.IgnoreRobotsTxt())
	}
	c := colly.NewCollector(opts...)
	c.Limit(&colly.LimitRule{
		Delay:       time.Duration(cfg.Colly.Delay) * time.Second,
		RandomDelay: time.Duration(cfg.Colly.RandomDelay) * time.Second,
	})
	if cfg.Colly.EnableCookieJar {
		jar, err := cookiejar.New(cfg.Colly.CookieJarOptions)
		if err != nil {
			panic(err)
		}
		c.SetCookieJar(jar)
	}
	log.Printf("colly collector ready, maxDepth: %d, async: %v, delay: %ds, randomDelay: %ds",
		cfg.Colly.MaxDepth, cfg.Colly.Async, cfg.Colly.Delay, cfg.Colly.RandomDelay)
	return &collyCrawler{colly: c}
}

func (c *collyCrawler) Visit(url string) error {
	if err := c.colly.Visit(url); err != nil {
		return fmt.Errorf("visit %s: %w", url, err)
	}
	return nil
}

func (c *collyCrawler) Wait() {
	c.colly.Wait()
}

func (c *collyCrawler) OnRequest(headers map[string]string, callback func(r *colly.Request)) {
	c.colly.OnRequest(func(r *colly.Request) {
		for k, v := range headers {
			r.Headers.Set(k, v)
		}
		if callback != nil {
			callback(r)
		}
	})
}

func (c *collyCrawler) OnResponse(callback func(r *colly.Response)) {
	c.colly.OnResponse(callback)
}

func (c *collyCrawler) OnHTML(selector string, callback func(e *colly.HTMLElement)) {
	c.colly.OnHTML(selector, callback)
}

func (c *collyCrawler) OnError(callback func(r *colly.Response, err error)) {
	c.colly.OnError(callback)
}
