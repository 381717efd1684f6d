package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mfreirec/leyescrawler/internal/infra/crawler/chrome"
)

type PagerState string

const (
	PagerAtPage    PagerState = "at_page"
	PagerExhausted PagerState = "exhausted"
	PagerAborted   PagerState = "aborted"
)

// indicatorPatterns match the page position text in the forms the site has
// used: "Página 3 de 275", "3 of 275", "3 / 275", "3 de 275".
var indicatorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)p[áa]gina\s*(\d+)\s*de\s*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*of\s*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*de\s*(\d+)`),
	regexp.MustCompile(`(\d+)\s*/\s*(\d+)`),
}

// Pager owns the page position. It starts at page 1 and moves only through
// Advance; Exhausted and Aborted are terminal.
type Pager struct {
	nav          chrome.Navigator
	sel          Selectors
	maxPages     int
	tableTimeout time.Duration

	page  int
	state PagerState
}

func NewPager(nav chrome.Navigator, sel Selectors, maxPages int, tableTimeout time.Duration) *Pager {
	return &Pager{
		nav:          nav,
		sel:          sel,
		maxPages:     maxPages,
		tableTimeout: tableTimeout,
		page:         1,
		state:        PagerAtPage,
	}
}

func (p *Pager) Page() int { return p.page }

func (p *Pager) State() PagerState { return p.state }

// Abort moves the pager to its Aborted terminal state after an unrecovered
// navigator failure elsewhere in the run.
func (p *Pager) Abort() { p.state = PagerAborted }

// Advance moves to the next page. It returns false without error when the
// run is over (page limit reached, or no usable next control). Any error
// aborts the pager: pagination failures are not retried, the records
// gathered so far are worth more than a guess at the page position.
func (p *Pager) Advance(ctx context.Context) (bool, error) {
	if p.state != PagerAtPage {
		return false, nil
	}
	if p.maxPages > 0 && p.page >= p.maxPages {
		p.state = PagerExhausted
		return false, nil
	}

	next, err := p.findNextControl(ctx)
	if err != nil {
		p.state = PagerAborted
		return false, err
	}
	if next == nil {
		p.state = PagerExhausted
		return false, nil
	}

	if err := next.Click(ctx); err != nil {
		p.state = PagerAborted
		return false, err
	}
	if err := p.nav.WaitReady(ctx, p.sel.Table, p.tableTimeout); err != nil {
		p.state = PagerAborted
		return false, err
	}

	p.page++
	// Trust the page's own indicator over our counter when it is readable.
	if current, _, ok := p.readIndicator(ctx); ok {
		p.page = current
	}
	return true, nil
}

func (p *Pager) findNextControl(ctx context.Context) (chrome.Element, error) {
	for _, selector := range p.sel.NextControls {
		els, err := p.nav.FindAll(ctx, selector)
		if err != nil {
			return nil, err
		}
		for _, el := range els {
			visible, err := el.Visible(ctx)
			if err != nil {
				return nil, err
			}
			if !visible {
				continue
			}
			enabled, err := el.Enabled(ctx)
			if err != nil {
				return nil, err
			}
			if !enabled {
				continue
			}
			class, err := el.Attribute(ctx, "class")
			if err != nil {
				return nil, err
			}
			if strings.Contains(class, "disabled") {
				continue
			}
			return el, nil
		}
	}
	return nil, nil
}

func (p *Pager) readIndicator(ctx context.Context) (current, total int, ok bool) {
	els, err := p.nav.FindAll(ctx, p.sel.PageIndicator)
	if err != nil || len(els) == 0 {
		return 0, 0, false
	}
	text, err := els[0].Text(ctx)
	if err != nil {
		return 0, 0, false
	}
	return parsePageIndicator(text)
}

func parsePageIndicator(text string) (current, total int, ok bool) {
	for _, pattern := range indicatorPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		current, err1 := strconv.Atoi(match[1])
		total, err2 := strconv.Atoi(match[2])
		if err1 != nil || err2 != nil || current <= 0 || total <= 0 || current > total {
			continue
		}
		return current, total, true
	}
	return 0, 0, false
}
