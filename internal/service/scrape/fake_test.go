package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mfreirec/leyescrawler/internal/infra/crawler/chrome"
)

// The fakes below script a listing site against the Navigator interface:
// pages hold rows, a trigger click opens the page's modal, the close
// control (or Escape) shuts it again.

type fakeElement struct {
	text     string
	attrs    map[string]string
	visible  bool
	enabled  bool
	children map[string][]chrome.Element
	onClick  func(ctx context.Context) error
}

func newFakeElement(text string) *fakeElement {
	return &fakeElement{text: text, visible: true, enabled: true}
}

func (e *fakeElement) Text(ctx context.Context) (string, error) { return e.text, nil }

func (e *fakeElement) Attribute(ctx context.Context, name string) (string, error) {
	return e.attrs[name], nil
}

func (e *fakeElement) Click(ctx context.Context) error {
	if e.onClick != nil {
		return e.onClick(ctx)
	}
	return nil
}

func (e *fakeElement) Visible(ctx context.Context) (bool, error) { return e.visible, nil }

func (e *fakeElement) Enabled(ctx context.Context) (bool, error) { return e.enabled, nil }

func (e *fakeElement) FindAll(ctx context.Context, selector string) ([]chrome.Element, error) {
	return e.children[selector], nil
}

type fakePage struct {
	rows      []chrome.Element
	modal     *fakeElement
	indicator string
	hasNext   bool
	// nextDisabled presents a next control carrying a disabled class.
	nextDisabled bool
}

type fakeNavigator struct {
	sel   Selectors
	pages []*fakePage
	cur   int

	modalOpen *fakeElement
	escapes   int
	visited   []string
	closed    bool

	navErr   error
	waitErrs map[int]error // page index -> WaitReady failure
}

func newFakeNavigator(pages ...*fakePage) *fakeNavigator {
	return &fakeNavigator{sel: DefaultSelectors(), pages: pages}
}

func (n *fakeNavigator) Navigate(ctx context.Context, url string) error {
	n.visited = append(n.visited, url)
	return n.navErr
}

func (n *fakeNavigator) WaitReady(ctx context.Context, selector string, timeout time.Duration) error {
	if err, ok := n.waitErrs[n.cur]; ok {
		return err
	}
	return nil
}

func (n *fakeNavigator) FindAll(ctx context.Context, selector string) ([]chrome.Element, error) {
	page := n.pages[n.cur]
	switch selector {
	case n.sel.Row:
		return page.rows, nil
	case n.sel.PageIndicator:
		if page.indicator == "" {
			return nil, nil
		}
		return []chrome.Element{newFakeElement(page.indicator)}, nil
	}
	for _, candidate := range n.sel.ModalCandidates {
		if selector != candidate {
			continue
		}
		if n.modalOpen == nil {
			return nil, nil
		}
		return []chrome.Element{n.modalOpen}, nil
	}
	for _, control := range n.sel.NextControls {
		if selector != control {
			continue
		}
		if selector != n.sel.NextControls[0] {
			return nil, nil
		}
		if page.nextDisabled {
			dead := newFakeElement("Siguiente")
			dead.attrs = map[string]string{"class": "pagination-next disabled"}
			return []chrome.Element{dead}, nil
		}
		if !page.hasNext {
			return nil, nil
		}
		next := newFakeElement("Siguiente")
		next.onClick = func(context.Context) error {
			n.cur++
			return nil
		}
		return []chrome.Element{next}, nil
	}
	return nil, nil
}

func (n *fakeNavigator) PressEscape(ctx context.Context) error {
	n.modalOpen = nil
	n.escapes++
	return nil
}

func (n *fakeNavigator) Close() { n.closed = true }

// headerRow has no td cells, only the shape a thead row presents.
func headerRow() *fakeElement { return newFakeElement("Fecha Título Estado") }

// dataRow builds a six-cell row; trigger may be nil for a bare documents
// cell.
func dataRow(sel Selectors, date, title, status, author, committee string, trigger chrome.Element) *fakeElement {
	cells := []chrome.Element{
		newFakeElement(date),
		newFakeElement(title),
		newFakeElement(status),
		newFakeElement(author),
		newFakeElement(committee),
	}
	docs := newFakeElement("Ver documentos")
	if trigger != nil {
		docs.children = map[string][]chrome.Element{sel.DocTrigger: {trigger}}
	}
	cells = append(cells, docs)
	row := newFakeElement("")
	row.children = map[string][]chrome.Element{sel.Cell: cells}
	return row
}

// docTrigger opens the navigator's current-page modal when clicked, after
// failing `failures` times with a transient error.
func docTrigger(n *fakeNavigator, failures int) *fakeElement {
	t := newFakeElement("Documentos")
	t.onClick = func(ctx context.Context) error {
		if failures > 0 {
			failures--
			return &chrome.TransientError{Op: "click trigger", Err: fmt.Errorf("node detached")}
		}
		n.modalOpen = n.pages[n.cur].modal
		return nil
	}
	return t
}

// docTriggerFor behaves like docTrigger but opens a row-specific modal
// instead of the page's shared one.
func docTriggerFor(n *fakeNavigator, modal *fakeElement, failures int) *fakeElement {
	t := newFakeElement("Documentos")
	t.onClick = func(ctx context.Context) error {
		if failures > 0 {
			failures--
			return &chrome.TransientError{Op: "click trigger", Err: fmt.Errorf("node detached")}
		}
		n.modalOpen = modal
		return nil
	}
	return t
}

// pdfLink is a modal candidate resolving through its href.
func pdfLink(href string) *fakeElement {
	l := newFakeElement("Trámite")
	l.attrs = map[string]string{"href": href}
	return l
}

// docModal wires a dialog whose close control clears the navigator's open
// modal, the way a real dialog leaves the DOM.
func docModal(n *fakeNavigator, sel Selectors, links ...chrome.Element) *fakeElement {
	m := newFakeElement("Documentos del proyecto")
	closeBtn := newFakeElement("×")
	closeBtn.onClick = func(context.Context) error {
		n.modalOpen = nil
		return nil
	}
	m.children = map[string][]chrome.Element{
		sel.ModalClose[0]: {closeBtn},
		sel.ModalLink:     links,
	}
	return m
}
