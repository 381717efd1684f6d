package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/mfreirec/leyescrawler/internal/domain/entity"
	"github.com/mfreirec/leyescrawler/internal/infra/crawler/chrome"
)

const modalPollInterval = 150 * time.Millisecond

// onclickDocPattern pulls a document URL out of an inline onclick handler,
// e.g. onclick="window.open('…/tramite.pdf')".
var onclickDocPattern = regexp.MustCompile(`["']([^"']*\.pdf[^"']*)["']`)

// ResolveDocumentLink clicks the row's documents control, waits for the
// dialog and scans it for a document target. The dialog is closed on every
// path once it has opened; an open dialog would block every later row.
//
// A dialog that never opens is transient (the caller retries). A dialog
// that opens with nothing clickable is a terminal no-document result:
// retrying an empty dialog will not change its contents.
func ResolveDocumentLink(ctx context.Context, nav chrome.Navigator, row Row, sel Selectors, timeout time.Duration) (string, entity.LinkReason, error) {
	cells, err := row.Handle.FindAll(ctx, sel.Cell)
	if err != nil {
		return "", "", err
	}
	if len(cells) <= colDocs {
		return "", "", fmt.Errorf("row %d: documents cell missing", row.Index)
	}

	triggers, err := cells[colDocs].FindAll(ctx, sel.DocTrigger)
	if err != nil {
		return "", "", err
	}
	if len(triggers) == 0 {
		return "", entity.LinkNoDocument, nil
	}
	trigger := triggers[0]
	if visible, err := trigger.Visible(ctx); err != nil || !visible {
		if err != nil {
			return "", "", err
		}
		return "", entity.LinkNoDocument, nil
	}

	if err := trigger.Click(ctx); err != nil {
		return "", "", err
	}

	modal, err := waitModal(ctx, nav, sel, timeout)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if err := closeModal(ctx, nav, modal, sel); err != nil {
			log.Printf("close documents modal: %v", err)
		}
	}()

	return scanModal(ctx, modal, sel)
}

// waitModal sweeps the candidate selectors until one matches a visible
// element or the timeout elapses.
func waitModal(ctx context.Context, nav chrome.Navigator, sel Selectors, timeout time.Duration) (chrome.Element, error) {
	deadline := time.Now().Add(timeout)
	for {
		for _, candidate := range sel.ModalCandidates {
			els, err := nav.FindAll(ctx, candidate)
			if err != nil {
				return nil, err
			}
			for _, el := range els {
				visible, err := el.Visible(ctx)
				if err != nil {
					return nil, err
				}
				if visible {
					return el, nil
				}
			}
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("after %s: %w", timeout, errModalNotVisible)
		}
		timer := time.NewTimer(modalPollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func scanModal(ctx context.Context, modal chrome.Element, sel Selectors) (string, entity.LinkReason, error) {
	candidates, err := modal.FindAll(ctx, sel.ModalLink)
	if err != nil {
		return "", "", err
	}
	if len(candidates) == 0 {
		return "", entity.LinkNoDocument, nil
	}

	for _, el := range candidates {
		href, err := el.Attribute(ctx, "href")
		if err != nil {
			return "", "", err
		}
		if strings.Contains(strings.ToLower(href), ".pdf") {
			return href, entity.LinkResolved, nil
		}
		onclick, err := el.Attribute(ctx, "onclick")
		if err != nil {
			return "", "", err
		}
		if match := onclickDocPattern.FindStringSubmatch(onclick); match != nil {
			return match[1], entity.LinkResolved, nil
		}
	}

	// The dialog had candidates but none pointed at a document. Kept
	// distinct from no_document for the audit trail.
	return "", entity.LinkExtractFailed, nil
}

// closeModal tries the dismiss controls in order and falls back to Escape.
func closeModal(ctx context.Context, nav chrome.Navigator, modal chrome.Element, sel Selectors) error {
	for _, closer := range sel.ModalClose {
		els, err := modal.FindAll(ctx, closer)
		if err != nil {
			continue
		}
		for _, el := range els {
			visible, err := el.Visible(ctx)
			if err != nil || !visible {
				continue
			}
			if err := el.Click(ctx); err == nil {
				return nil
			}
		}
	}
	return nav.PressEscape(ctx)
}
