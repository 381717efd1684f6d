package service

// Selectors groups every site-coupled CSS selector in one place. The
// defaults target the Asamblea Nacional listing; nothing else in the package
// knows about the site's markup.
type Selectors struct {
	// Table is the readiness probe for a loaded listing page.
	Table string
	// Row matches every candidate row; data rows are told apart by their
	// cell count.
	Row string
	Cell string
	// DocTrigger matches the clickable controls inside the documents cell.
	DocTrigger string
	// ModalCandidates are tried in order when looking for the opened
	// documents dialog.
	ModalCandidates []string
	// ModalLink matches the elements scanned for a document target.
	ModalLink string
	// ModalClose are the dismiss controls tried before falling back to
	// Escape.
	ModalClose []string
	// NextControls are the pagination "next" candidates, tried in order.
	NextControls []string
	// PageIndicator is where the "n of m" text is read from.
	PageIndicator string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Table:      "table",
		Row:        "table tr",
		Cell:       "td",
		DocTrigger: "button, a, span[onclick], i[onclick], [onclick]",
		ModalCandidates: []string{
			".ui-dialog[style*='display: block']",
			".ui-dialog",
			".modal",
		},
		ModalLink: "a, button, span, [onclick]",
		ModalClose: []string{
			".ui-dialog-titlebar-close",
			".close",
			"[aria-label='Close']",
		},
		NextControls: []string{
			".pagination-next",
			"a.next",
			".next",
			"[class*='next']",
		},
		PageIndicator: "body",
	}
}
