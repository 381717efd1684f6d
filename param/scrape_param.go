package param

import "time"

// Scrape configures one extraction run against the listing site.
type Scrape struct {
	Url             string        `json:"url"`
	MaxPages        int           `json:"max_pages"`
	Delay           time.Duration `json:"delay"`
	PageLoadTimeout time.Duration `json:"page_load_timeout"`
	ModalTimeout    time.Duration `json:"modal_timeout"`
	Retry           Retry         `json:"retry"`
}

// Retry is the bounded backoff policy applied to per-row link resolution.
// The delay before attempt n+1 is BaseDelay * BackoffFactor^(n-1).
type Retry struct {
	MaxAttempts   int           `json:"max_attempts"`
	BaseDelay     time.Duration `json:"base_delay"`
	BackoffFactor float64       `json:"backoff_factor"`
}

func (s *Scrape) IsValid() bool {
	return s.Url != "" &&
		s.PageLoadTimeout > 0 &&
		s.ModalTimeout > 0 &&
		s.Retry.MaxAttempts > 0 &&
		s.Retry.BaseDelay > 0 &&
		s.Retry.BackoffFactor >= 1
}

// ApiFetch configures the alternate API-based mode.
type ApiFetch struct {
	Endpoint string `json:"endpoint"`
	Limit    int    `json:"limit"`
}

func (a *ApiFetch) IsValid() bool {
	return a.Endpoint != ""
}
