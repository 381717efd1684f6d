package chrome

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/mfreirec/leyescrawler/internal/config"
)

type rodNavigator struct {
	browser *rod.Browser
	page    *rod.Page
}

// InitRodNavigator launches a Chrome instance through rod and opens a single
// stealth page for the whole run.
func InitRodNavigator(cfg *config.Config) (Navigator, error) {
	l := launcher.New().
		Headless(cfg.Rod.Headless).
		Leakless(cfg.Rod.Leakless).
		Set("disable-web-security")
	if cfg.Rod.Bin != "" {
		l = l.Bin(cfg.Rod.Bin)
	}
	if cfg.Rod.UserDataDir != "" {
		l = l.UserDataDir(cfg.Rod.UserDataDir)
	}
	if cfg.Rod.NoSandbox {
		l = l.NoSandbox(true)
	}
	if cfg.Rod.Incognito {
		l = l.Set("incognito")
	}
	if cfg.Rod.DisableDevShmUsage {
		l = l.Set("disable-dev-shm-usage")
	}
	if cfg.Rod.DisableBlinkFeatures != "" {
		l = l.Set("disable-blink-features", cfg.Rod.DisableBlinkFeatures)
	}
	if cfg.Rod.UserAgent != "" {
		l = l.Set("user-agent", cfg.Rod.UserAgent)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("open stealth page: %w", err)
	}

	return &rodNavigator{browser: browser, page: page}, nil
}

func (rn *rodNavigator) Navigate(ctx context.Context, url string) error {
	page := rn.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return classify("navigate", err)
	}
	if err := page.WaitLoad(); err != nil {
		return classify("wait load", err)
	}
	return nil
}

func (rn *rodNavigator) WaitReady(ctx context.Context, selector string, timeout time.Duration) error {
	page := rn.page.Context(ctx).Timeout(timeout)
	el, err := page.Element(selector)
	if err != nil {
		return classify("wait ready "+selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return classify("wait visible "+selector, err)
	}
	return nil
}

func (rn *rodNavigator) FindAll(ctx context.Context, selector string) ([]Element, error) {
	els, err := rn.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, classify("find "+selector, err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

func (rn *rodNavigator) PressEscape(ctx context.Context) error {
	if err := rn.page.Context(ctx).Keyboard.Press(input.Escape); err != nil {
		return classify("press escape", err)
	}
	return nil
}

func (rn *rodNavigator) Close() {
	rn.browser.Close()
}

type rodElement struct {
	el *rod.Element
}

func (re *rodElement) Text(ctx context.Context) (string, error) {
	text, err := re.el.Context(ctx).Text()
	if err != nil {
		return "", classify("element text", err)
	}
	return text, nil
}

func (re *rodElement) Attribute(ctx context.Context, name string) (string, error) {
	attr, err := re.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", classify("element attribute "+name, err)
	}
	if attr == nil {
		return "", nil
	}
	return *attr, nil
}

func (re *rodElement) Click(ctx context.Context) error {
	if err := re.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return classify("element click", err)
	}
	return nil
}

func (re *rodElement) Visible(ctx context.Context) (bool, error) {
	visible, err := re.el.Context(ctx).Visible()
	if err != nil {
		return false, classify("element visible", err)
	}
	return visible, nil
}

func (re *rodElement) Enabled(ctx context.Context) (bool, error) {
	// disabled="" still means disabled, so presence is what matters.
	attr, err := re.el.Context(ctx).Attribute("disabled")
	if err != nil {
		return false, classify("element attribute disabled", err)
	}
	return attr == nil, nil
}

func (re *rodElement) FindAll(ctx context.Context, selector string) ([]Element, error) {
	els, err := re.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, classify("element find "+selector, err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}
