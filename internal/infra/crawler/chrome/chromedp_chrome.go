package chrome

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/mfreirec/leyescrawler/internal/config"
)

type chromedpNavigator struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	pageCtx       context.Context
	pageCancel    context.CancelFunc
	timeoutCancel context.CancelFunc
}

// InitChromedpNavigator builds the allocator/context chain the same way the
// whole session is torn down in Close, in reverse order.
func InitChromedpNavigator(ctx context.Context, cfg *config.Config) Navigator {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Chromedp.Headless),
		chromedp.Flag("disable-blink-features", cfg.Chromedp.DisableBlinkFeatures),
		chromedp.Flag("incognito", cfg.Chromedp.Incognito),
		chromedp.Flag("disable-dev-shm-usage", cfg.Chromedp.DisableDevShmUsage),
		chromedp.Flag("no-sandbox", cfg.Chromedp.NoSandbox),
	)
	if cfg.Chromedp.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.Chromedp.UserDataDir))
	}
	if cfg.Chromedp.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.Chromedp.UserAgent))
	}

	timeoutCancel := context.CancelFunc(func() {})
	if cfg.Chromedp.LifeTime > 0 {
		ctx, timeoutCancel = context.WithTimeout(ctx, time.Duration(cfg.Chromedp.LifeTime)*time.Second)
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	pageCtx, pageCancel := chromedp.NewContext(allocCtx)

	return &chromedpNavigator{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		pageCtx:       pageCtx,
		pageCancel:    pageCancel,
		timeoutCancel: timeoutCancel,
	}
}

func (cn *chromedpNavigator) Navigate(ctx context.Context, url string) error {
	if err := chromedp.Run(cn.pageCtx, chromedp.Navigate(url)); err != nil {
		return classify("navigate", err)
	}
	return nil
}

func (cn *chromedpNavigator) WaitReady(ctx context.Context, selector string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(cn.pageCtx, timeout)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return classify("wait ready "+selector, err)
	}
	return nil
}

func (cn *chromedpNavigator) FindAll(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(cn.pageCtx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, classify("find "+selector, err)
	}
	out := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, &chromedpElement{pageCtx: cn.pageCtx, node: node})
	}
	return out, nil
}

func (cn *chromedpNavigator) PressEscape(ctx context.Context) error {
	if err := chromedp.Run(cn.pageCtx, chromedp.KeyEvent(kb.Escape)); err != nil {
		return classify("press escape", err)
	}
	return nil
}

func (cn *chromedpNavigator) Close() {
	cn.pageCancel()
	cn.allocCancel()
	cn.timeoutCancel()
}

type chromedpElement struct {
	pageCtx context.Context
	node    *cdp.Node
}

func (ce *chromedpElement) Text(ctx context.Context) (string, error) {
	var text string
	err := chromedp.Run(ce.pageCtx,
		chromedp.Text([]cdp.NodeID{ce.node.NodeID}, &text, chromedp.ByNodeID),
	)
	if err != nil {
		return "", classify("element text", err)
	}
	return text, nil
}

func (ce *chromedpElement) Attribute(ctx context.Context, name string) (string, error) {
	var value string
	var ok bool
	err := chromedp.Run(ce.pageCtx,
		chromedp.AttributeValue([]cdp.NodeID{ce.node.NodeID}, name, &value, &ok, chromedp.ByNodeID),
	)
	if err != nil {
		return "", classify("element attribute "+name, err)
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

func (ce *chromedpElement) Click(ctx context.Context) error {
	if err := chromedp.Run(ce.pageCtx, chromedp.MouseClickNode(ce.node)); err != nil {
		return classify("element click", err)
	}
	return nil
}

// Visible asks the DOM agent for the node's box model; a node with no box is
// not rendered.
func (ce *chromedpElement) Visible(ctx context.Context) (bool, error) {
	err := chromedp.Run(ce.pageCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := dom.GetBoxModel().WithNodeID(ce.node.NodeID).Do(ctx)
		return err
	}))
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (ce *chromedpElement) Enabled(ctx context.Context) (bool, error) {
	var value string
	var ok bool
	err := chromedp.Run(ce.pageCtx,
		chromedp.AttributeValue([]cdp.NodeID{ce.node.NodeID}, "disabled", &value, &ok, chromedp.ByNodeID),
	)
	if err != nil {
		return false, classify("element attribute disabled", err)
	}
	return !ok, nil
}

func (ce *chromedpElement) FindAll(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(ce.pageCtx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.FromNode(ce.node), chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, classify("element find "+selector, err)
	}
	out := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, &chromedpElement{pageCtx: ce.pageCtx, node: node})
	}
	return out, nil
}
