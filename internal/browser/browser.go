// Package browser renders JavaScript-heavy or anti-bot-fronted pages
// through headless Chrome and hands the final DOM to the adapters as
// plain HTML.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/spf13/viper"
)

// Options configures a render session.
type Options struct {
	Headless bool
	Timeout  time.Duration
	// WaitSelector, when set, blocks until the selector is visible
	// before the DOM is captured.
	WaitSelector string
}

// OptionsFromConfig builds Options from the browser.* viper keys.
func OptionsFromConfig() Options {
	timeout, err := time.ParseDuration(viper.GetString("browser.timeout"))
	if err != nil || timeout <= 0 {
		timeout = 60 * time.Second
	}
	return Options{
		Headless: viper.GetBool("browser.headless"),
		Timeout:  timeout,
	}
}

// Render navigates to url in a fresh browser context and returns the
// serialized DOM after the page has loaded (and the wait selector, if
// any, has appeared).
func Render(parentCtx context.Context, url string, opts Options) (string, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(opts)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
	}
	if opts.WaitSelector != "" {
		actions = append(actions, chromedp.WaitVisible(opts.WaitSelector, chromedp.ByQuery))
	} else {
		actions = append(actions, chromedp.WaitReady("body", chromedp.ByQuery))
	}

	var html string
	actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
		node, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return err
		}
		html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
		return err
	}))

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}
	return html, nil
}

func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	return []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"),
	}
}
