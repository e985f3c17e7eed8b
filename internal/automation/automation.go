// Package automation drives a Chrome instance to save rendered borrowing-history pages.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"

	"github.com/lepinkainen/shelfcovers/internal/fileutil"
)

const (
	defaultTimeout       = 2 * time.Minute
	selectorPollInterval = 500 * time.Millisecond
)

var (
	chromedpExecAllocator = chromedp.NewExecAllocator
	chromedpContext       = chromedp.NewContext
	chromedpRunner        = chromedp.Run
)

// page queries, replaced in tests
var (
	hasSelector = func(ctx context.Context, selector string) (bool, error) {
		var exists bool
		script := fmt.Sprintf(`!!document.querySelector(%q)`, selector)
		err := chromedpRunner(ctx, chromedp.Evaluate(script, &exists))
		return exists, err
	}
	pageHTML = func(ctx context.Context) (string, error) {
		var content string
		err := chromedpRunner(ctx, chromedp.OuterHTML("html", &content, chromedp.ByQuery))
		return content, err
	}
	currentURL = func(ctx context.Context) (string, error) {
		var url string
		err := chromedpRunner(ctx, chromedp.Location(&url))
		return url, err
	}
)

// SnapshotOptions configures a page snapshot.
//
// Selectors are the item selectors to wait for. With Headless off the browser window
// stays open until one of them shows up, so the user can log in first.
type SnapshotOptions struct {
	URL       string
	Output    string
	Selectors []string
	Headless  bool
	Timeout   time.Duration
}

// SavePage opens opts.URL, waits for any item selector and writes the rendered HTML to
// opts.Output. It returns the number of bytes written.
func SavePage(parentCtx context.Context, opts SnapshotOptions) (int, error) {
	if opts.URL == "" {
		return 0, errors.New("page snapshot requires a URL")
	}
	if opts.Output == "" {
		return 0, errors.New("page snapshot requires an output path")
	}
	if len(opts.Selectors) == 0 {
		return 0, errors.New("page snapshot requires at least one item selector")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	defer cancel()

	allocCtx, cancelAllocator := chromedpExecAllocator(ctx, buildExecAllocatorOptions(opts)...)
	defer cancelAllocator()

	browserCtx, cancelBrowser := chromedpContext(allocCtx)
	defer cancelBrowser()

	logBrowserVersion(browserCtx)

	slog.Info("Opening borrowing history", "url", opts.URL, "headless", opts.Headless)
	if err := chromedpRunner(browserCtx, chromedp.Navigate(opts.URL)); err != nil {
		return 0, fmt.Errorf("failed to navigate to %s: %w", opts.URL, err)
	}

	if !opts.Headless {
		slog.Info("Log in if needed, waiting for the borrowing history to appear", "timeout", timeout)
	}
	sel, err := WaitForSelector(browserCtx, opts.Selectors, "borrowing history items", timeout)
	if err != nil {
		return 0, err
	}
	slog.Debug("Borrowing history rendered", "selector", sel)

	content, err := pageHTML(browserCtx)
	if err != nil {
		return 0, fmt.Errorf("failed to read page HTML: %w", err)
	}

	if _, err := fileutil.WriteFileWithOverwrite(opts.Output, []byte(content), 0644, true); err != nil {
		return 0, fmt.Errorf("failed to save page: %w", err)
	}

	slog.Info("Saved page", "path", opts.Output, "bytes", len(content))
	return len(content), nil
}

func buildExecAllocatorOptions(opts SnapshotOptions) []chromedp.ExecAllocatorOption {
	return []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("no-default-browser-check", true),
	}
}

func logBrowserVersion(ctx context.Context) {
	var product, userAgent string
	err := chromedpRunner(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		_, product, _, userAgent, _, err = browser.GetVersion().Do(ctx)
		return err
	}))
	if err != nil {
		slog.Debug("Failed to query browser version", "error", err)
		return
	}
	slog.Debug("Browser started", "product", product, "user_agent", userAgent)
}

// WaitForSelector polls until one of selectors matches an element and returns it.
func WaitForSelector(ctx context.Context, selectors []string, description string, timeout time.Duration) (string, error) {
	slog.Debug("Waiting for selector", "desc", description, "selectors", strings.Join(selectors, " | "))

	sel, err := PollWithTimeout(ctx, selectorPollInterval, timeout, description, func() (string, bool, error) {
		for _, s := range selectors {
			if found, err := hasSelector(ctx, s); err == nil && found {
				return s, true, nil
			}
		}
		return "", false, nil
	})
	if err != nil {
		url, _ := currentURL(ctx)
		slog.Debug("Selector wait failed", "desc", description, "url", url, "error", err)
		return "", err
	}
	return sel, nil
}

// PollWithTimeout calls checkFunc every interval until it reports found, returns an
// error, the timeout passes or ctx is done.
func PollWithTimeout[T any](ctx context.Context, interval, timeout time.Duration, description string, checkFunc func() (T, bool, error)) (T, error) {
	var zero T
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	tries := 0
	for {
		result, found, err := checkFunc()
		if err != nil {
			return zero, err
		}
		if found {
			return result, nil
		}

		tries++
		if tries%10 == 0 {
			slog.Debug("Polling", "description", description, "tries", tries)
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("polling canceled for %s: %w", description, ctx.Err())
		case <-ticker.C:
			if time.Now().After(deadline) {
				return zero, fmt.Errorf("timeout waiting for %s", description)
			}
		}
	}
}
