package browser

import (
	"autoclicker/domain/interfaces"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Options configures the browser host
type Options struct {
	Browser  string
	Headless bool
	Width    int
	Height   int
	StartURL string
}

// tab tracks each injection step on its own so a failed attempt can be
// retried without exposing a binding twice
type tab struct {
	id   string
	page playwright.Page

	injectMu   sync.Mutex
	exposed    map[string]bool
	initScript bool
	injected   bool
}

// Host runs the browser and tracks its pages as tabs. The most recently
// opened or focused page is the active one.
type Host struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	context  playwright.BrowserContext
	listener interfaces.TabListener
	logger   *logrus.Logger

	tabsMutex sync.Mutex
	tabs      []*tab
	active    *tab
}

// NewHost - launches the browser and opens the start page
func NewHost(opts Options, listener interfaces.TabListener, logger *logrus.Logger) (*Host, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browserType, err := pickBrowserType(pw, opts.Browser)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Width,
			Height: opts.Height,
		},
		JavaScriptEnabled: playwright.Bool(true),
		BypassCSP:         playwright.Bool(true),
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	h := &Host{
		pw:       pw,
		browser:  browser,
		context:  context,
		listener: listener,
		logger:   logger,
	}

	context.OnPage(func(newPage playwright.Page) {
		h.attach(newPage)
	})

	page, err := context.NewPage()
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	h.attach(page)

	if opts.StartURL != "" {
		if _, err := page.Goto(opts.StartURL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
			Timeout:   playwright.Float(30000),
		}); err != nil {
			h.Close()
			return nil, fmt.Errorf("failed to open %s: %w", opts.StartURL, err)
		}
	}

	return h, nil
}

func pickBrowserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch strings.ToLower(name) {
	case "", "chromium":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	}
	return nil, fmt.Errorf("unknown browser %q", name)
}

// attach - registers a page as a tab; pages seen twice are ignored
func (h *Host) attach(page playwright.Page) {
	h.tabsMutex.Lock()
	for _, t := range h.tabs {
		if t.page == page {
			h.tabsMutex.Unlock()
			return
		}
	}
	t := &tab{id: "tab-" + uuid.NewString()[:8], page: page}
	h.tabs = append(h.tabs, t)
	h.active = t
	h.tabsMutex.Unlock()

	page.OnClose(func(closedPage playwright.Page) {
		h.detach(closedPage)
	})

	h.logger.WithField("tab", t.id).Debug("Tab opened")
	h.listener.TabOpened(t.id, newPageSurface(page))
}

// detach - drops a closed page and falls back to the first remaining tab
func (h *Host) detach(page playwright.Page) {
	h.tabsMutex.Lock()
	var closed *tab
	for i, t := range h.tabs {
		if t.page == page {
			closed = t
			h.tabs = append(h.tabs[:i], h.tabs[i+1:]...)
			break
		}
	}
	if closed != nil && h.active == closed {
		h.active = nil
		if len(h.tabs) > 0 {
			h.active = h.tabs[0]
		}
	}
	h.tabsMutex.Unlock()

	if closed == nil {
		return
	}
	h.logger.WithField("tab", closed.id).Debug("Tab closed")
	h.listener.TabClosed(closed.id)
}

// ActiveTab - returns the id of the foreground tab
func (h *Host) ActiveTab() (string, bool) {
	h.tabsMutex.Lock()
	defer h.tabsMutex.Unlock()
	if h.active == nil {
		return "", false
	}
	return h.active.id, true
}

// TabCount - returns the number of open tabs
func (h *Host) TabCount() int {
	h.tabsMutex.Lock()
	defer h.tabsMutex.Unlock()
	return len(h.tabs)
}

func (h *Host) focus(id string) {
	h.tabsMutex.Lock()
	defer h.tabsMutex.Unlock()
	for _, t := range h.tabs {
		if t.id == id {
			h.active = t
			return
		}
	}
}

func (h *Host) lookup(id string) *tab {
	h.tabsMutex.Lock()
	defer h.tabsMutex.Unlock()
	for _, t := range h.tabs {
		if t.id == id {
			return t
		}
	}
	return nil
}

// EnsureInjected - exposes the bindings and installs the page script once per tab.
// The script is also registered as an init script so it comes back after navigation.
// Steps that already succeeded are skipped when a previous attempt failed.
func (h *Host) EnsureInjected(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := h.lookup(id)
	if t == nil {
		return fmt.Errorf("unknown tab %s", id)
	}

	t.injectMu.Lock()
	defer t.injectMu.Unlock()
	if t.injected {
		return nil
	}

	if t.exposed == nil {
		t.exposed = make(map[string]bool)
	}
	for _, b := range h.bindings(id) {
		if t.exposed[b.name] {
			continue
		}
		fn := b.fn
		err := t.page.ExposeBinding(b.name, func(source *playwright.BindingSource, args ...interface{}) interface{} {
			fn(args)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to expose %s: %w", b.name, err)
		}
		t.exposed[b.name] = true
	}

	if !t.initScript {
		script := fmt.Sprintf("(%s)();", bootstrapScript)
		if err := t.page.AddInitScript(playwright.Script{Content: playwright.String(script)}); err != nil {
			return fmt.Errorf("failed to add init script: %w", err)
		}
		t.initScript = true
	}

	if _, err := t.page.Evaluate(bootstrapScript); err != nil {
		return fmt.Errorf("failed to install page script: %w", err)
	}
	t.injected = true

	h.logger.WithField("tab", id).Debug("Page script injected")
	return nil
}

type binding struct {
	name string
	fn   func(args []interface{})
}

// bindings - the page-to-host callbacks of one tab
func (h *Host) bindings(id string) []binding {
	return []binding{
		{bindingPoint, func(args []interface{}) {
			p, ok := pointFromArgs(args)
			if !ok {
				h.logger.WithField("tab", id).Warnf("Ignoring malformed point %v", args)
				return
			}
			h.listener.OverlayClicked(id, p)
		}},
		{bindingEscape, func([]interface{}) {
			h.listener.EscapePressed(id)
		}},
		{bindingFocus, func([]interface{}) {
			h.focus(id)
		}},
	}
}

// Close - closes the browser and stops playwright
func (h *Host) Close() error {
	var closeErr error

	if h.context != nil {
		if err := h.context.Close(); err != nil && !isClosedErr(err) {
			closeErr = fmt.Errorf("failed to close context: %w", err)
		}
		h.context = nil
	}

	if h.browser != nil {
		if err := h.browser.Close(); err != nil && !isClosedErr(err) {
			if closeErr != nil {
				closeErr = fmt.Errorf("%v; failed to close browser: %w", closeErr, err)
			} else {
				closeErr = fmt.Errorf("failed to close browser: %w", err)
			}
		}
		h.browser = nil
	}

	if h.pw != nil {
		if err := h.pw.Stop(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
		h.pw = nil
	}

	return closeErr
}

// isClosedErr - the browser may already be gone when we shut down
func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

var (
	_ interfaces.Tabs           = (*Host)(nil)
	_ interfaces.ScriptInjector = (*Host)(nil)
)
