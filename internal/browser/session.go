// Package browser drives a real Chromium instance through Rod and exposes
// it behind the dom querying contracts.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/shopstalk/internal/config"
	"github.com/IshaanNene/shopstalk/internal/dom"
	"github.com/IshaanNene/shopstalk/internal/paginate"
	"github.com/IshaanNene/shopstalk/internal/types"
)

// Session owns one Chromium instance and the single page a traversal
// drives. It implements dom.View for harvesting and paginate.Pager for
// load-more walks. Sessions are not safe for concurrent use; a run owns
// its session exclusively and must Close it when done.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	elementTimeout time.Duration
	navTimeout     time.Duration
	logger         *slog.Logger
}

// Open launches a browser and prepares the session's page.
func Open(cfg config.BrowserConfig, logger *slog.Logger) (*Session, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-web-security").
		Set("disable-features", "IsolateOrigins,site-per-process").
		Set("disable-blink-features", "AutomationControlled")

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(launchURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	var page *rod.Page
	if cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}

	s := &Session{
		launcher:       l,
		browser:        b,
		page:           page,
		elementTimeout: cfg.ElementTimeout,
		navTimeout:     cfg.NavigationTimeout,
		logger:         logger.With("component", "browser"),
	}
	s.logger.Info("browser session ready", "headless", cfg.Headless, "stealth", cfg.Stealth)
	return s, nil
}

// Close shuts down the page, the browser, and the launched process.
func (s *Session) Close() error {
	var firstErr error
	if s.page != nil {
		if err := s.page.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
	s.logger.Info("browser session closed")
	return firstErr
}

// Navigate loads a URL on the session page and waits for it to settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Info("navigating", "url", url)
	page := s.page.Context(ctx)
	if err := page.Timeout(s.navTimeout).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.Timeout(s.navTimeout).WaitStable(300 * time.Millisecond); err != nil {
		s.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
	}
	return nil
}

// find locates one element, waiting up to the element timeout for it to
// appear.
func (s *Session) find(loc dom.Locator) (*rod.Element, error) {
	page := s.page.Timeout(s.elementTimeout)
	var el *rod.Element
	var err error
	if loc.Kind == dom.KindXPath {
		el, err = page.ElementX(loc.Expr)
	} else {
		el, err = page.Element(loc.Expr)
	}
	if err != nil {
		return nil, &types.ElementNotFoundError{Locator: loc.String(), Err: err}
	}
	return el, nil
}

func (s *Session) Element(loc dom.Locator) (dom.Element, error) {
	el, err := s.find(loc)
	if err != nil {
		return nil, err
	}
	return &element{el: el, timeout: s.elementTimeout}, nil
}

// Elements waits for a first match, so content still rendering after a
// click settles before it is read, then snapshots everything present. A
// wait that times out means the view has no matches: an empty result,
// not an error.
func (s *Session) Elements(loc dom.Locator) ([]dom.Element, error) {
	if _, err := s.find(loc); err != nil {
		return nil, nil
	}

	var els rod.Elements
	var err error
	if loc.Kind == dom.KindXPath {
		els, err = s.page.ElementsX(loc.Expr)
	} else {
		els, err = s.page.Elements(loc.Expr)
	}
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", loc, err)
	}

	out := make([]dom.Element, len(els))
	for i, el := range els {
		out[i] = &element{el: el, timeout: s.elementTimeout}
	}
	return out, nil
}

// Click locates an element and dispatches a script click on it. Direct
// dispatch reaches controls a pointer press cannot: links scrolled out of
// view or covered by overlays.
func (s *Session) Click(loc dom.Locator) error {
	el, err := s.find(loc)
	if err != nil {
		return err
	}
	if _, err := el.Eval(`() => this.click()`); err != nil {
		return fmt.Errorf("dispatch click on %s: %w", loc, err)
	}
	return nil
}

// PointerClick locates an element and clicks it with a real mouse press.
func (s *Session) PointerClick(loc dom.Locator) error {
	el, err := s.find(loc)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", loc, err)
	}
	return nil
}

// ClassifyAffordance observes the load-more control. A control that
// cannot be located within the wait budget is absent; a located control
// whose computed display is none is hidden.
func (s *Session) ClassifyAffordance(loc dom.Locator) paginate.Affordance {
	el, err := s.find(loc)
	if err != nil {
		return paginate.AffordanceAbsent
	}

	display, err := el.Eval(`() => getComputedStyle(this).display`)
	if err != nil {
		// Detached between locate and style read; treat as gone.
		return paginate.AffordanceAbsent
	}
	if display.Value.Str() == "none" {
		return paginate.AffordanceHidden
	}
	return paginate.AffordanceFound
}

// ClickAffordance dispatches a script click on the load-more control.
func (s *Session) ClickAffordance(loc dom.Locator) error {
	return s.Click(loc)
}
