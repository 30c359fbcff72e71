// Package traverse walks a catalog's categories in order, revealing and
// harvesting each one through an exclusively owned browser session.
package traverse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IshaanNene/shopstalk/internal/dom"
	"github.com/IshaanNene/shopstalk/internal/extract"
	"github.com/IshaanNene/shopstalk/internal/observability"
	"github.com/IshaanNene/shopstalk/internal/paginate"
	"github.com/IshaanNene/shopstalk/internal/storage"
	"github.com/IshaanNene/shopstalk/internal/types"
)

// DefaultConsent locates the site's cookie banner accept button.
var DefaultConsent = dom.CSS("#cookieBanner > div.acceptContainer > button")

// Session is the browser surface a traversal drives. The driver assumes
// exclusive ownership for the duration of Run; the caller opens the
// session before and releases it after.
type Session interface {
	dom.View
	paginate.Pager

	// Navigate loads a URL on the session's page.
	Navigate(ctx context.Context, url string) error

	// Click locates an element and dispatches a script click on it.
	Click(loc dom.Locator) error

	// PointerClick locates an element and clicks it with a real mouse
	// press.
	PointerClick(loc dom.Locator) error
}

// Options carries the site-level fixtures of a traversal pass.
type Options struct {
	// StartURL is the single page every run opens before walking the
	// category navigation.
	StartURL string

	// Consent locates the cookie banner accept button. The zero value
	// disables the consent pre-pass.
	Consent dom.Locator

	// Schema maps catalog markup onto product fields. The zero value
	// selects the default catalog schema.
	Schema extract.Schema

	// Metrics receives run counters; nil disables them.
	Metrics *observability.Metrics
}

// Driver runs one traversal pass: category by category, in spec order,
// strictly sequentially.
type Driver struct {
	session Session
	sink    storage.Sink
	harvest *extract.Harvester
	pager   *paginate.Controller
	opts    Options
	logger  *slog.Logger
}

// NewDriver wires a traversal pass over an open session and sink.
func NewDriver(session Session, sink storage.Sink, opts Options, logger *slog.Logger) *Driver {
	if opts.Schema.Item.IsZero() {
		opts.Schema = extract.DefaultSchema()
	}
	return &Driver{
		session: session,
		sink:    sink,
		harvest: extract.NewHarvester(opts.Schema, logger),
		pager:   paginate.NewController(logger),
		opts:    opts,
		logger:  logger.With("component", "traverse"),
	}
}

// Run opens the start page once, attempts the consent pre-pass, then
// visits every category in order. The first category failure aborts the
// whole run; the partial result accumulated so far is returned with the
// error.
func (d *Driver) Run(ctx context.Context, specs []types.CategorySpec) (*types.RunResult, error) {
	if err := d.session.Navigate(ctx, d.opts.StartURL); err != nil {
		return types.NewRunResult(), fmt.Errorf("open start page: %w", err)
	}
	d.acceptConsent()

	result := types.NewRunResult()
	for _, spec := range specs {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		products, err := d.category(spec)
		if err != nil {
			return result, fmt.Errorf("category %s: %w", spec.Name, err)
		}
		result.Add(spec.Name, products)
	}

	d.logger.Info("traversal complete", "categories", len(specs), "items", result.Total())
	return result, nil
}

// category reveals one category's full content and persists it. The
// entry locator is static configuration, so failing to click it is
// fatal rather than skippable.
func (d *Driver) category(spec types.CategorySpec) ([]types.Product, error) {
	start := time.Now()
	d.logger.Info("parsing category", "category", spec.Name)

	if err := d.session.Click(spec.Entry); err != nil {
		return nil, fmt.Errorf("entry %s: %w", spec.Entry, err)
	}

	if spec.Paginated() {
		clicks, err := d.pager.Exhaust(d.session, *spec.Pagination)
		if err != nil {
			return nil, err
		}
		d.opts.Metrics.AddLoadMoreClicks(clicks)
	}

	products, skipped, err := d.harvest.Harvest(d.session)
	if err != nil {
		return nil, err
	}

	if err := d.sink.Write(products, spec.Name); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	d.opts.Metrics.CategoryTraversed()
	d.opts.Metrics.AddItemsHarvested(len(products))
	d.opts.Metrics.AddItemsSkipped(skipped)
	d.opts.Metrics.ObserveCategoryDuration(elapsed)

	d.logger.Info("category complete",
		"category", spec.Name,
		"items", len(products),
		"skipped", skipped,
		"elapsed", elapsed,
	)
	return products, nil
}

// acceptConsent clicks the cookie banner away once per run. The banner
// is cosmetic: a missing button is logged and ignored.
func (d *Driver) acceptConsent() {
	if d.opts.Consent.IsZero() {
		return
	}
	if err := d.session.PointerClick(d.opts.Consent); err != nil {
		d.logger.Info("cookie consent button not found", "error", err)
		return
	}
	d.logger.Info("cookie consent accepted")
}
