// Package paginate drives incremental-load controls until a category's
// full content is rendered.
package paginate

import (
	"fmt"
	"log/slog"

	"github.com/IshaanNene/shopstalk/internal/dom"
)

// State is the controller's position in the incremental-load walk.
type State int

const (
	// StateMoreAvailable means further content may still be revealed.
	StateMoreAvailable State = iota
	// StateExhausted means the full content is rendered; the walk is over.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateMoreAvailable:
		return "more_available"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Affordance classifies one observation of the load-more control. The
// three cases are distinguished so each can be logged for what it is.
type Affordance int

const (
	// AffordanceFound: the control is present and visible; clicking it
	// reveals more content.
	AffordanceFound Affordance = iota
	// AffordanceHidden: the control is still in the document but its
	// computed display is none. The site hides it on the last page.
	AffordanceHidden
	// AffordanceAbsent: the control is not in the document at all.
	AffordanceAbsent
)

func (a Affordance) String() string {
	switch a {
	case AffordanceFound:
		return "found"
	case AffordanceHidden:
		return "hidden"
	case AffordanceAbsent:
		return "absent"
	default:
		return fmt.Sprintf("affordance(%d)", int(a))
	}
}

// Pager is the page surface the controller observes and clicks.
type Pager interface {
	// ClassifyAffordance observes the control addressed by loc. It never
	// fails: a control that cannot be observed is reported absent.
	ClassifyAffordance(loc dom.Locator) Affordance

	// ClickAffordance dispatches a direct script click on the control.
	ClickAffordance(loc dom.Locator) error
}

// Controller reveals a category's full content by clicking its load-more
// control until the control disappears or hides.
type Controller struct {
	logger *slog.Logger
}

func NewController(logger *slog.Logger) *Controller {
	return &Controller{logger: logger.With("component", "paginate")}
}

// Exhaust loops from StateMoreAvailable to StateExhausted, clicking the
// control each time it is found. There is no iteration cap and no delay
// between clicks; rendering latency is absorbed by the pager's own element
// wait. The return value is the number of clicks dispatched, which a
// hidden or absent control on the first observation leaves at zero.
func (c *Controller) Exhaust(pager Pager, loc dom.Locator) (int, error) {
	clicks := 0
	state := StateMoreAvailable
	for state == StateMoreAvailable {
		switch pager.ClassifyAffordance(loc) {
		case AffordanceFound:
			c.logger.Info("load-more control found, clicking", "clicks", clicks)
			if err := pager.ClickAffordance(loc); err != nil {
				return clicks, fmt.Errorf("click load-more control %s: %w", loc, err)
			}
			clicks++
		case AffordanceHidden:
			c.logger.Info("load-more control no longer visible", "clicks", clicks)
			state = StateExhausted
		case AffordanceAbsent:
			c.logger.Info("load-more control not found, content exhausted", "clicks", clicks)
			state = StateExhausted
		}
	}
	return clicks, nil
}
