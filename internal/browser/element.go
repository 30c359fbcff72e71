package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"

	"github.com/IshaanNene/shopstalk/internal/dom"
	"github.com/IshaanNene/shopstalk/internal/types"
)

// element adapts a live Rod element handle to the dom contract.
type element struct {
	el      *rod.Element
	timeout time.Duration
}

func (e *element) Attribute(name string) (string, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (e *element) Text() (string, error) {
	return e.el.Text()
}

// Element waits for the descendant the way a page-level lookup would, so
// a field still rendering settles before extraction reads it.
func (e *element) Element(loc dom.Locator) (dom.Element, error) {
	scoped := e.el.Timeout(e.timeout)
	var el *rod.Element
	var err error
	if loc.Kind == dom.KindXPath {
		el, err = scoped.ElementX(loc.Expr)
	} else {
		el, err = scoped.Element(loc.Expr)
	}
	if err != nil {
		return nil, &types.ElementNotFoundError{Locator: loc.String(), Err: err}
	}
	return &element{el: el, timeout: e.timeout}, nil
}

// Elements snapshots matching descendants without waiting: a rendered
// card either has its star icons or it does not.
func (e *element) Elements(loc dom.Locator) ([]dom.Element, error) {
	var els rod.Elements
	var err error
	if loc.Kind == dom.KindXPath {
		els, err = e.el.ElementsX(loc.Expr)
	} else {
		els, err = e.el.Elements(loc.Expr)
	}
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", loc, err)
	}

	out := make([]dom.Element, len(els))
	for i, el := range els {
		out[i] = &element{el: el, timeout: e.timeout}
	}
	return out, nil
}
