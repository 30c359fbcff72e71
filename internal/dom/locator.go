// Package dom defines the element addressing and querying contracts shared
// by the live browser session and static document snapshots.
package dom

import (
	"fmt"
	"strings"
)

// Kind selects the query language a locator expression is written in.
type Kind string

const (
	KindCSS   Kind = "css"
	KindXPath Kind = "xpath"
)

// Locator addresses elements within a view. The zero value is invalid.
type Locator struct {
	Kind Kind
	Expr string
}

// CSS builds a locator from a CSS selector.
func CSS(expr string) Locator {
	return Locator{Kind: KindCSS, Expr: expr}
}

// XPath builds a locator from an XPath expression.
func XPath(expr string) Locator {
	return Locator{Kind: KindXPath, Expr: expr}
}

// Parse builds a Locator from its string form. An "xpath:" or "css:" prefix
// selects the kind; anything else is taken as a bare CSS selector, so
// selectors containing pseudo-classes ("li:nth-of-type(2) a") pass through
// untouched.
func Parse(s string) (Locator, error) {
	if expr, ok := strings.CutPrefix(s, "xpath:"); ok {
		return build(KindXPath, expr)
	}
	if expr, ok := strings.CutPrefix(s, "css:"); ok {
		return build(KindCSS, expr)
	}
	return build(KindCSS, s)
}

func build(kind Kind, expr string) (Locator, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Locator{}, fmt.Errorf("empty %s expression", kind)
	}
	return Locator{Kind: kind, Expr: expr}, nil
}

// IsZero reports whether the locator is unset.
func (l Locator) IsZero() bool {
	return l.Expr == ""
}

// String renders the locator in the form Parse accepts.
func (l Locator) String() string {
	if l.Kind == KindXPath {
		return "xpath:" + l.Expr
	}
	return l.Expr
}
