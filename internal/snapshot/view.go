// Package snapshot provides static document views: fully-rendered HTML
// parsed once and queried offline. A snapshot satisfies the same querying
// contract as a live page, so extraction code runs unchanged against
// fixtures, saved pages, and server-rendered fetches.
package snapshot

import (
	"fmt"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/shopstalk/internal/dom"
	"github.com/IshaanNene/shopstalk/internal/types"
)

// View is a parsed HTML document. It implements dom.View; nothing in it
// can be clicked or re-rendered.
type View struct {
	root *html.Node
}

// Load parses a document from a reader.
func Load(r io.Reader) (*View, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &View{root: root}, nil
}

// Open parses a document from a file on disk.
func Open(path string) (*View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (v *View) Element(loc dom.Locator) (dom.Element, error) {
	return firstNode(v.root, loc)
}

func (v *View) Elements(loc dom.Locator) ([]dom.Element, error) {
	nodes, err := queryNodes(v.root, loc)
	if err != nil {
		return nil, err
	}
	return wrapNodes(nodes), nil
}

// node is one element of a parsed document. CSS queries go through
// goquery, XPath queries through htmlquery; both walk the same tree.
type node struct {
	n *html.Node
}

func (e *node) Attribute(name string) (string, error) {
	return htmlquery.SelectAttr(e.n, name), nil
}

func (e *node) Text() (string, error) {
	return htmlquery.InnerText(e.n), nil
}

func (e *node) Element(loc dom.Locator) (dom.Element, error) {
	return firstNode(e.n, loc)
}

func (e *node) Elements(loc dom.Locator) ([]dom.Element, error) {
	nodes, err := queryNodes(e.n, loc)
	if err != nil {
		return nil, err
	}
	return wrapNodes(nodes), nil
}

func firstNode(scope *html.Node, loc dom.Locator) (dom.Element, error) {
	nodes, err := queryNodes(scope, loc)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, &types.ElementNotFoundError{Locator: loc.String()}
	}
	return &node{n: nodes[0]}, nil
}

func queryNodes(scope *html.Node, loc dom.Locator) ([]*html.Node, error) {
	switch loc.Kind {
	case dom.KindXPath:
		nodes, err := htmlquery.QueryAll(scope, loc.Expr)
		if err != nil {
			return nil, fmt.Errorf("xpath %q: %w", loc.Expr, err)
		}
		return nodes, nil
	default:
		return goquery.NewDocumentFromNode(scope).Find(loc.Expr).Nodes, nil
	}
}

func wrapNodes(nodes []*html.Node) []dom.Element {
	out := make([]dom.Element, len(nodes))
	for i, n := range nodes {
		out[i] = &node{n: n}
	}
	return out
}
