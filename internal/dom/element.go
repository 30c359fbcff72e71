package dom

// Element is a single node within a view. Implementations wrap either a
// live browser handle or a parsed HTML node.
type Element interface {
	// Attribute returns the value of the named attribute. A missing
	// attribute yields the empty string, not an error.
	Attribute(name string) (string, error)

	// Text returns the element's visible text content.
	Text() (string, error)

	// Element finds the first descendant matching the locator.
	Element(loc Locator) (Element, error)

	// Elements returns every descendant matching the locator. No match
	// yields an empty slice, not an error.
	Elements(loc Locator) ([]Element, error)
}

// View is a queryable document scope: a rendered browser page or a static
// snapshot.
type View interface {
	// Element finds the first element matching the locator anywhere in
	// the view.
	Element(loc Locator) (Element, error)

	// Elements returns every element matching the locator, in document
	// order. No match yields an empty slice, not an error.
	Elements(loc Locator) ([]Element, error)
}
