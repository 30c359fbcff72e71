// Package extract turns rendered product cards into typed records.
package extract

import "github.com/IshaanNene/shopstalk/internal/dom"

const (
	// titleAttribute holds the full product name; the visible link text is
	// elided by the site.
	titleAttribute = "title"

	// currencySymbol is stripped from price text before parsing.
	currencySymbol = "$"
)

// Schema maps catalog markup onto product fields. Item addresses one card;
// the field locators are resolved relative to it.
type Schema struct {
	Item        dom.Locator
	Title       dom.Locator
	Description dom.Locator
	Price       dom.Locator
	Stars       dom.Locator
	Reviews     dom.Locator
}

// DefaultSchema matches the webscraper.io e-commerce catalog markup.
func DefaultSchema() Schema {
	return Schema{
		Item:        dom.CSS(".thumbnail"),
		Title:       dom.CSS(".title"),
		Description: dom.CSS(".description"),
		Price:       dom.CSS(".price"),
		Stars:       dom.CSS(".ratings .ws-icon-star"),
		Reviews:     dom.CSS(".ratings > p.float-end"),
	}
}
