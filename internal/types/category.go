package types

import "github.com/IshaanNene/shopstalk/internal/dom"

// CategorySpec describes how one category is reached and harvested. Specs
// are plain data consumed in declaration order.
type CategorySpec struct {
	// Name is the destination name for the category's records, without a
	// file extension ("home", "laptops"). Sinks add their own suffix.
	Name string

	// Entry locates the category link in the site navigation. A missing
	// entry is a configuration defect and aborts the run.
	Entry dom.Locator

	// Pagination locates the category's load-more control. Nil means the
	// category renders all of its content up front.
	Pagination *dom.Locator
}

// Paginated reports whether the category declares a load-more control.
func (c CategorySpec) Paginated() bool { return c.Pagination != nil }
