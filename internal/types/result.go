package types

// RunResult collects the records of a traversal pass, keyed by category
// name in visit order. It is built by a single goroutine and carries no
// locking.
type RunResult struct {
	order    []string
	products map[string][]Product
}

func NewRunResult() *RunResult {
	return &RunResult{products: make(map[string][]Product)}
}

// Add records a completed category. Adding the same name twice replaces
// the previous records but keeps the original position.
func (r *RunResult) Add(name string, products []Product) {
	if _, seen := r.products[name]; !seen {
		r.order = append(r.order, name)
	}
	r.products[name] = products
}

// Get returns the records harvested for a category, nil if it was never
// visited.
func (r *RunResult) Get(name string) []Product {
	return r.products[name]
}

// Categories lists the visited category names in visit order.
func (r *RunResult) Categories() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Total counts the records across all categories.
func (r *RunResult) Total() int {
	n := 0
	for _, products := range r.products {
		n += len(products)
	}
	return n
}
