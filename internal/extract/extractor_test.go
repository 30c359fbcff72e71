package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/IshaanNene/shopstalk/internal/dom"
	"github.com/IshaanNene/shopstalk/internal/snapshot"
	"github.com/IshaanNene/shopstalk/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// card builds one product-card snippet in the catalog markup the default
// schema expects.
type card struct {
	titleAttr   string
	omitTitle   bool
	description string
	omitDesc    bool
	price       string
	omitPrice   bool
	stars       int
	reviews     string
	omitReviews bool
}

func (c card) html() string {
	var b strings.Builder
	b.WriteString(`<div class="thumbnail">`)
	if !c.omitTitle {
		fmt.Fprintf(&b, `<a href="#" class="title" title="%s">trimmed...</a>`, c.titleAttr)
	}
	if !c.omitDesc {
		fmt.Fprintf(&b, `<p class="description">%s</p>`, c.description)
	}
	if !c.omitPrice {
		fmt.Fprintf(&b, `<h4 class="price">%s</h4>`, c.price)
	}
	b.WriteString(`<div class="ratings">`)
	if !c.omitReviews {
		fmt.Fprintf(&b, `<p class="float-end">%s</p>`, c.reviews)
	}
	for i := 0; i < c.stars; i++ {
		b.WriteString(`<span class="ws-icon ws-icon-star"></span>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func goodCard() card {
	return card{
		titleAttr:   "OK Widget",
		description: "fine",
		price:       "$10",
		stars:       1,
		reviews:     "1 reviews",
	}
}

func catalogPage(t *testing.T, cards ...card) dom.View {
	t.Helper()
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, c := range cards {
		b.WriteString(c.html())
	}
	b.WriteString("</body></html>")

	view, err := snapshot.Load(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return view
}

func firstCard(t *testing.T, view dom.View) dom.Element {
	t.Helper()
	el, err := view.Element(DefaultSchema().Item)
	if err != nil {
		t.Fatalf("fixture has no card: %v", err)
	}
	return el
}

// --- Extractor Tests ---

func TestExtractCompleteRecord(t *testing.T) {
	view := catalogPage(t, card{
		titleAttr:   "Widget",
		description: "A widget.",
		price:       "$19.99",
		stars:       3,
		reviews:     "12 reviews",
	})

	x := NewExtractor(DefaultSchema())
	got, err := x.Extract(firstCard(t, view))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := types.Product{
		Title:        "Widget",
		Description:  "A widget.",
		Price:        19.99,
		Rating:       3,
		NumOfReviews: 12,
	}
	if got != want {
		t.Errorf("Extract = %+v, want %+v", got, want)
	}
}

func TestExtractZeroStarsIsValid(t *testing.T) {
	view := catalogPage(t, card{
		titleAttr:   "Bargain Bin",
		description: "",
		price:       "$5",
		stars:       0,
		reviews:     "0 reviews",
	})

	x := NewExtractor(DefaultSchema())
	got, err := x.Extract(firstCard(t, view))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got.Rating != 0 {
		t.Errorf("rating = %d, want 0", got.Rating)
	}
	if got.Description != "" {
		t.Errorf("description = %q, want empty", got.Description)
	}
	if got.Price != 5 {
		t.Errorf("price = %v, want 5", got.Price)
	}
}

func TestExtractWholePriceAndPaddedText(t *testing.T) {
	view := catalogPage(t, card{
		titleAttr:   "Asus VivoBook X441NA",
		description: "  Asus VivoBook, 14in  ",
		price:       " $1149 ",
		stars:       3,
		reviews:     "  8 reviews ",
	})

	x := NewExtractor(DefaultSchema())
	got, err := x.Extract(firstCard(t, view))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got.Price != 1149 {
		t.Errorf("price = %v, want 1149", got.Price)
	}
	if got.Description != "Asus VivoBook, 14in" {
		t.Errorf("description = %q, should be trimmed", got.Description)
	}
	if got.NumOfReviews != 8 {
		t.Errorf("reviews = %d, want 8", got.NumOfReviews)
	}
}

func TestExtractFieldFailures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*card)
		wantField string
	}{
		{
			name:      "title element missing",
			mutate:    func(c *card) { c.omitTitle = true },
			wantField: "title",
		},
		{
			name:      "title attribute empty",
			mutate:    func(c *card) { c.titleAttr = "" },
			wantField: "title",
		},
		{
			name:      "description element missing",
			mutate:    func(c *card) { c.omitDesc = true },
			wantField: "description",
		},
		{
			name:      "price element missing",
			mutate:    func(c *card) { c.omitPrice = true },
			wantField: "price",
		},
		{
			name:      "price not numeric",
			mutate:    func(c *card) { c.price = "$call us" },
			wantField: "price",
		},
		{
			name:      "price negative",
			mutate:    func(c *card) { c.price = "$-5.00" },
			wantField: "price",
		},
		{
			name:      "reviews element missing",
			mutate:    func(c *card) { c.omitReviews = true },
			wantField: "reviews",
		},
		{
			name:      "reviews text empty",
			mutate:    func(c *card) { c.reviews = "   " },
			wantField: "reviews",
		},
		{
			name:      "reviews leading token not an integer",
			mutate:    func(c *card) { c.reviews = "soon" },
			wantField: "reviews",
		},
	}

	x := NewExtractor(DefaultSchema())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := goodCard()
			tt.mutate(&c)
			view := catalogPage(t, c)

			_, err := x.Extract(firstCard(t, view))
			if err == nil {
				t.Fatal("expected extraction to fail")
			}
			var fieldErr *types.FieldExtractionError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected FieldExtractionError, got %T: %v", err, err)
			}
			if fieldErr.Field != tt.wantField {
				t.Errorf("failed field = %q, want %q", fieldErr.Field, tt.wantField)
			}
		})
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	view := catalogPage(t, goodCard())
	el := firstCard(t, view)
	x := NewExtractor(DefaultSchema())

	first, err := x.Extract(el)
	if err != nil {
		t.Fatalf("first Extract failed: %v", err)
	}
	second, err := x.Extract(el)
	if err != nil {
		t.Fatalf("second Extract failed: %v", err)
	}
	if first != second {
		t.Errorf("same card produced different records: %+v vs %+v", first, second)
	}
}

// --- Harvester Tests ---

func TestHarvestSkipsMalformedCards(t *testing.T) {
	bad := goodCard()
	bad.price = "$abc"

	view := catalogPage(t,
		card{titleAttr: "First", description: "d1", price: "$1", stars: 1, reviews: "1 reviews"},
		bad,
		card{titleAttr: "Third", description: "d3", price: "$3", stars: 3, reviews: "3 reviews"},
	)

	h := NewHarvester(DefaultSchema(), testLogger)
	products, skipped, err := h.Harvest(view)
	if err != nil {
		t.Fatalf("Harvest failed: %v", err)
	}

	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if products[0].Title != "First" || products[1].Title != "Third" {
		t.Errorf("survivor order wrong: %q, %q", products[0].Title, products[1].Title)
	}
}

func TestHarvestEmptyView(t *testing.T) {
	view := catalogPage(t)

	h := NewHarvester(DefaultSchema(), testLogger)
	products, skipped, err := h.Harvest(view)
	if err != nil {
		t.Fatalf("Harvest of empty view failed: %v", err)
	}
	if len(products) != 0 || skipped != 0 {
		t.Errorf("empty view harvested (%d, %d), want (0, 0)", len(products), skipped)
	}
}

// --- Benchmarks ---

func BenchmarkExtract(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString(goodCard().html())
	sb.WriteString("</body></html>")
	view, err := snapshot.Load(strings.NewReader(sb.String()))
	if err != nil {
		b.Fatalf("parse fixture: %v", err)
	}
	el, err := view.Element(DefaultSchema().Item)
	if err != nil {
		b.Fatalf("fixture has no card: %v", err)
	}
	x := NewExtractor(DefaultSchema())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x.Extract(el)
	}
}
