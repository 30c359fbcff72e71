package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/IshaanNene/shopstalk/internal/dom"
	"github.com/IshaanNene/shopstalk/internal/types"
)

// Extractor reads one product record per card element. Extraction is
// all-or-nothing: any field that cannot be located or parsed fails the
// whole record with a FieldExtractionError naming the field.
type Extractor struct {
	schema Schema
}

func NewExtractor(schema Schema) *Extractor {
	return &Extractor{schema: schema}
}

// Extract reads all five product fields from a card. The same card always
// yields the same record or the same error.
func (x *Extractor) Extract(card dom.Element) (types.Product, error) {
	title, err := x.title(card)
	if err != nil {
		return types.Product{}, err
	}
	description, err := x.description(card)
	if err != nil {
		return types.Product{}, err
	}
	price, err := x.price(card)
	if err != nil {
		return types.Product{}, err
	}
	rating, err := x.rating(card)
	if err != nil {
		return types.Product{}, err
	}
	reviews, err := x.reviews(card)
	if err != nil {
		return types.Product{}, err
	}

	return types.Product{
		Title:        title,
		Description:  description,
		Price:        price,
		Rating:       rating,
		NumOfReviews: reviews,
	}, nil
}

// title comes from the link's title attribute, not its truncated display
// text. An empty attribute fails the record.
func (x *Extractor) title(card dom.Element) (string, error) {
	el, err := card.Element(x.schema.Title)
	if err != nil {
		return "", fieldErr("title", err)
	}
	value, err := el.Attribute(titleAttribute)
	if err != nil {
		return "", fieldErr("title", err)
	}
	if value == "" {
		return "", fieldErr("title", types.ErrEmptyTitle)
	}
	return value, nil
}

// description is the element's text; empty text is a valid description.
func (x *Extractor) description(card dom.Element) (string, error) {
	el, err := card.Element(x.schema.Description)
	if err != nil {
		return "", fieldErr("description", err)
	}
	text, err := el.Text()
	if err != nil {
		return "", fieldErr("description", err)
	}
	return strings.TrimSpace(text), nil
}

func (x *Extractor) price(card dom.Element) (float64, error) {
	el, err := card.Element(x.schema.Price)
	if err != nil {
		return 0, fieldErr("price", err)
	}
	text, err := el.Text()
	if err != nil {
		return 0, fieldErr("price", err)
	}
	raw := strings.TrimSpace(strings.ReplaceAll(text, currencySymbol, ""))
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fieldErr("price", err)
	}
	if value < 0 {
		return 0, fieldErr("price", types.ErrNegativePrice)
	}
	return value, nil
}

// rating is the count of star icons. A card with no stars rates zero;
// that is a valid value, not a failure.
func (x *Extractor) rating(card dom.Element) (int, error) {
	stars, err := card.Elements(x.schema.Stars)
	if err != nil {
		return 0, fieldErr("rating", err)
	}
	return len(stars), nil
}

// reviews parses the leading integer of the review summary, e.g. the 12
// of "12 reviews".
func (x *Extractor) reviews(card dom.Element) (int, error) {
	el, err := card.Element(x.schema.Reviews)
	if err != nil {
		return 0, fieldErr("reviews", err)
	}
	text, err := el.Text()
	if err != nil {
		return 0, fieldErr("reviews", err)
	}
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0, fieldErr("reviews", errors.New("empty review summary"))
	}
	count, err := strconv.Atoi(tokens[0])
	if err != nil {
		return 0, fieldErr("reviews", fmt.Errorf("leading token %q: %w", tokens[0], err))
	}
	return count, nil
}

func fieldErr(field string, err error) *types.FieldExtractionError {
	return &types.FieldExtractionError{Field: field, Err: err}
}
