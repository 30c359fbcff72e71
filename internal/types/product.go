package types

import (
	"fmt"
	"strconv"
)

// ProductFields is the fixed column order for tabular exports.
var ProductFields = []string{"title", "description", "price", "rating", "numOfReviews"}

// Product is one extracted catalog record. Records are complete by
// construction: extraction either fills every field or fails.
type Product struct {
	Title        string  `json:"title" bson:"title"`
	Description  string  `json:"description" bson:"description"`
	Price        float64 `json:"price" bson:"price"`
	Rating       int     `json:"rating" bson:"rating"`
	NumOfReviews int     `json:"numOfReviews" bson:"numOfReviews"`
}

// Row renders the record as CSV column values in ProductFields order.
// The price keeps its shortest decimal form, so 1149.0 prints as "1149".
func (p Product) Row() []string {
	return []string{
		p.Title,
		p.Description,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		strconv.Itoa(p.Rating),
		strconv.Itoa(p.NumOfReviews),
	}
}

func (p Product) String() string {
	return fmt.Sprintf("%s ($%.2f, %d stars, %d reviews)", p.Title, p.Price, p.Rating, p.NumOfReviews)
}
