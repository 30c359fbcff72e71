package extract

import (
	"fmt"
	"log/slog"

	"github.com/IshaanNene/shopstalk/internal/dom"
	"github.com/IshaanNene/shopstalk/internal/types"
)

// Harvester maps the extractor over every product card in a view. The
// enumeration is a point-in-time snapshot of the rendered content; cards
// revealed after the call are not seen.
type Harvester struct {
	extractor *Extractor
	items     dom.Locator
	logger    *slog.Logger
}

func NewHarvester(schema Schema, logger *slog.Logger) *Harvester {
	return &Harvester{
		extractor: NewExtractor(schema),
		items:     schema.Item,
		logger:    logger.With("component", "harvester"),
	}
}

// Harvest extracts a record from each card currently present, preserving
// document order. A card that fails extraction is logged and skipped; it
// never poisons its neighbours. The second return is the skip count. Zero
// cards is a valid harvest.
func (h *Harvester) Harvest(view dom.View) ([]types.Product, int, error) {
	cards, err := view.Elements(h.items)
	if err != nil {
		return nil, 0, fmt.Errorf("enumerate product cards: %w", err)
	}

	products := make([]types.Product, 0, len(cards))
	skipped := 0
	for i, card := range cards {
		product, err := h.extractor.Extract(card)
		if err != nil {
			h.logger.Warn("product skipped", "index", i, "error", err)
			skipped++
			continue
		}
		products = append(products, product)
	}

	h.logger.Debug("view harvested", "products", len(products), "skipped", skipped)
	return products, skipped, nil
}
