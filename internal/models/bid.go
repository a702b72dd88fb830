package models

// LinePrice is a bid's quote for one auction line. A null unit price is no quote.
type LinePrice struct {
	LineId    ID      `json:"auction_line"`
	UnitPrice *Amount `json:"unit_price"`
}

type Bid struct {
	Id               ID          `json:"id"`
	AuctionId        ID          `json:"auction"`
	OrganisationId   ID          `json:"organisation"`
	OrganisationName string      `json:"organisation_name"`
	TotalPrice       *Amount     `json:"total_price"`
	Currency         string      `json:"currency"`
	LinePrices       []LinePrice `json:"line_prices"`
	CreatedAt        Timestamp   `json:"created_at"`
}

// UnitPrice returns the bid's quote for the given line, if any.
func (b Bid) UnitPrice(lineId ID) (float64, bool) {
	for _, lp := range b.LinePrices {
		if lp.LineId == lineId {
			return lp.UnitPrice.Value()
		}
	}
	return 0, false
}

// Total returns the bid's total price when the server sent one.
func (b Bid) Total() (float64, bool) {
	return b.TotalPrice.Value()
}

// Priced reports whether the bid quotes at least one line.
func (b Bid) Priced() bool {
	for _, lp := range b.LinePrices {
		if lp.UnitPrice != nil {
			return true
		}
	}
	return false
}
