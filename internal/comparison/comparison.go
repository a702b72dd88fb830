// Package comparison derives the bid comparison table of an auction.
package comparison

import (
	"cmp"
	"slices"
	"strconv"

	"procurement/internal/models"
)

// LowestPricePerLine returns the minimum quoted unit price for each line.
// Lines nobody quoted are left out of the map, a zero price is a real quote.
func LowestPricePerLine(lines []models.AuctionLine, bids []models.Bid) map[models.ID]float64 {
	lowest := make(map[models.ID]float64, len(lines))
	if len(bids) == 0 {
		return lowest
	}

	for _, line := range lines {
		for _, bid := range bids {
			price, ok := bid.UnitPrice(line.Id)
			if !ok {
				continue
			}
			if current, seen := lowest[line.Id]; !seen || price < current {
				lowest[line.Id] = price
			}
		}
	}

	return lowest
}

// CanAward reports whether any bid quotes at least one line.
func CanAward(bids []models.Bid) bool {
	for _, bid := range bids {
		if bid.Priced() {
			return true
		}
	}
	return false
}

// Rank orders bids by total price, cheapest first. Bids without a total go last.
// Equal totals keep input order.
func Rank(bids []models.Bid) []models.Bid {
	ranked := slices.Clone(bids)
	slices.SortStableFunc(ranked, func(a, b models.Bid) int {
		at, aok := a.Total()
		bt, bok := b.Total()
		switch {
		case aok && bok:
			return cmp.Compare(at, bt)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

type Quote struct {
	BidId     models.ID `json:"bid_id"`
	UnitPrice *float64  `json:"unit_price"`
	Lowest    bool      `json:"lowest"`
}

type Row struct {
	Line   models.AuctionLine `json:"line"`
	Lowest *float64           `json:"lowest"`
	Quotes []Quote            `json:"quotes"`
}

type Comparison struct {
	Rows     []Row        `json:"rows"`
	Ranked   []models.Bid `json:"ranked_bids"`
	CanAward bool         `json:"can_award"`
}

// Compare builds the full comparison table: one row per line, one quote per bid.
func Compare(lines []models.AuctionLine, bids []models.Bid) Comparison {
	lowest := LowestPricePerLine(lines, bids)

	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		row := Row{Line: line, Quotes: make([]Quote, 0, len(bids))}
		low, hasMin := lowest[line.Id]
		if hasMin {
			row.Lowest = &low
		}

		for _, bid := range bids {
			q := Quote{BidId: bid.Id}
			if price, ok := bid.UnitPrice(line.Id); ok {
				q.UnitPrice = &price
				q.Lowest = hasMin && price == low
			}
			row.Quotes = append(row.Quotes, q)
		}
		rows = append(rows, row)
	}

	return Comparison{
		Rows:     rows,
		Ranked:   Rank(bids),
		CanAward: CanAward(bids),
	}
}

// Display renders a price for the comparison table, a dash when absent.
func Display(price *float64) string {
	if price == nil {
		return "-"
	}
	return strconv.FormatFloat(*price, 'f', 2, 64)
}
