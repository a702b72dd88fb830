package comparison

import (
	"math/rand"
	"procurement/internal/models"
	"testing"
)

func bid(id string, total float64, prices map[models.ID]float64) models.Bid {
	b := models.Bid{Id: models.ID(id), TotalPrice: models.NewAmount(total)}
	for line, price := range prices {
		b.LinePrices = append(b.LinePrices, models.LinePrice{LineId: line, UnitPrice: models.NewAmount(price)})
	}
	return b
}

func TestLowestPricePerLineScenario(t *testing.T) {
	lines := []models.AuctionLine{{Id: "L1"}, {Id: "L2"}}
	bids := []models.Bid{
		bid("B1", 100, map[models.ID]float64{"L1": 12.50}),
		bid("B2", 90, map[models.ID]float64{"L1": 9.00}),
		bid("B3", 80, nil),
	}

	lowest := LowestPricePerLine(lines, bids)
	if got, ok := lowest["L1"]; !ok || got != 9.00 {
		t.Errorf("Expected L1 -> 9.00, got %v (present: %v)", got, ok)
	}
	if _, ok := lowest["L2"]; ok {
		t.Error("Line without quotes must be absent from the result")
	}
}

func TestNullPriceIsNoQuote(t *testing.T) {
	lines := []models.AuctionLine{{Id: "L1"}, {Id: "L2"}}
	bids := []models.Bid{
		bid("B1", 100, map[models.ID]float64{"L1": 12.50}),
		bid("B2", 90, map[models.ID]float64{"L1": 9.00}),
		{Id: "B3", LinePrices: []models.LinePrice{{LineId: "L1"}, {LineId: "L2"}}},
	}

	lowest := LowestPricePerLine(lines, bids)
	if got, ok := lowest["L1"]; !ok || got != 9.00 {
		t.Errorf("Expected L1 -> 9.00, got %v (present: %v)", got, ok)
	}
	if got, ok := lowest["L2"]; ok {
		t.Errorf("Line quoted only with null must be absent, got %v", got)
	}

	cmp := Compare(lines, bids)
	if cmp.Rows[1].Lowest != nil || cmp.Rows[0].Quotes[2].UnitPrice != nil {
		t.Errorf("Null quotes must render as absent, got %+v", cmp.Rows)
	}
	if CanAward(bids[2:]) {
		t.Error("Bid with only null prices must not allow award")
	}
}

func TestRankMissingTotalLast(t *testing.T) {
	bids := []models.Bid{
		{Id: "B1"},
		bid("B2", 50, nil),
		bid("B3", 0, nil),
		{Id: "B4"},
	}

	ranked := Rank(bids)
	got := []models.ID{ranked[0].Id, ranked[1].Id, ranked[2].Id, ranked[3].Id}
	want := []models.ID{"B3", "B2", "B1", "B4"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected ranking %v, got %v", want, got)
		}
	}
	if _, ok := bids[0].Total(); ok {
		t.Error("Bid without total must report it as absent")
	}
}

func TestZeroPriceIsAQuote(t *testing.T) {
	lines := []models.AuctionLine{{Id: "L1"}}
	bids := []models.Bid{
		bid("B1", 0, map[models.ID]float64{"L1": 0}),
		bid("B2", 0, map[models.ID]float64{"L1": 3}),
	}

	lowest := LowestPricePerLine(lines, bids)
	if got, ok := lowest["L1"]; !ok || got != 0 {
		t.Errorf("Expected L1 -> 0 (present), got %v (present: %v)", got, ok)
	}
}

func TestNoBids(t *testing.T) {
	lines := []models.AuctionLine{{Id: "L1"}, {Id: "L2"}}
	if lowest := LowestPricePerLine(lines, nil); len(lowest) != 0 {
		t.Errorf("Expected empty result without bids, got %v", lowest)
	}
	if CanAward(nil) {
		t.Error("Award must not be possible without bids")
	}
	if CanAward([]models.Bid{bid("B1", 10, nil)}) {
		t.Error("Award must not be possible when no bid has line prices")
	}
	if !CanAward([]models.Bid{bid("B1", 10, nil), bid("B2", 10, map[models.ID]float64{"L1": 1})}) {
		t.Error("Award must be possible when a bid has line prices")
	}
}

func TestLowestIsTrueMinimum(t *testing.T) {
	lines := []models.AuctionLine{{Id: "L1"}, {Id: "L2"}, {Id: "L3"}, {Id: "L4"}}

	for round := 0; round < 50; round++ {
		var bids []models.Bid
		for i := rand.Int() % 6; i > 0; i-- {
			prices := map[models.ID]float64{}
			for _, line := range lines {
				if rand.Int()%3 != 0 {
					prices[line.Id] = float64(rand.Int()%10000) / 100
				}
			}
			bids = append(bids, bid("B", 0, prices))
		}

		lowest := LowestPricePerLine(lines, bids)
		for _, line := range lines {
			want, quoted := 0.0, false
			for _, b := range bids {
				if p, ok := b.UnitPrice(line.Id); ok && (!quoted || p < want) {
					want, quoted = p, true
				}
			}
			got, ok := lowest[line.Id]
			if ok != quoted {
				t.Fatalf("Line '%s': presence %v, expected %v", line.Id, ok, quoted)
			}
			if quoted && got != want {
				t.Fatalf("Line '%s': lowest %v, expected %v", line.Id, got, want)
			}
		}
	}
}

func TestCompare(t *testing.T) {
	lines := []models.AuctionLine{{Id: "L1"}, {Id: "L2"}}
	bids := []models.Bid{
		bid("B1", 300, map[models.ID]float64{"L1": 12.5, "L2": 4}),
		bid("B2", 200, map[models.ID]float64{"L1": 9}),
		bid("B3", 200, nil),
	}

	cmp := Compare(lines, bids)
	if !cmp.CanAward {
		t.Error("Expected comparison to allow award")
	}
	if len(cmp.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(cmp.Rows))
	}

	row := cmp.Rows[0]
	if Display(row.Lowest) != "9.00" {
		t.Errorf("Expected L1 lowest 9.00, got %s", Display(row.Lowest))
	}
	if len(row.Quotes) != 3 {
		t.Fatalf("Expected a quote cell per bid, got %d", len(row.Quotes))
	}
	if row.Quotes[0].Lowest || !row.Quotes[1].Lowest || row.Quotes[2].UnitPrice != nil {
		t.Errorf("Unexpected quote cells: %+v", row.Quotes)
	}
	if Display(row.Quotes[2].UnitPrice) != "-" {
		t.Errorf("Absent quote should display as a dash, got %s", Display(row.Quotes[2].UnitPrice))
	}

	ranked := []models.ID{cmp.Ranked[0].Id, cmp.Ranked[1].Id, cmp.Ranked[2].Id}
	if ranked[0] != "B2" || ranked[1] != "B3" || ranked[2] != "B1" {
		t.Errorf("Expected ranking B2, B3, B1, got %v", ranked)
	}
}
