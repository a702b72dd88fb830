package auction

import (
	"fmt"
	"math/rand"
	"procurement/internal/models"
	"testing"

	gofakeit "github.com/brianvoe/gofakeit/v7"
)

func TestEffectiveStatus(t *testing.T) {
	cases := []struct {
		status string
		linked bool
		want   Bucket
	}{
		{"In-Progress", false, InProgress},
		{"in-progress", false, InProgress},
		{" IN-PROGRESS ", false, InProgress},
		{"Draft", false, Draft},
		{"DRAFT", false, Draft},
		{"Closed", false, Completed},
		{"", false, Completed},
		{"something new", false, Completed},
		{"In-Progress", true, Completed},
		{"Draft", true, Completed},
	}

	for _, c := range cases {
		got := EffectiveStatus(models.Auction{Status: c.status}, c.linked)
		if got != c.want {
			t.Errorf("EffectiveStatus(%q, linked=%v) = %s, expected %s", c.status, c.linked, got, c.want)
		}
	}
}

func TestClassifyScenario(t *testing.T) {
	a1 := models.Auction{Id: "A1", Status: "In-Progress"}

	buckets := Classify([]models.Auction{a1}, CompletedIds(nil))
	if len(buckets.InProgress) != 1 || buckets.InProgress[0].Id != "A1" {
		t.Fatalf("Expected A1 in progress without purchase orders, got %+v", buckets)
	}

	orders := []models.PurchaseOrder{{Id: "PO1", AuctionId: "A1"}}
	buckets = Classify([]models.Auction{a1}, CompletedIds(orders))
	if len(buckets.Completed) != 1 || len(buckets.InProgress) != 0 {
		t.Fatalf("Expected A1 completed once a purchase order references it, got %+v", buckets)
	}
}

func TestCompletedIdsNestedLink(t *testing.T) {
	orders := []models.PurchaseOrder{
		{Id: "1", AuctionId: "A1"},
		{Id: "2", Bid: &models.POBid{Id: "B9", BidHeaderDetails: &models.BidHeaderDetails{AuctionId: "A2"}}},
		{Id: "3", Bid: &models.POBid{Id: "B10"}},
		{Id: "4"},
	}

	ids := CompletedIds(orders)
	if len(ids) != 2 {
		t.Fatalf("Expected 2 linked auctions, got %d: %v", len(ids), ids)
	}
	for _, id := range []models.ID{"A1", "A2"} {
		if _, ok := ids[id]; !ok {
			t.Errorf("Expected auction '%s' to be linked", id)
		}
	}
}

func TestClassifyPartition(t *testing.T) {
	statuses := []string{"In-Progress", "Draft", "Closed", "draft", "Archived", ""}

	for round := 0; round < 20; round++ {
		var auctions []models.Auction
		completed := map[models.ID]struct{}{}
		for i := rand.Int()%30 + 1; i > 0; i-- {
			a := models.Auction{
				Id:     models.ID(fmt.Sprintf("%d-%s", i, gofakeit.LetterN(4))),
				Title:  gofakeit.ProductName(),
				Status: statuses[rand.Int()%len(statuses)],
			}
			if rand.Int()%4 == 0 {
				completed[a.Id] = struct{}{}
			}
			auctions = append(auctions, a)
		}

		buckets := Classify(auctions, completed)
		if buckets.Len() != len(auctions) {
			t.Fatalf("Buckets hold %d auctions, input had %d", buckets.Len(), len(auctions))
		}

		seen := map[models.ID]int{}
		for _, bucket := range [][]models.Auction{buckets.InProgress, buckets.Draft, buckets.Completed} {
			for _, a := range bucket {
				seen[a.Id]++
			}
		}
		for _, a := range auctions {
			if seen[a.Id] != 1 {
				t.Errorf("Auction '%s' appears %d times across buckets", a.Id, seen[a.Id])
			}
		}

		for id := range completed {
			if !contains(buckets.Completed, id) {
				t.Errorf("Auction '%s' has a purchase order but is not completed", id)
			}
		}

		if !preservesOrder(auctions, buckets.Completed) || !preservesOrder(auctions, buckets.Draft) || !preservesOrder(auctions, buckets.InProgress) {
			t.Error("Bucket order differs from input order")
		}
	}
}

func contains(list []models.Auction, id models.ID) bool {
	for _, a := range list {
		if a.Id == id {
			return true
		}
	}
	return false
}

// bucket must be a subsequence of input
func preservesOrder(input, bucket []models.Auction) bool {
	i := 0
	for _, a := range input {
		if i < len(bucket) && bucket[i].Id == a.Id {
			i++
		}
	}
	return i == len(bucket)
}
