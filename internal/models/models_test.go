package models

import (
	"encoding/json"
	"testing"
)

func TestDecodeAuction(t *testing.T) {
	data := `{
	"id": 15,
	"title": "Office chairs",
	"status": "In-Progress",
	"created_at": "2024-05-02T10:11:12.123456Z",
	"need_by_date": "2024-06-01",
	"bid_count": 3,
	"bids": [
		{"id": "b-1", "total_price": "120.50", "line_prices": [{"auction_line": 3, "unit_price": "0.00"}]},
		{"id": 2, "total_price": 99, "line_prices": []}
	]
	}`

	var a Auction
	err := json.Unmarshal([]byte(data), &a)
	if err != nil {
		t.Fatal(err)
	}

	if a.Id != "15" {
		t.Errorf("Expected numeric id to decode as '15', got '%s'", a.Id)
	}
	if a.CreatedAt.IsZero() || a.NeedByDate.IsZero() {
		t.Error("Expected timestamps to be parsed")
	}
	if len(a.Bids) != 2 || a.Bids[1].Id != "2" {
		t.Fatalf("Unexpected bids: %+v", a.Bids)
	}
	if total, ok := a.Bids[0].Total(); !ok || total != 120.5 {
		t.Errorf("Expected total 120.5, got %v (present: %v)", total, ok)
	}

	price, ok := a.Bids[0].UnitPrice("3")
	if !ok || price != 0 {
		t.Errorf("Expected zero quote for line 3, got %v (present: %v)", price, ok)
	}
	if _, ok = a.Bids[1].UnitPrice("3"); ok {
		t.Error("Expected no quote for line 3 on second bid")
	}
}

func TestDecodeNullPrices(t *testing.T) {
	data := `{"id": 1, "total_price": null, "line_prices": [{"auction_line": "L1", "unit_price": null}]}`

	var b Bid
	err := json.Unmarshal([]byte(data), &b)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := b.UnitPrice("L1"); ok {
		t.Error("Null unit price must not count as a quote")
	}
	if _, ok := b.Total(); ok {
		t.Error("Null total must stay absent")
	}
	if b.Priced() {
		t.Error("Bid without any unit price must not count as priced")
	}
}

func TestDecodeNulls(t *testing.T) {
	var line AuctionLine
	err := json.Unmarshal([]byte(`{"id": null, "target_price": null}`), &line)
	if err != nil {
		t.Fatal(err)
	}
	if !line.Id.Empty() || line.TargetPrice != nil {
		t.Errorf("Expected nulls to stay absent, got %+v", line)
	}

	var a Auction
	err = json.Unmarshal([]byte(`{"created_at": null}`), &a)
	if err != nil {
		t.Fatal(err)
	}
	if !a.CreatedAt.IsZero() {
		t.Error("Expected null timestamp to stay zero")
	}

	var amount Amount
	if err = json.Unmarshal([]byte(`"twelve"`), &amount); err == nil {
		t.Error("Expected malformed amount to fail")
	}
}

func TestLinkedAuction(t *testing.T) {
	var po PurchaseOrder
	err := json.Unmarshal([]byte(`{"id": 1, "bid": {"id": 4, "bid_header_details": {"auction": 77}}}`), &po)
	if err != nil {
		t.Fatal(err)
	}
	id, ok := po.LinkedAuction()
	if !ok || id != "77" {
		t.Errorf("Expected nested link to auction 77, got '%s' (%v)", id, ok)
	}

	po.AuctionId = "12"
	if id, _ = po.LinkedAuction(); id != "12" {
		t.Errorf("Expected direct auction field to win, got '%s'", id)
	}

	if _, ok = (PurchaseOrder{}).LinkedAuction(); ok {
		t.Error("Expected no link on empty purchase order")
	}
}

func TestTransitions(t *testing.T) {
	if !POTransitionAllowed(POPending, POApproved) || !POTransitionAllowed(POPending, PORejected) || !POTransitionAllowed(PORejected, POPending) {
		t.Error("Expected pending <-> rejected and pending -> approved to be allowed")
	}
	if POTransitionAllowed(POApproved, POPending) || POTransitionAllowed(PORejected, POApproved) {
		t.Error("Unexpected purchase order transition allowed")
	}

	if !EnquiryTransitionAllowed(EnquiryPending, EnquiryAcknowledged) || EnquiryTransitionAllowed(EnquiryRejected, EnquiryAcknowledged) {
		t.Error("Unexpected enquiry transition result")
	}

	if ValidTaskAction(TaskPending) || !ValidTaskAction(TaskApproved) || !ValidTaskStatus(TaskPending) {
		t.Error("Unexpected task status validation")
	}
}
