package models

import "strings"

// Raw auction statuses the API is known to send. Status is free text on the wire.
const (
	AuctionInProgress = "In-Progress"
	AuctionDraft      = "Draft"
	AuctionClosed     = "Closed"
)

type Auction struct {
	Id                ID            `json:"id"`
	Title             string        `json:"title"`
	RequisitionNumber string        `json:"requisition_number"`
	OrganisationName  string        `json:"organisation_name"`
	IsOpen            bool          `json:"is_open"`
	Status            string        `json:"status"`
	NeedByDate        Timestamp     `json:"need_by_date"`
	CreatedAt         Timestamp     `json:"created_at"`
	BidCount          int           `json:"bid_count"`
	Lines             []AuctionLine `json:"auction_lines,omitempty"`
	Bids              []Bid         `json:"bids,omitempty"`
}

// StatusIs compares the raw status case-insensitively.
func (a Auction) StatusIs(status string) bool {
	return strings.EqualFold(strings.TrimSpace(a.Status), status)
}

type AuctionLine struct {
	Id          ID       `json:"id"`
	AuctionId   ID       `json:"auction"`
	ProductName string   `json:"product_name"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	TargetPrice *Amount  `json:"target_price"`
	Brand       string   `json:"brand"`
	Attachments []string `json:"attachments"`
}

type Comment struct {
	Id        ID        `json:"id"`
	AuctionId ID        `json:"auction"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt Timestamp `json:"created_at"`
}
