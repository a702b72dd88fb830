package models

type POStatus int

const (
	PORejected POStatus = -1
	POPending  POStatus = 0
	POApproved POStatus = 1
)

func ValidPOStatus(s POStatus) bool {
	switch s {
	case PORejected, POPending, POApproved:
		return true
	default:
		return false
	}
}

// POTransitionAllowed reports whether a purchase order may move from one status to another.
// Pending may be approved or rejected, a rejected order may return to pending.
func POTransitionAllowed(from, to POStatus) bool {
	switch from {
	case POPending:
		return to == POApproved || to == PORejected
	case PORejected:
		return to == POPending
	default:
		return false
	}
}

func (s POStatus) String() string {
	switch s {
	case PORejected:
		return "Rejected"
	case POPending:
		return "Pending"
	case POApproved:
		return "Approved"
	default:
		return "Unknown"
	}
}

type BidHeaderDetails struct {
	AuctionId ID `json:"auction"`
}

type POBid struct {
	Id               ID                `json:"id"`
	BidHeaderDetails *BidHeaderDetails `json:"bid_header_details"`
}

type PurchaseOrder struct {
	Id               ID        `json:"id"`
	PONumber         string    `json:"po_number"`
	AuctionId        ID        `json:"auction"`
	Bid              *POBid    `json:"bid"`
	OrganisationName string    `json:"organisation_name"`
	TotalPrice       Amount    `json:"total_price"`
	Status           POStatus  `json:"int_status"`
	CreatedAt        Timestamp `json:"created_at"`
}

// LinkedAuction returns the auction the order was awarded from: the direct
// field when present, otherwise the one reachable through the bid header.
func (po PurchaseOrder) LinkedAuction() (ID, bool) {
	if !po.AuctionId.Empty() {
		return po.AuctionId, true
	}
	if po.Bid != nil && po.Bid.BidHeaderDetails != nil && !po.Bid.BidHeaderDetails.AuctionId.Empty() {
		return po.Bid.BidHeaderDetails.AuctionId, true
	}
	return "", false
}

type PurchaseOrderStatus struct {
	Id              ID        `json:"id,omitempty"`
	PurchaseOrderId ID        `json:"purchase_order"`
	Status          POStatus  `json:"int_status"`
	Remarks         string    `json:"remarks"`
	CreatedAt       Timestamp `json:"created_at,omitempty"`
}
