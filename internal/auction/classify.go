// Package auction sorts auctions into the buckets shown on the RFQ screens.
package auction

import "procurement/internal/models"

type Bucket string

const (
	InProgress Bucket = "in_progress"
	Draft      Bucket = "draft"
	Completed  Bucket = "completed"
)

type Buckets struct {
	InProgress []models.Auction `json:"in_progress"`
	Draft      []models.Auction `json:"draft"`
	Completed  []models.Auction `json:"completed"`
}

func (b Buckets) Len() int {
	return len(b.InProgress) + len(b.Draft) + len(b.Completed)
}

// EffectiveStatus resolves the bucket of an auction. An auction that has been
// turned into a purchase order is completed whatever its raw status says.
func EffectiveStatus(a models.Auction, hasLinkedPO bool) Bucket {
	switch {
	case hasLinkedPO:
		return Completed
	case a.StatusIs(models.AuctionInProgress):
		return InProgress
	case a.StatusIs(models.AuctionDraft):
		return Draft
	default:
		return UnknownStatusPolicy(a.Status)
	}
}

// UnknownStatusPolicy decides where auctions with an unrecognised raw status go.
// They are listed as completed.
func UnknownStatusPolicy(status string) Bucket {
	return Completed
}

// Classify partitions auctions into buckets, keeping input order within each bucket.
func Classify(auctions []models.Auction, completedIds map[models.ID]struct{}) Buckets {
	buckets := Buckets{
		InProgress: []models.Auction{},
		Draft:      []models.Auction{},
		Completed:  []models.Auction{},
	}

	for _, a := range auctions {
		_, linked := completedIds[a.Id]
		switch EffectiveStatus(a, linked) {
		case InProgress:
			buckets.InProgress = append(buckets.InProgress, a)
		case Draft:
			buckets.Draft = append(buckets.Draft, a)
		default:
			buckets.Completed = append(buckets.Completed, a)
		}
	}

	return buckets
}

// CompletedIds collects the auctions referenced by purchase orders.
func CompletedIds(orders []models.PurchaseOrder) map[models.ID]struct{} {
	ids := make(map[models.ID]struct{}, len(orders))
	for _, po := range orders {
		if id, ok := po.LinkedAuction(); ok {
			ids[id] = struct{}{}
		}
	}
	return ids
}
