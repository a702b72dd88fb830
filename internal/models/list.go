package models

import "time"

// Accessors used by the list screens to sort and search.

func (a Auction) CreatedTime() time.Time        { return a.CreatedAt.Time }
func (a Auction) BidTotal() int                 { return a.BidCount }
func (po PurchaseOrder) CreatedTime() time.Time { return po.CreatedAt.Time }
func (p Product) CreatedTime() time.Time        { return p.CreatedAt.Time }
func (e ProductEnquiry) CreatedTime() time.Time { return e.CreatedAt.Time }
func (t WorkflowTask) CreatedTime() time.Time   { return t.CreatedAt.Time }
func (c Comment) CreatedTime() time.Time        { return c.CreatedAt.Time }

func AuctionSearchFields(a Auction) []string {
	return []string{a.Title, a.RequisitionNumber, a.OrganisationName}
}

func PurchaseOrderSearchFields(po PurchaseOrder) []string {
	return []string{po.PONumber, po.OrganisationName}
}

func ProductSearchFields(p Product) []string {
	return []string{p.Name, p.Brand, p.Category}
}

func EnquirySearchFields(e ProductEnquiry) []string {
	return []string{e.ProductName, e.OrganisationName, e.Message}
}

func OrganisationSearchFields(o Organisation) []string {
	return []string{o.Name, o.Email}
}

func TaskSearchFields(t WorkflowTask) []string {
	return []string{t.Title, t.Entity}
}
