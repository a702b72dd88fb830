package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"procurement/internal/api"
	"procurement/internal/auction"
	"procurement/internal/comparison"
	"procurement/internal/models"
	"procurement/internal/search"

	"golang.org/x/sync/errgroup"
)

type AuctionList struct {
	auction.Buckets
	// Stale is set when purchase orders could not be loaded and
	// completed auctions may still be listed by their raw status.
	Stale bool `json:"stale"`
}

// AuctionBuckets loads auctions and purchase orders in parallel and classifies
// the auctions once both are known. Search, sort and paging apply per bucket.
func (s *Service) AuctionBuckets(ctx context.Context, q ListQuery) (AuctionList, error) {
	if err := q.Validate(); err != nil {
		return AuctionList{}, err
	}
	if err := s.requireSession(ctx); err != nil {
		return AuctionList{}, fmt.Errorf("service.Service.AuctionBuckets: %w", err)
	}

	var auctions []models.Auction
	var orders []models.PurchaseOrder
	var ordersErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		auctions, err = s.client.Auctions(gctx)
		return err
	})
	g.Go(func() error {
		orders, ordersErr = s.client.PurchaseOrders(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return AuctionList{}, fmt.Errorf("service.Service.AuctionBuckets: %w", err)
	}

	list := AuctionList{}
	if ordersErr != nil {
		s.log.Warnf("purchase orders unavailable, classifying by raw status: %s", ordersErr)
		list.Stale = true
	}

	filtered, err := applyQuery(auctions, ListQuery{Search: q.Search, Sort: q.Sort}, models.AuctionSearchFields)
	if err != nil {
		return AuctionList{}, fmt.Errorf("service.Service.AuctionBuckets: %w", err)
	}

	buckets := auction.Classify(filtered, auction.CompletedIds(orders))
	list.InProgress = search.Paginate(buckets.InProgress, q.Limit, q.Offset)
	list.Draft = search.Paginate(buckets.Draft, q.Limit, q.Offset)
	list.Completed = search.Paginate(buckets.Completed, q.Limit, q.Offset)
	return list, nil
}

func (s *Service) Auction(ctx context.Context, id models.ID) (models.Auction, error) {
	if id.Empty() {
		return models.Auction{}, validationErr("auction id is required")
	}
	if err := s.requireSession(ctx); err != nil {
		return models.Auction{}, fmt.Errorf("service.Service.Auction: %w", err)
	}

	a, err := s.client.Auction(ctx, id)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service.Service.Auction: %w", auctionErr(err))
	}
	return a, nil
}

func (s *Service) AuctionLines(ctx context.Context, id models.ID) ([]models.AuctionLine, error) {
	if id.Empty() {
		return nil, validationErr("auction id is required")
	}
	if err := s.requireSession(ctx); err != nil {
		return nil, fmt.Errorf("service.Service.AuctionLines: %w", err)
	}

	lines, err := s.client.AuctionLines(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.Service.AuctionLines: %w", auctionErr(err))
	}
	return lines, nil
}

// Comparison builds the bid comparison table of an auction. Bids come embedded
// in the auction detail, lines from their own endpoint. When that endpoint fails
// the lines embedded in the detail are used, if there are any.
func (s *Service) Comparison(ctx context.Context, id models.ID) (comparison.Comparison, error) {
	if id.Empty() {
		return comparison.Comparison{}, validationErr("auction id is required")
	}
	if err := s.requireSession(ctx); err != nil {
		return comparison.Comparison{}, fmt.Errorf("service.Service.Comparison: %w", err)
	}

	var a models.Auction
	var lines []models.AuctionLine
	var linesErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = s.client.Auction(gctx, id)
		return err
	})
	g.Go(func() error {
		lines, linesErr = s.client.AuctionLines(gctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		return comparison.Comparison{}, fmt.Errorf("service.Service.Comparison: %w", auctionErr(err))
	}

	if linesErr != nil {
		if len(a.Lines) == 0 {
			return comparison.Comparison{}, fmt.Errorf("service.Service.Comparison: %w", auctionErr(linesErr))
		}
		s.log.Warnf("auction %s lines unavailable, using embedded lines: %s", id, linesErr)
	}
	if len(lines) == 0 {
		lines = a.Lines
	}
	return comparison.Compare(lines, a.Bids), nil
}

// auctionErr marks an upstream 404 on an auction endpoint as a missing auction.
func auctionErr(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %w", models.ErrNoAuction, err)
	}
	return err
}

func (s *Service) Comments(ctx context.Context, id models.ID) ([]models.Comment, error) {
	if id.Empty() {
		return nil, validationErr("auction id is required")
	}
	if err := s.requireSession(ctx); err != nil {
		return nil, fmt.Errorf("service.Service.Comments: %w", err)
	}

	comments, err := s.client.Comments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Comments: %w", auctionErr(err))
	}
	return comments, nil
}

// PostComment adds a comment and returns the thread as the server now has it.
func (s *Service) PostComment(ctx context.Context, id models.ID, text string) ([]models.Comment, error) {
	text = strings.TrimSpace(text)
	if id.Empty() {
		return nil, validationErr("auction id is required")
	}
	if len(text) == 0 {
		return nil, validationErr("comment text is required")
	}
	if err := s.requireSession(ctx); err != nil {
		return nil, fmt.Errorf("service.Service.PostComment: %w", err)
	}

	_, err := s.client.PostComment(ctx, id, text)
	if err != nil {
		return nil, fmt.Errorf("service.Service.PostComment: %w", err)
	}

	comments, err := s.client.Comments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.Service.PostComment: %w", err)
	}
	return comments, nil
}

// SubmitBid validates the quote against the auction's lines before sending it.
// When no total is given it is computed from unit prices and quantities.
func (s *Service) SubmitBid(ctx context.Context, id models.ID, req api.BidRequest) (models.Bid, error) {
	if id.Empty() {
		return models.Bid{}, validationErr("auction id is required")
	}
	if len(strings.TrimSpace(req.Currency)) == 0 {
		return models.Bid{}, validationErr("currency is required")
	}
	if len(req.LinePrices) == 0 {
		return models.Bid{}, validationErr("at least one line price is required")
	}
	for _, lp := range req.LinePrices {
		price, ok := lp.UnitPrice.Value()
		if !ok {
			return models.Bid{}, validationErr("unit price of line %s is required", lp.LineId)
		}
		if price < 0 {
			return models.Bid{}, validationErr("unit price of line %s is negative", lp.LineId)
		}
	}
	if total, ok := req.TotalPrice.Value(); ok && total < 0 {
		return models.Bid{}, validationErr("total price is negative")
	}
	if err := s.requireSession(ctx); err != nil {
		return models.Bid{}, fmt.Errorf("service.Service.SubmitBid: %w", err)
	}

	lines, err := s.client.AuctionLines(ctx, id)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service.Service.SubmitBid: %w", err)
	}
	if len(lines) == 0 {
		return models.Bid{}, fmt.Errorf("service.Service.SubmitBid: %w", models.ErrNoLines)
	}

	quantities := make(map[models.ID]float64, len(lines))
	for _, line := range lines {
		quantities[line.Id] = line.Quantity
	}

	var total float64
	for _, lp := range req.LinePrices {
		qty, ok := quantities[lp.LineId]
		if !ok {
			return models.Bid{}, fmt.Errorf("service.Service.SubmitBid: %w: %s", models.ErrUnknownLine, lp.LineId)
		}
		total += lp.UnitPrice.Float() * qty
	}
	if req.TotalPrice == nil {
		req.TotalPrice = models.NewAmount(total)
	}

	bid, err := s.client.SubmitBid(ctx, id, req)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service.Service.SubmitBid: %w", err)
	}
	s.log.Infof("bid %s submitted on auction %s", bid.Id, id)
	return bid, nil
}
