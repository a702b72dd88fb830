package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"procurement/internal/models"
)

func (c *Client) Auctions(ctx context.Context) ([]models.Auction, error) {
	auctions, err := getList[models.Auction](ctx, c, "/auctions/")
	if err != nil {
		return nil, fmt.Errorf("api.Client.Auctions: %w", err)
	}
	return auctions, nil
}

func (c *Client) Auction(ctx context.Context, id models.ID) (models.Auction, error) {
	var auction models.Auction
	err := c.get(ctx, "/auctions/"+url.PathEscape(id.String()), &auction)
	if err != nil {
		return auction, fmt.Errorf("api.Client.Auction: %w", err)
	}
	return auction, nil
}

func (c *Client) AuctionLines(ctx context.Context, id models.ID) ([]models.AuctionLine, error) {
	lines, err := getList[models.AuctionLine](ctx, c, fmt.Sprintf("/auctions/%s/auction-lines", url.PathEscape(id.String())))
	if err != nil {
		return nil, fmt.Errorf("api.Client.AuctionLines: %w", err)
	}
	return lines, nil
}

func (c *Client) Comments(ctx context.Context, id models.ID) ([]models.Comment, error) {
	comments, err := getList[models.Comment](ctx, c, fmt.Sprintf("/auctions/%s/comments", url.PathEscape(id.String())))
	if err != nil {
		return nil, fmt.Errorf("api.Client.Comments: %w", err)
	}
	return comments, nil
}

func (c *Client) PostComment(ctx context.Context, id models.ID, text string) (models.Comment, error) {
	var comment models.Comment
	path := fmt.Sprintf("/auctions/%s/comments", url.PathEscape(id.String()))
	err := c.Request(ctx, http.MethodPost, path, map[string]string{"text": text}, &comment)
	if err != nil {
		return comment, fmt.Errorf("api.Client.PostComment: %w", err)
	}
	return comment, nil
}

type BidRequest struct {
	Currency   string             `json:"currency"`
	TotalPrice *models.Amount     `json:"total_price,omitempty"`
	LinePrices []models.LinePrice `json:"line_prices"`
}

func (c *Client) SubmitBid(ctx context.Context, id models.ID, req BidRequest) (models.Bid, error) {
	var bid models.Bid
	path := fmt.Sprintf("/auctions/%s/bids", url.PathEscape(id.String()))
	err := c.Request(ctx, http.MethodPost, path, req, &bid)
	if err != nil {
		return bid, fmt.Errorf("api.Client.SubmitBid: %w", err)
	}
	return bid, nil
}
