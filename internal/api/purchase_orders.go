package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"procurement/internal/models"
)

func (c *Client) PurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	orders, err := getList[models.PurchaseOrder](ctx, c, "/purchase-orders/")
	if err != nil {
		return nil, fmt.Errorf("api.Client.PurchaseOrders: %w", err)
	}
	return orders, nil
}

func (c *Client) PurchaseOrder(ctx context.Context, id models.ID) (models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := c.get(ctx, fmt.Sprintf("/purchase-orders/%s/", url.PathEscape(id.String())), &po)
	if err != nil {
		return po, fmt.Errorf("api.Client.PurchaseOrder: %w", err)
	}
	return po, nil
}

func (c *Client) PurchaseOrderStatuses(ctx context.Context) ([]models.PurchaseOrderStatus, error) {
	statuses, err := getList[models.PurchaseOrderStatus](ctx, c, "/purchase-order-status/")
	if err != nil {
		return nil, fmt.Errorf("api.Client.PurchaseOrderStatuses: %w", err)
	}
	return statuses, nil
}

func (c *Client) SetPurchaseOrderStatus(ctx context.Context, status models.PurchaseOrderStatus) error {
	err := c.Request(ctx, http.MethodPost, "/purchase-order-status/", status, nil)
	if err != nil {
		return fmt.Errorf("api.Client.SetPurchaseOrderStatus: %w", err)
	}
	return nil
}
