package api

import (
	"context"
	"fmt"

	"procurement/internal/models"
)

func (c *Client) Sellers(ctx context.Context) ([]models.Organisation, error) {
	orgs, err := getList[models.Organisation](ctx, c, "/organisations/sellers/")
	if err != nil {
		return nil, fmt.Errorf("api.Client.Sellers: %w", err)
	}
	return orgs, nil
}

func (c *Client) Clients(ctx context.Context) ([]models.Organisation, error) {
	orgs, err := getList[models.Organisation](ctx, c, "/organisations/clients/")
	if err != nil {
		return nil, fmt.Errorf("api.Client.Clients: %w", err)
	}
	return orgs, nil
}
