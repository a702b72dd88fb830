package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"procurement/internal/models"
)

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	products, err := getList[models.Product](ctx, c, "/product/product-list/")
	if err != nil {
		return nil, fmt.Errorf("api.Client.Products: %w", err)
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id models.ID) (models.Product, error) {
	var p models.Product
	err := c.get(ctx, fmt.Sprintf("/product/product-detail/%s/", url.PathEscape(id.String())), &p)
	if err != nil {
		return p, fmt.Errorf("api.Client.Product: %w", err)
	}
	return p, nil
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var created models.Product
	err := c.Request(ctx, http.MethodPost, "/product/product-list/", p, &created)
	if err != nil {
		return created, fmt.Errorf("api.Client.CreateProduct: %w", err)
	}
	return created, nil
}

// UpdateProduct sends a partial update; the product id travels in the body.
func (c *Client) UpdateProduct(ctx context.Context, changes map[string]any) (models.Product, error) {
	var updated models.Product
	err := c.Request(ctx, http.MethodPatch, "/product/product-list/", changes, &updated)
	if err != nil {
		return updated, fmt.Errorf("api.Client.UpdateProduct: %w", err)
	}
	return updated, nil
}

func (c *Client) Enquiries(ctx context.Context) ([]models.ProductEnquiry, error) {
	enquiries, err := getList[models.ProductEnquiry](ctx, c, "/product/enquiries/")
	if err != nil {
		return nil, fmt.Errorf("api.Client.Enquiries: %w", err)
	}
	return enquiries, nil
}

func (c *Client) UpdateEnquiry(ctx context.Context, id models.ID, status models.EnquiryStatus) error {
	path := fmt.Sprintf("/product/enquiries/%s/", url.PathEscape(id.String()))
	err := c.Request(ctx, http.MethodPatch, path, map[string]models.EnquiryStatus{"int_status": status}, nil)
	if err != nil {
		return fmt.Errorf("api.Client.UpdateEnquiry: %w", err)
	}
	return nil
}

func (c *Client) DeleteEnquiry(ctx context.Context, id models.ID) error {
	path := fmt.Sprintf("/product/enquiries/%s/", url.PathEscape(id.String()))
	err := c.Request(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return fmt.Errorf("api.Client.DeleteEnquiry: %w", err)
	}
	return nil
}
