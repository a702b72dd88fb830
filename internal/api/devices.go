package api

import (
	"context"
	"fmt"
	"net/http"
)

type DeviceRegistration struct {
	DeviceId string `json:"device_id"`
	Platform string `json:"platform"`
}

func (c *Client) RegisterDevice(ctx context.Context, path string, reg DeviceRegistration) error {
	err := c.Request(ctx, http.MethodPost, path, reg, nil)
	if err != nil {
		return fmt.Errorf("api.Client.RegisterDevice: %w", err)
	}
	return nil
}

// Ping checks that the API answers at all. Any HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) bool {
	err := c.Request(ctx, http.MethodGet, "/", nil, nil)
	return err == nil || !IsKind(err, KindNetwork)
}
