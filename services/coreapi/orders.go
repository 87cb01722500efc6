package coreapi

import (
	"context"
	"fmt"
	"net/http"

	"ordesk/models"
)

// CreateOrder creates a new service order and returns the backend's record.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if req.Images == nil {
		req.Images = []string{}
	}
	var order models.Order
	if err := c.doJSON(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderImages patches the order's image path list after uploads.
func (c *Client) UpdateOrderImages(ctx context.Context, orderID int64, paths []string) error {
	body := struct {
		Images      []string `json:"images"`
		UpdateImage bool     `json:"updateImage"`
	}{Images: paths, UpdateImage: true}

	path := fmt.Sprintf("/orders/%d", orderID)
	if err := c.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("failed to update order images: %w", err)
	}
	return nil
}

// InvitePrestataires sends one bulk invitation request for the order.
func (c *Client) InvitePrestataires(ctx context.Context, orderID int64, prestataireIDs []string) error {
	body := struct {
		OrderID        int64    `json:"order_id"`
		PrestataireIDs []string `json:"prestataire_ids"`
	}{OrderID: orderID, PrestataireIDs: prestataireIDs}

	if err := c.doJSON(ctx, http.MethodPost, "/orders/invitations", body, nil); err != nil {
		return fmt.Errorf("failed to invite prestataires: %w", err)
	}
	return nil
}
