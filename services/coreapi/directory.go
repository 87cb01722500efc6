package coreapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ordesk/models"
)

// SearchClients fetches clients matching the search query; an empty query
// returns all clients.
func (c *Client) SearchClients(ctx context.Context, query string) ([]models.ClientRef, error) {
	path := "/clients"
	if query != "" {
		path += "?search=" + url.QueryEscape(query)
	}
	var clients []models.ClientRef
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &clients); err != nil {
		return nil, fmt.Errorf("failed to fetch clients: %w", err)
	}
	return clients, nil
}

// ListPartners fetches all partners.
func (c *Client) ListPartners(ctx context.Context) ([]models.PartnerRef, error) {
	var partners []models.PartnerRef
	if err := c.doJSON(ctx, http.MethodGet, "/partners", nil, &partners); err != nil {
		return nil, fmt.Errorf("failed to fetch partners: %w", err)
	}
	return partners, nil
}

// ListPrestataires fetches all prestataires.
func (c *Client) ListPrestataires(ctx context.Context) ([]models.Prestataire, error) {
	var prestataires []models.Prestataire
	if err := c.doJSON(ctx, http.MethodGet, "/prestataires", nil, &prestataires); err != nil {
		return nil, fmt.Errorf("failed to fetch prestataires: %w", err)
	}
	return prestataires, nil
}
