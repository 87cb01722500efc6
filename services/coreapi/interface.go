package coreapi

import (
	"context"
	"io"

	"ordesk/models"
)

// CreateOrderRequest is the payload for the order-creation endpoint.
type CreateOrderRequest struct {
	ClientID          int64    `json:"client_id"`
	PartnerID         int64    `json:"partner_id"`
	DateIntervention  string   `json:"date_intervention"`
	HeureIntervention string   `json:"heure_intervention"`
	Description       string   `json:"description"`
	Images            []string `json:"images"`
}

// API is the wizard's view of the core REST backend.
type API interface {
	SearchClients(ctx context.Context, query string) ([]models.ClientRef, error)
	ListPartners(ctx context.Context) ([]models.PartnerRef, error)
	ListPrestataires(ctx context.Context) ([]models.Prestataire, error)

	CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error)
	UploadOrderFile(ctx context.Context, orderID int64, filename string, file io.Reader) (string, error)
	UpdateOrderImages(ctx context.Context, orderID int64, paths []string) error
	InvitePrestataires(ctx context.Context, orderID int64, prestataireIDs []string) error
}
