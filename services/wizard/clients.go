package wizard

import (
	"context"

	"ordesk/models"
)

// SearchClients proxies the client lookup to the core backend. Failures are
// wrapped as upstream errors; the operator retries the search.
func (s *DefaultWizardService) SearchClients(ctx context.Context, query string) ([]models.ClientRef, error) {
	clients, err := s.CoreAPI.SearchClients(ctx, query)
	if err != nil {
		return nil, &UpstreamError{Op: "client lookup", Err: err}
	}
	return clients, nil
}

// SelectClient stores the chosen client on the draft and advances the
// wizard. The client record is otherwise an opaque pass-through; only
// presence of an id is required.
func (s *DefaultWizardService) SelectClient(ctx context.Context, sessionID string, client models.ClientRef) (*models.WizardSession, error) {
	if client.ID == 0 {
		return nil, NewValidationError("client", "a client must be selected")
	}
	return s.mutate(ctx, sessionID, func(session *models.WizardSession) error {
		session.Draft.Client = &client
		session.CurrentStep = clampStep(session.CurrentStep + 1)
		return nil
	})
}
