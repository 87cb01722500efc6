package wizard

import (
	"context"
	"strconv"
	"strings"

	"ordesk/models"
)

// ListPrestataires materializes the prestataire directory for the invitation
// multi-select: value is the id, label the full name, specialties the
// comma-separated wire field split to a list.
func (s *DefaultWizardService) ListPrestataires(ctx context.Context) ([]models.PrestataireOption, error) {
	prestataires, err := s.CoreAPI.ListPrestataires(ctx)
	if err != nil {
		return nil, &UpstreamError{Op: "prestataire lookup", Err: err}
	}

	options := make([]models.PrestataireOption, 0, len(prestataires))
	for _, p := range prestataires {
		options = append(options, models.PrestataireOption{
			Value:       strconv.FormatInt(p.ID, 10),
			Label:       strings.TrimSpace(p.FirstName + " " + p.LastName),
			Email:       p.Email,
			Specialties: splitSpecialties(p.Specialties),
		})
	}
	return options, nil
}

func splitSpecialties(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	specialties := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			specialties = append(specialties, trimmed)
		}
	}
	return specialties
}

// SelectPrestataires stores the invitation selection on the draft and
// advances the wizard. This is selection-only: no invitation is sent until
// the confirmation step, and an empty selection is allowed.
func (s *DefaultWizardService) SelectPrestataires(ctx context.Context, sessionID string, selection []models.PrestataireOption) (*models.WizardSession, error) {
	for _, option := range selection {
		if option.Value == "" {
			return nil, NewValidationError("prestataires", "selection contains an entry without an id")
		}
	}
	return s.mutate(ctx, sessionID, func(session *models.WizardSession) error {
		session.Draft.SelectedPrestataires = selection
		session.CurrentStep = clampStep(session.CurrentStep + 1)
		return nil
	})
}
