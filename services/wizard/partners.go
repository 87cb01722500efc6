package wizard

import (
	"context"
	"strings"

	"ordesk/models"
	"ordesk/utils"

	"go.uber.org/zap"
)

// SearchPartners fetches all partners and filters them locally with a
// case-insensitive substring match across name, email and phone number. An
// empty filter returns every partner.
func (s *DefaultWizardService) SearchPartners(ctx context.Context, filter string) ([]models.PartnerRef, error) {
	partners, err := s.CoreAPI.ListPartners(ctx)
	if err != nil {
		return nil, &UpstreamError{Op: "partner lookup", Err: err}
	}
	if filter == "" {
		return partners, nil
	}

	needle := strings.ToLower(filter)
	matched := make([]models.PartnerRef, 0, len(partners))
	for _, p := range partners {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Email), needle) ||
			strings.Contains(strings.ToLower(p.PhoneNumber), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// SelectPartner stores the chosen partner on the draft and advances the
// wizard. When the partner carries a prestataire id, the matching
// prestataire record is resolved best-effort: an absent field, a missing
// match or a failed lookup all leave the match empty without erroring.
func (s *DefaultWizardService) SelectPartner(ctx context.Context, sessionID string, partner models.PartnerRef) (*models.WizardSession, error) {
	if partner.ID == 0 {
		return nil, NewValidationError("partner", "a partner must be selected")
	}

	matched := s.matchPrestataire(ctx, partner)

	return s.mutate(ctx, sessionID, func(session *models.WizardSession) error {
		session.Draft.Partner = &partner
		session.Draft.MatchedPrestataire = matched
		session.CurrentStep = clampStep(session.CurrentStep + 1)
		return nil
	})
}

func (s *DefaultWizardService) matchPrestataire(ctx context.Context, partner models.PartnerRef) *models.Prestataire {
	if partner.PrestataireID == 0 {
		return nil
	}
	prestataires, err := s.CoreAPI.ListPrestataires(ctx)
	if err != nil {
		utils.GetLogger().Debug("best-effort prestataire match skipped",
			zap.Int64("partnerID", partner.ID), zap.Error(err))
		return nil
	}
	for i := range prestataires {
		if prestataires[i].ID == partner.PrestataireID {
			return &prestataires[i]
		}
	}
	return nil
}
