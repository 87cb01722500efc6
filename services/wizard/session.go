package wizard

import (
	"context"
	"time"

	"ordesk/models"
	"ordesk/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// clampStep bounds a step index to [StepClient, StepConfirm]. Moving past a
// boundary is a no-op, never an error.
func clampStep(step int) int {
	if step < models.StepClient {
		return models.StepClient
	}
	if step > models.StepConfirm {
		return models.StepConfirm
	}
	return step
}

// Start creates an empty wizard session on step 1.
func (s *DefaultWizardService) Start(ctx context.Context, operatorID string) (*models.WizardSession, error) {
	session := &models.WizardSession{
		SessionID:   uuid.New().String(),
		OperatorID:  operatorID,
		CurrentStep: models.StepClient,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns the current session state.
func (s *DefaultWizardService) Get(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.Sessions.Load(ctx, sessionID)
}

// Cancel discards the session and releases every staged preview it owns.
// Initial image URLs belong to the backend and are left untouched.
func (s *DefaultWizardService) Cancel(ctx context.Context, sessionID string) error {
	session, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Submitting {
		return ErrSubmitting
	}
	s.releaseStaged(ctx, session)
	return s.Sessions.Delete(ctx, sessionID)
}

// NextStep advances the wizard, clamped at the confirmation step.
func (s *DefaultWizardService) NextStep(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.mutate(ctx, sessionID, func(session *models.WizardSession) error {
		session.CurrentStep = clampStep(session.CurrentStep + 1)
		return nil
	})
}

// PrevStep moves the wizard back, clamped at the client step.
func (s *DefaultWizardService) PrevStep(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.mutate(ctx, sessionID, func(session *models.WizardSession) error {
		session.CurrentStep = clampStep(session.CurrentStep - 1)
		return nil
	})
}

// mutate loads the session, applies fn and saves the result. Mutations are
// rejected while a confirmation is in flight.
func (s *DefaultWizardService) mutate(ctx context.Context, sessionID string, fn func(*models.WizardSession) error) (*models.WizardSession, error) {
	session, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Submitting {
		return nil, ErrSubmitting
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// releaseStaged releases every staged preview attached to the draft.
func (s *DefaultWizardService) releaseStaged(ctx context.Context, session *models.WizardSession) {
	logger := utils.GetLogger()
	if session.Draft.ServiceDetails == nil {
		return
	}
	for _, img := range session.Draft.ServiceDetails.Images {
		if img.Initial || img.StagedID == "" {
			continue
		}
		if err := s.Staging.Release(ctx, img.StagedID); err != nil {
			logger.Warn("failed to release staged preview",
				zap.String("sessionID", session.SessionID),
				zap.String("stagedID", img.StagedID),
				zap.Error(err))
		}
	}
}
