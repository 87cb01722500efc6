package wizard

import (
	"context"
	"strings"
	"time"

	"ordesk/models"
)

// ensureDetails returns the draft's service details, creating the holder the
// first time an image is attached before the form itself is filled in.
func ensureDetails(session *models.WizardSession) *models.ServiceDetails {
	if session.Draft.ServiceDetails == nil {
		session.Draft.ServiceDetails = &models.ServiceDetails{Images: []models.ImageDraft{}}
	}
	return session.Draft.ServiceDetails
}

// AttachImages stages the incoming files and appends them to the draft.
// If the batch would push the draft past MaxImages the whole batch is
// rejected and nothing is staged; there is no partial accept.
func (s *DefaultWizardService) AttachImages(ctx context.Context, sessionID string, files []ImageUpload) (*models.WizardSession, error) {
	if len(files) == 0 {
		return nil, NewValidationError("images", "no files provided")
	}

	session, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Submitting {
		return nil, ErrSubmitting
	}
	if session.ImageCount()+len(files) > MaxImages {
		return nil, ErrImageLimit
	}

	staged := make([]models.ImageDraft, 0, len(files))
	for _, file := range files {
		img, err := s.Staging.Stage(ctx, sessionID, file.Name, file.Content)
		if err != nil {
			// Roll the batch back: nothing from a failed batch sticks.
			for _, d := range staged {
				s.Staging.Release(ctx, d.StagedID)
			}
			return nil, err
		}
		staged = append(staged, models.ImageDraft{
			URL:      img.URL,
			Name:     file.Name,
			StagedID: img.ID,
			Initial:  false,
		})
	}

	updated, err := s.mutate(ctx, sessionID, func(session *models.WizardSession) error {
		details := ensureDetails(session)
		if len(details.Images)+len(staged) > MaxImages {
			return ErrImageLimit
		}
		details.Images = append(details.Images, staged...)
		return nil
	})
	if err != nil {
		for _, d := range staged {
			s.Staging.Release(ctx, d.StagedID)
		}
		return nil, err
	}
	return updated, nil
}

// AttachInitialImages appends pre-existing backend image URLs to the draft.
// Initial images carry no staged file: they are skipped at upload time and
// their URLs are never released.
func (s *DefaultWizardService) AttachInitialImages(ctx context.Context, sessionID string, urls []string) (*models.WizardSession, error) {
	if len(urls) == 0 {
		return nil, NewValidationError("images", "no image urls provided")
	}
	return s.mutate(ctx, sessionID, func(session *models.WizardSession) error {
		details := ensureDetails(session)
		if len(details.Images)+len(urls) > MaxImages {
			return ErrImageLimit
		}
		for _, u := range urls {
			details.Images = append(details.Images, models.ImageDraft{URL: u, Initial: true})
		}
		return nil
	})
}

// RemoveImage drops the image at index, preserving the relative order of the
// rest. A staged preview is released exactly once; initial URLs are never
// passed to the staging store.
func (s *DefaultWizardService) RemoveImage(ctx context.Context, sessionID string, index int) (*models.WizardSession, error) {
	var removed models.ImageDraft
	updated, err := s.mutate(ctx, sessionID, func(session *models.WizardSession) error {
		details := session.Draft.ServiceDetails
		if details == nil || index < 0 || index >= len(details.Images) {
			return NewValidationError("images", "image index out of range")
		}
		removed = details.Images[index]
		details.Images = append(details.Images[:index], details.Images[index+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !removed.Initial && removed.StagedID != "" {
		if err := s.Staging.Release(ctx, removed.StagedID); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// SetServiceDetails validates and stores the intervention fields, then
// advances the wizard. Missing fields block the advance entirely; the
// session's image list is preserved as collected by AttachImages.
func (s *DefaultWizardService) SetServiceDetails(ctx context.Context, sessionID string, details models.ServiceDetails) (*models.WizardSession, error) {
	if details.Date == "" {
		return nil, NewValidationError("date", "intervention date is required")
	}
	if _, err := time.Parse("2006-01-02", details.Date); err != nil {
		return nil, NewValidationError("date", "intervention date must be YYYY-MM-DD")
	}
	if details.Time == "" {
		return nil, NewValidationError("time", "intervention time is required")
	}
	if _, err := time.Parse("15:04", details.Time); err != nil {
		return nil, NewValidationError("time", "intervention time must be HH:MM")
	}
	if strings.TrimSpace(details.Description) == "" {
		return nil, NewValidationError("description", "description is required")
	}

	return s.mutate(ctx, sessionID, func(session *models.WizardSession) error {
		current := ensureDetails(session)
		current.Date = details.Date
		current.Time = details.Time
		current.Description = strings.TrimSpace(details.Description)
		if current.Images == nil {
			current.Images = []models.ImageDraft{}
		}
		session.CurrentStep = clampStep(session.CurrentStep + 1)
		return nil
	})
}
