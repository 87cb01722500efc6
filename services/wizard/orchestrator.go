package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ordesk/models"
	"ordesk/services/coreapi"
	"ordesk/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// uploadOutcome is the explicit result of one upload attempt. Failures are
// never silently dropped: they become warnings on the submission result.
type uploadOutcome struct {
	path string
	err  error
}

// Confirm runs the linear submission sequence:
//
//  1. create the order — the only fatal step; on failure the session
//     survives and the operator may retry from the confirmation screen;
//  2. upload every staged image concurrently, collecting per-image outcomes
//     in attachment order;
//  3. patch the order with the uploaded paths, if any;
//  4. send one bulk invitation request, if prestataires were selected.
//
// Steps 2-4 are best-effort: their failures surface as warnings, and failed
// patch/invite calls are re-enqueued on the retry queue. The created order
// is never rolled back.
func (s *DefaultWizardService) Confirm(ctx context.Context, sessionID string) (*models.SubmissionResult, error) {
	logger := utils.GetLogger()

	session, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Submitting {
		return nil, ErrSubmitting
	}
	if session.Draft.Client == nil {
		return nil, NewValidationError("client", "no client selected")
	}
	if session.Draft.ServiceDetails == nil {
		return nil, NewValidationError("serviceDetails", "service details are incomplete")
	}
	if session.Draft.Partner == nil {
		return nil, NewValidationError("partner", "no partner selected")
	}

	// Lock the session against further step mutations while in flight.
	session.Submitting = true
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	details := session.Draft.ServiceDetails
	order, err := s.CoreAPI.CreateOrder(ctx, coreapi.CreateOrderRequest{
		ClientID:          session.Draft.Client.ID,
		PartnerID:         session.Draft.Partner.ID,
		DateIntervention:  details.Date,
		HeureIntervention: details.Time,
		Description:       details.Description,
		Images:            []string{},
	})
	if err != nil {
		// Release the lock so the operator can retry.
		session.Submitting = false
		if saveErr := s.Sessions.Save(ctx, session); saveErr != nil {
			logger.Error("failed to unlock wizard session after create failure",
				zap.String("sessionID", sessionID), zap.Error(saveErr))
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	var warnings []string

	paths, uploadWarnings := s.uploadImages(ctx, order.ID, details.Images)
	warnings = append(warnings, uploadWarnings...)

	if len(paths) > 0 {
		if err := s.CoreAPI.UpdateOrderImages(ctx, order.ID, paths); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to attach images to order: %v", err))
			s.enqueueImagePatch(order.ID, paths)
		}
	}
	// Completion always carries the uploaded paths, patched or not.
	order.Images = paths

	invited := prestataireIDs(session.Draft.SelectedPrestataires)
	if len(invited) > 0 {
		if err := s.CoreAPI.InvitePrestataires(ctx, order.ID, invited); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to invite prestataires: %v", err))
			s.enqueueInvitations(order.ID, invited)
		}
	}

	s.recordSubmission(ctx, session, order, paths, invited, warnings)

	s.releaseStaged(ctx, session)
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		logger.Warn("failed to delete wizard session after submission",
			zap.String("sessionID", sessionID), zap.Error(err))
	}

	return &models.SubmissionResult{Order: *order, Warnings: warnings}, nil
}

// uploadImages uploads every staged draft concurrently. Outcomes land in a
// slice indexed by the image's original position, so the compacted path list
// preserves the operator's attachment order. Initial images are skipped:
// they are already associated server-side.
func (s *DefaultWizardService) uploadImages(ctx context.Context, orderID int64, images []models.ImageDraft) ([]string, []string) {
	outcomes := make([]uploadOutcome, len(images))

	var wg sync.WaitGroup
	for i, img := range images {
		if img.Initial || img.StagedID == "" {
			continue
		}
		wg.Add(1)
		go func(i int, img models.ImageDraft) {
			defer wg.Done()
			outcomes[i] = s.uploadOne(ctx, orderID, img)
		}(i, img)
	}
	wg.Wait()

	paths := make([]string, 0, len(images))
	var warnings []string
	for i, outcome := range outcomes {
		if outcome.err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to upload image %q: %v", images[i].Name, outcome.err))
			continue
		}
		if outcome.path != "" {
			paths = append(paths, outcome.path)
		}
	}
	return paths, warnings
}

func (s *DefaultWizardService) uploadOne(ctx context.Context, orderID int64, img models.ImageDraft) uploadOutcome {
	content, err := s.Staging.Open(ctx, img.StagedID)
	if err != nil {
		return uploadOutcome{err: err}
	}
	defer content.Close()

	path, err := s.CoreAPI.UploadOrderFile(ctx, orderID, img.Name, content)
	if err != nil {
		return uploadOutcome{err: err}
	}
	return uploadOutcome{path: path}
}

func prestataireIDs(selection []models.PrestataireOption) []string {
	if len(selection) == 0 {
		return nil
	}
	ids := make([]string, 0, len(selection))
	for _, option := range selection {
		ids = append(ids, option.Value)
	}
	return ids
}

func (s *DefaultWizardService) enqueueImagePatch(orderID int64, paths []string) {
	if s.Retries == nil {
		return
	}
	if err := s.Retries.EnqueueImagePatch(orderID, paths); err != nil {
		utils.GetLogger().Error("failed to enqueue image patch retry",
			zap.Int64("orderID", orderID), zap.Error(err))
	}
}

func (s *DefaultWizardService) enqueueInvitations(orderID int64, ids []string) {
	if s.Retries == nil {
		return
	}
	if err := s.Retries.EnqueueInvitations(orderID, ids); err != nil {
		utils.GetLogger().Error("failed to enqueue invitation retry",
			zap.Int64("orderID", orderID), zap.Error(err))
	}
}

func (s *DefaultWizardService) recordSubmission(ctx context.Context, session *models.WizardSession, order *models.Order, paths, invited, warnings []string) {
	if s.Submissions == nil {
		return
	}
	record := models.SubmissionRecord{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		ClientID:      session.Draft.Client.ID,
		PartnerID:     session.Draft.Partner.ID,
		OperatorID:    session.OperatorID,
		UploadedPaths: paths,
		InvitedIDs:    invited,
		Warnings:      warnings,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Submissions.Insert(ctx, record); err != nil {
		utils.GetLogger().Warn("failed to record submission",
			zap.Int64("orderID", order.ID), zap.Error(err))
	}
}
