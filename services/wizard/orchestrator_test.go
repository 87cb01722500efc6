package wizard_test

import (
	"context"
	"fmt"
	"testing"

	"ordesk/models"
	"ordesk/services/coreapi"
	"ordesk/services/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDraft walks the wizard up to the confirmation step.
func buildDraft(t *testing.T, svc *wizard.DefaultWizardService, uploads []wizard.ImageUpload, initialURLs []string, selection []models.PrestataireOption) string {
	t.Helper()
	ctx := context.Background()

	session, err := svc.Start(ctx, "op-1")
	require.NoError(t, err)
	sessionID := session.SessionID

	_, err = svc.SelectClient(ctx, sessionID, models.ClientRef{ID: 1, FirstName: "Marie"})
	require.NoError(t, err)

	if len(initialURLs) > 0 {
		_, err = svc.AttachInitialImages(ctx, sessionID, initialURLs)
		require.NoError(t, err)
	}
	if len(uploads) > 0 {
		_, err = svc.AttachImages(ctx, sessionID, uploads)
		require.NoError(t, err)
	}

	_, err = svc.SetServiceDetails(ctx, sessionID, models.ServiceDetails{
		Date:        "2024-06-20",
		Time:        "10:00",
		Description: "Fix leak",
	})
	require.NoError(t, err)

	_, err = svc.SelectPartner(ctx, sessionID, models.PartnerRef{ID: 5, Name: "Acme"})
	require.NoError(t, err)

	_, err = svc.SelectPrestataires(ctx, sessionID, selection)
	require.NoError(t, err)

	return sessionID
}

func TestConfirmUploadsOnlyFileBackedDrafts(t *testing.T) {
	svc, _, stagingStore, api, _ := newTestService()
	ctx := context.Background()

	api.createOrderFn = func(req coreapi.CreateOrderRequest) (*models.Order, error) {
		return &models.Order{ID: 42, ClientID: req.ClientID, PartnerID: req.PartnerID}, nil
	}
	api.uploadFn = func(orderID int64, filename string) (string, error) {
		return fmt.Sprintf("orders/%d/a.jpg", orderID), nil
	}

	sessionID := buildDraft(t, svc,
		[]wizard.ImageUpload{upload("a.jpg", "fresh")},
		[]string{"https://core.example/existing.jpg"},
		nil)

	result, err := svc.Confirm(ctx, sessionID)
	require.NoError(t, err)

	// Only the file-backed draft is uploaded; the initial image is skipped.
	require.Len(t, api.uploadCalls, 1)
	assert.Equal(t, "a.jpg", api.uploadCalls[0])

	require.Len(t, api.patchCalls, 1)
	assert.Equal(t, int64(42), api.patchCalls[0].orderID)
	assert.Equal(t, []string{"orders/42/a.jpg"}, api.patchCalls[0].paths)

	// No prestataires selected: no invitation request.
	assert.Empty(t, api.inviteCalls)

	assert.Equal(t, int64(42), result.Order.ID)
	assert.Equal(t, []string{"orders/42/a.jpg"}, result.Order.Images)
	assert.Empty(t, result.Warnings)

	// Session consumed, staged preview released.
	_, err = svc.Get(ctx, sessionID)
	assert.ErrorIs(t, err, wizard.ErrSessionNotFound)
	assert.Equal(t, 0, stagingStore.stagedCount())
}

func TestConfirmCreateFailureAbortsEverything(t *testing.T) {
	svc, _, _, api, _ := newTestService()
	ctx := context.Background()

	api.createOrderFn = func(req coreapi.CreateOrderRequest) (*models.Order, error) {
		return nil, &coreapi.APIError{Status: 422, Message: "date_intervention is invalid"}
	}

	sessionID := buildDraft(t, svc,
		[]wizard.ImageUpload{upload("a.jpg", "fresh")},
		nil,
		[]models.PrestataireOption{{Value: "9", Label: "Jean Dupont"}})

	_, err := svc.Confirm(ctx, sessionID)
	require.Error(t, err)

	// The collaborator's structured message is surfaced as-is.
	var apiErr *coreapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "date_intervention is invalid", apiErr.Message)

	// Nothing past step 1 runs.
	assert.Empty(t, api.uploadCalls)
	assert.Empty(t, api.patchCalls)
	assert.Empty(t, api.inviteCalls)

	// The session survives, unlocked, so the operator can retry.
	session, err := svc.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, session.Submitting)
	assert.Equal(t, 1, session.ImageCount())
}

func TestConfirmEndToEndWithInvitations(t *testing.T) {
	svc, _, _, api, _ := newTestService()
	ctx := context.Background()

	api.createOrderFn = func(req coreapi.CreateOrderRequest) (*models.Order, error) {
		return &models.Order{
			ID:                77,
			ClientID:          req.ClientID,
			PartnerID:         req.PartnerID,
			DateIntervention:  req.DateIntervention,
			HeureIntervention: req.HeureIntervention,
			Description:       req.Description,
		}, nil
	}

	sessionID := buildDraft(t, svc, nil, nil,
		[]models.PrestataireOption{{Value: "9", Label: "Jean Dupont"}})

	result, err := svc.Confirm(ctx, sessionID)
	require.NoError(t, err)

	require.Len(t, api.createCalls, 1)
	created := api.createCalls[0]
	assert.Equal(t, int64(1), created.ClientID)
	assert.Equal(t, int64(5), created.PartnerID)
	assert.Equal(t, "2024-06-20", created.DateIntervention)
	assert.Equal(t, "10:00", created.HeureIntervention)
	assert.Equal(t, "Fix leak", created.Description)
	assert.Equal(t, []string{}, created.Images)

	assert.Empty(t, api.uploadCalls)
	assert.Empty(t, api.patchCalls)

	require.Len(t, api.inviteCalls, 1)
	assert.Equal(t, int64(77), api.inviteCalls[0].orderID)
	assert.Equal(t, []string{"9"}, api.inviteCalls[0].ids)

	assert.Equal(t, int64(77), result.Order.ID)
	assert.Empty(t, result.Warnings)
}

func TestConfirmPreservesAttachmentOrder(t *testing.T) {
	svc, _, _, api, _ := newTestService()
	ctx := context.Background()

	api.createOrderFn = func(req coreapi.CreateOrderRequest) (*models.Order, error) {
		return &models.Order{ID: 42}, nil
	}
	api.uploadFn = func(orderID int64, filename string) (string, error) {
		return "orders/42/" + filename, nil
	}

	sessionID := buildDraft(t, svc, []wizard.ImageUpload{
		upload("first.jpg", "1"),
		upload("second.jpg", "2"),
		upload("third.jpg", "3"),
	}, nil, nil)

	result, err := svc.Confirm(ctx, sessionID)
	require.NoError(t, err)

	want := []string{"orders/42/first.jpg", "orders/42/second.jpg", "orders/42/third.jpg"}
	assert.Equal(t, want, result.Order.Images)
	require.Len(t, api.patchCalls, 1)
	assert.Equal(t, want, api.patchCalls[0].paths)
}

func TestConfirmPartialFailuresWarnAndEnqueueRetries(t *testing.T) {
	svc, _, _, api, retries := newTestService()
	ctx := context.Background()

	api.createOrderFn = func(req coreapi.CreateOrderRequest) (*models.Order, error) {
		return &models.Order{ID: 42}, nil
	}
	api.uploadFn = func(orderID int64, filename string) (string, error) {
		if filename == "bad.jpg" {
			return "", fmt.Errorf("connection reset")
		}
		return "orders/42/" + filename, nil
	}
	api.patchErr = fmt.Errorf("backend unavailable")
	api.inviteErr = fmt.Errorf("backend unavailable")

	sessionID := buildDraft(t, svc, []wizard.ImageUpload{
		upload("good.jpg", "ok"),
		upload("bad.jpg", "broken"),
	}, nil, []models.PrestataireOption{{Value: "9", Label: "Jean Dupont"}})

	result, err := svc.Confirm(ctx, sessionID)
	require.NoError(t, err)

	// The order stands; every failed side effect is a warning.
	assert.Equal(t, int64(42), result.Order.ID)
	assert.Len(t, result.Warnings, 3)
	assert.Equal(t, []string{"orders/42/good.jpg"}, result.Order.Images)

	// Patch and invitation retries are queued; the upload failure is not,
	// since its staged preview is gone once the session completes.
	require.Len(t, retries.patches, 1)
	assert.Equal(t, []string{"orders/42/good.jpg"}, retries.patches[0].paths)
	require.Len(t, retries.invitations, 1)
	assert.Equal(t, []string{"9"}, retries.invitations[0].ids)
}
