package wizard_test

import (
	"context"
	"testing"

	"ordesk/models"
	"ordesk/services/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageURLs(session *models.WizardSession) []string {
	var urls []string
	for _, img := range session.Draft.ServiceDetails.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

func TestAttachImagesRejectsWholeBatchOverCap(t *testing.T) {
	svc, _, stagingStore, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, "op-1")
	require.NoError(t, err)

	session, err = svc.AttachImages(ctx, session.SessionID, []wizard.ImageUpload{
		upload("a.jpg", "a"), upload("b.jpg", "b"), upload("c.jpg", "c"),
	})
	require.NoError(t, err)
	require.Equal(t, 3, session.ImageCount())

	// A batch of 3 more would exceed the cap of 5: the entire batch is
	// rejected and nothing is staged.
	_, err = svc.AttachImages(ctx, session.SessionID, []wizard.ImageUpload{
		upload("d.jpg", "d"), upload("e.jpg", "e"), upload("f.jpg", "f"),
	})
	assert.ErrorIs(t, err, wizard.ErrImageLimit)
	assert.Equal(t, 3, stagingStore.stagedCount())

	reloaded, err := svc.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.ImageCount())

	// Topping up to exactly 5 is allowed.
	session, err = svc.AttachImages(ctx, reloaded.SessionID, []wizard.ImageUpload{
		upload("d.jpg", "d"), upload("e.jpg", "e"),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, session.ImageCount())

	_, err = svc.AttachImages(ctx, session.SessionID, []wizard.ImageUpload{upload("f.jpg", "f")})
	assert.ErrorIs(t, err, wizard.ErrImageLimit)
}

func TestInitialImagesCountTowardCap(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, "op-1")
	require.NoError(t, err)

	_, err = svc.AttachInitialImages(ctx, session.SessionID, []string{
		"https://core.example/i1.jpg", "https://core.example/i2.jpg",
		"https://core.example/i3.jpg", "https://core.example/i4.jpg",
	})
	require.NoError(t, err)

	_, err = svc.AttachImages(ctx, session.SessionID, []wizard.ImageUpload{
		upload("a.jpg", "a"), upload("b.jpg", "b"),
	})
	assert.ErrorIs(t, err, wizard.ErrImageLimit)
}

func TestRemoveImagePreservesRelativeOrder(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, "op-1")
	require.NoError(t, err)

	session, err = svc.AttachImages(ctx, session.SessionID, []wizard.ImageUpload{
		upload("a.jpg", "a"), upload("b.jpg", "b"), upload("c.jpg", "c"),
	})
	require.NoError(t, err)
	before := imageURLs(session)

	session, err = svc.RemoveImage(ctx, session.SessionID, 1)
	require.NoError(t, err)
	require.Equal(t, 2, session.ImageCount())
	assert.Equal(t, []string{before[0], before[2]}, imageURLs(session))

	_, err = svc.RemoveImage(ctx, session.SessionID, 5)
	var vErr *wizard.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestStagedPreviewReleasedExactlyOnceOnRemoval(t *testing.T) {
	svc, _, stagingStore, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, "op-1")
	require.NoError(t, err)

	session, err = svc.AttachImages(ctx, session.SessionID, []wizard.ImageUpload{upload("a.jpg", "a")})
	require.NoError(t, err)
	stagedID := session.Draft.ServiceDetails.Images[0].StagedID
	require.NotEmpty(t, stagedID)

	_, err = svc.RemoveImage(ctx, session.SessionID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, stagingStore.releaseCount(stagedID))

	// Cancelling afterwards must not release the same preview again.
	require.NoError(t, svc.Cancel(ctx, session.SessionID))
	assert.Equal(t, 1, stagingStore.releaseCount(stagedID))
}

func TestInitialImagesNeverReleased(t *testing.T) {
	svc, _, stagingStore, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, "op-1")
	require.NoError(t, err)

	_, err = svc.AttachInitialImages(ctx, session.SessionID, []string{"https://core.example/kept.jpg"})
	require.NoError(t, err)

	_, err = svc.RemoveImage(ctx, session.SessionID, 0)
	require.NoError(t, err)

	// Re-add and tear the whole session down; the backend URL still must
	// never reach the staging store.
	_, err = svc.AttachInitialImages(ctx, session.SessionID, []string{"https://core.example/kept.jpg"})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, session.SessionID))

	assert.Empty(t, stagingStore.released)
}

func TestSetServiceDetailsValidation(t *testing.T) {
	cases := []struct {
		name    string
		details models.ServiceDetails
	}{
		{"missing date", models.ServiceDetails{Time: "10:00", Description: "Fix leak"}},
		{"missing time", models.ServiceDetails{Date: "2024-06-20", Description: "Fix leak"}},
		{"blank description", models.ServiceDetails{Date: "2024-06-20", Time: "10:00", Description: "   "}},
		{"malformed date", models.ServiceDetails{Date: "20/06/2024", Time: "10:00", Description: "Fix leak"}},
		{"malformed time", models.ServiceDetails{Date: "2024-06-20", Time: "10h00", Description: "Fix leak"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _, _, _ := newTestService()
			ctx := context.Background()

			session, err := svc.Start(ctx, "op-1")
			require.NoError(t, err)
			startStep := session.CurrentStep

			_, err = svc.SetServiceDetails(ctx, session.SessionID, tc.details)
			var vErr *wizard.ValidationError
			require.ErrorAs(t, err, &vErr)

			reloaded, err := svc.Get(ctx, session.SessionID)
			require.NoError(t, err)
			assert.Equal(t, startStep, reloaded.CurrentStep)
			assert.Nil(t, reloaded.Draft.ServiceDetails)
		})
	}
}

func TestSetServiceDetailsAdvancesWithNormalizedPayload(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, "op-1")
	require.NoError(t, err)
	startStep := session.CurrentStep

	session, err = svc.SetServiceDetails(ctx, session.SessionID, models.ServiceDetails{
		Date:        "2024-06-20",
		Time:        "10:00",
		Description: "  Fix leak  ",
	})
	require.NoError(t, err)

	require.NotNil(t, session.Draft.ServiceDetails)
	assert.Equal(t, "Fix leak", session.Draft.ServiceDetails.Description)
	assert.NotNil(t, session.Draft.ServiceDetails.Images)
	assert.Equal(t, startStep+1, session.CurrentStep)
}
