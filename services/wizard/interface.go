package wizard

import (
	"context"
	"io"

	"ordesk/models"
	"ordesk/services/coreapi"
	"ordesk/services/staging"
)

// MaxImages is the hard cap on images attached to a draft order.
const MaxImages = 5

// ImageUpload is one incoming file for the service-details step.
type ImageUpload struct {
	Name    string
	Content io.Reader
}

// RetryEnqueuer schedules retries for failed post-creation side effects.
// Implementations must be safe for concurrent use; a nil enqueuer disables
// retries (failures are still surfaced as warnings).
type RetryEnqueuer interface {
	EnqueueImagePatch(orderID int64, paths []string) error
	EnqueueInvitations(orderID int64, prestataireIDs []string) error
}

// Service drives the order-creation wizard.
type Service interface {
	Start(ctx context.Context, operatorID string) (*models.WizardSession, error)
	Get(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Cancel(ctx context.Context, sessionID string) error
	NextStep(ctx context.Context, sessionID string) (*models.WizardSession, error)
	PrevStep(ctx context.Context, sessionID string) (*models.WizardSession, error)

	SearchClients(ctx context.Context, query string) ([]models.ClientRef, error)
	SelectClient(ctx context.Context, sessionID string, client models.ClientRef) (*models.WizardSession, error)

	AttachImages(ctx context.Context, sessionID string, files []ImageUpload) (*models.WizardSession, error)
	AttachInitialImages(ctx context.Context, sessionID string, urls []string) (*models.WizardSession, error)
	RemoveImage(ctx context.Context, sessionID string, index int) (*models.WizardSession, error)
	SetServiceDetails(ctx context.Context, sessionID string, details models.ServiceDetails) (*models.WizardSession, error)

	SearchPartners(ctx context.Context, filter string) ([]models.PartnerRef, error)
	SelectPartner(ctx context.Context, sessionID string, partner models.PartnerRef) (*models.WizardSession, error)

	ListPrestataires(ctx context.Context) ([]models.PrestataireOption, error)
	SelectPrestataires(ctx context.Context, sessionID string, selection []models.PrestataireOption) (*models.WizardSession, error)

	Confirm(ctx context.Context, sessionID string) (*models.SubmissionResult, error)
}

// SubmissionRecorder persists the audit entry for a confirmed submission.
type SubmissionRecorder interface {
	Insert(ctx context.Context, record models.SubmissionRecord) error
}

// DefaultWizardService implements Service.
type DefaultWizardService struct {
	Sessions    SessionStore
	CoreAPI     coreapi.API
	Staging     staging.Store
	Submissions SubmissionRecorder // optional
	Retries     RetryEnqueuer      // optional
}
