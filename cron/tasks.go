package cron

import (
	"encoding/json"
	"fmt"
	"time"

	"ordesk/config"

	"github.com/hibiken/asynq"
)

const (
	TypeImagePatch  = "order:patch_images"
	TypeInvitations = "order:invite"
)

type imagePatchPayload struct {
	OrderID int64    `json:"orderId"`
	Paths   []string `json:"paths"`
}

type invitationsPayload struct {
	OrderID        int64    `json:"orderId"`
	PrestataireIDs []string `json:"prestataireIds"`
}

// Enqueuer schedules retries for failed post-creation side effects. It
// implements wizard.RetryEnqueuer.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer creates an Enqueuer on the retry-queue Redis DB.
func NewEnqueuer() *Enqueuer {
	return &Enqueuer{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}),
	}
}

func (e *Enqueuer) EnqueueImagePatch(orderID int64, paths []string) error {
	payload, err := json.Marshal(imagePatchPayload{OrderID: orderID, Paths: paths})
	if err != nil {
		return fmt.Errorf("failed to encode image patch task: %w", err)
	}
	task := asynq.NewTask(TypeImagePatch, payload)
	if _, err := e.client.Enqueue(task, retryOptions()...); err != nil {
		return fmt.Errorf("failed to enqueue image patch task: %w", err)
	}
	return nil
}

func (e *Enqueuer) EnqueueInvitations(orderID int64, prestataireIDs []string) error {
	payload, err := json.Marshal(invitationsPayload{OrderID: orderID, PrestataireIDs: prestataireIDs})
	if err != nil {
		return fmt.Errorf("failed to encode invitations task: %w", err)
	}
	task := asynq.NewTask(TypeInvitations, payload)
	if _, err := e.client.Enqueue(task, retryOptions()...); err != nil {
		return fmt.Errorf("failed to enqueue invitations task: %w", err)
	}
	return nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}

func retryOptions() []asynq.Option {
	return []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
		asynq.ProcessIn(30 * time.Second),
	}
}
