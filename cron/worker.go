package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ordesk/config"
	"ordesk/services/coreapi"
	"ordesk/services/staging"
	"ordesk/services/wizard"

	"github.com/hibiken/asynq"
)

// InitRetryWorker runs the async retry worker in background. It replays
// failed image-patch and invitation calls against the core backend; a task
// that keeps failing exhausts its retries and is logged, never rolled back.
func InitRetryWorker(api coreapi.API) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeImagePatch, handleImagePatchTask(api))
	mux.HandleFunc(TypeInvitations, handleInvitationsTask(api))

	go func() {
		log.Println("[RetryWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[RetryWorker] worker stopped: %v", err)
		}
	}()
}

func handleImagePatchTask(api coreapi.API) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload imagePatchPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return err
		}
		return api.UpdateOrderImages(ctx, payload.OrderID, payload.Paths)
	}
}

func handleInvitationsTask(api coreapi.API) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload invitationsPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return err
		}
		return api.InvitePrestataires(ctx, payload.OrderID, payload.PrestataireIDs)
	}
}

// InitStagingSweeper periodically releases staged previews whose wizard
// session has expired, so abandoned drafts do not leak disk or CDN assets.
func InitStagingSweeper(store staging.Store, sessions wizard.SessionStore, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			err := store.Sweep(ctx, func(sessionID string) bool {
				exists, err := sessions.Exists(ctx, sessionID)
				if err != nil {
					// Keep the previews when in doubt; next sweep retries.
					return true
				}
				return exists
			})
			cancel()
			if err != nil {
				log.Printf("[StagingSweeper] sweep failed: %v", err)
			}
		}
	}()
}
