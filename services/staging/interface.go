package staging

import (
	"context"
	"io"
)

// StagedImage is a transient preview resource held between the moment an
// image is attached to a wizard draft and the moment it is uploaded to the
// core backend (or removed).
type StagedImage struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	URL       string `json:"url"`
}

// Store owns staged previews. Release is idempotent per id; releasing an
// unknown id is not an error. Initial (backend-owned) image URLs are never
// handed to a Store.
type Store interface {
	Stage(ctx context.Context, sessionID, name string, content io.Reader) (*StagedImage, error)
	Open(ctx context.Context, id string) (io.ReadCloser, error)
	Release(ctx context.Context, id string) error
	ReleaseSession(ctx context.Context, sessionID string) error
	// Sweep releases every staged preview whose owning session no longer
	// exists according to the alive callback.
	Sweep(ctx context.Context, alive func(sessionID string) bool) error
}
