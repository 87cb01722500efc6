package staging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryStore stages previews in a Cloudinary folder so that the
// dashboard can render them from a public URL. Release destroys the asset.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string

	mu    sync.Mutex
	index map[string]cloudinaryEntry
}

type cloudinaryEntry struct {
	sessionID string
	publicID  string
	name      string
	url       string
}

// NewCloudinaryStore returns a store staging previews under the given folder.
func NewCloudinaryStore(cld *cloudinary.Cloudinary, folder string) *CloudinaryStore {
	if folder == "" {
		folder = "ordesk/staging"
	}
	return &CloudinaryStore{
		cld:    cld,
		folder: folder,
		index:  make(map[string]cloudinaryEntry),
	}
}

func (s *CloudinaryStore) Stage(ctx context.Context, sessionID, name string, content io.Reader) (*StagedImage, error) {
	id := uuid.New().String()
	result, err := s.cld.Upload.Upload(ctx, content, uploader.UploadParams{
		Folder:   s.folder + "/" + sessionID,
		PublicID: id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stage preview in cloudinary: %w", err)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("cloudinary returned no public ID")
	}

	s.mu.Lock()
	s.index[id] = cloudinaryEntry{
		sessionID: sessionID,
		publicID:  result.PublicID,
		name:      name,
		url:       result.SecureURL,
	}
	s.mu.Unlock()

	return &StagedImage{
		ID:        id,
		SessionID: sessionID,
		Name:      name,
		URL:       result.SecureURL,
	}, nil
}

func (s *CloudinaryStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	s.mu.Lock()
	entry, ok := s.index[id]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("staged image %s not found", id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build preview request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staged preview: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch staged preview: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *CloudinaryStore) Release(ctx context.Context, id string) error {
	s.mu.Lock()
	entry, ok := s.index[id]
	if ok {
		delete(s.index, id)
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: entry.publicID}); err != nil {
		return fmt.Errorf("failed to destroy staged preview: %w", err)
	}
	return nil
}

func (s *CloudinaryStore) ReleaseSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	var ids []string
	for id, entry := range s.index {
		if entry.sessionID == sessionID {
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()
	for _, id := range ids {
		if err := s.Release(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Sweep only covers previews staged by this process; assets from a previous
// process fall under Cloudinary's own folder cleanup.
func (s *CloudinaryStore) Sweep(ctx context.Context, alive func(sessionID string) bool) error {
	s.mu.Lock()
	sessions := make(map[string]struct{})
	for _, entry := range s.index {
		sessions[entry.sessionID] = struct{}{}
	}
	s.mu.Unlock()
	for sessionID := range sessions {
		if alive(sessionID) {
			continue
		}
		if err := s.ReleaseSession(ctx, sessionID); err != nil {
			return err
		}
	}
	return nil
}
