package staging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// DiskStore keeps staged previews as files under a base directory, one
// subdirectory per wizard session. Previews are served back through the
// gateway's preview endpoint.
type DiskStore struct {
	baseDir string

	mu    sync.Mutex
	index map[string]diskEntry // staged id -> location
}

type diskEntry struct {
	sessionID string
	path      string
	name      string
}

// NewDiskStore creates the base directory if needed and returns a disk store.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &DiskStore{
		baseDir: baseDir,
		index:   make(map[string]diskEntry),
	}, nil
}

func (s *DiskStore) Stage(ctx context.Context, sessionID, name string, content io.Reader) (*StagedImage, error) {
	id := uuid.New().String()
	sessionDir := filepath.Join(s.baseDir, sessionID)
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session staging directory: %w", err)
	}

	path := filepath.Join(sessionDir, id)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}
	if _, err := io.Copy(dst, content); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write staged file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close staged file: %w", err)
	}

	s.mu.Lock()
	s.index[id] = diskEntry{sessionID: sessionID, path: path, name: name}
	s.mu.Unlock()

	return &StagedImage{
		ID:        id,
		SessionID: sessionID,
		Name:      name,
		URL:       "/api/previews/" + id,
	}, nil
}

func (s *DiskStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	s.mu.Lock()
	entry, ok := s.index[id]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("staged image %s not found", id)
	}
	f, err := os.Open(entry.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open staged image: %w", err)
	}
	return f, nil
}

func (s *DiskStore) Release(ctx context.Context, id string) error {
	s.mu.Lock()
	entry, ok := s.index[id]
	if ok {
		delete(s.index, id)
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if err := os.Remove(entry.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove staged file: %w", err)
	}
	return nil
}

func (s *DiskStore) ReleaseSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	for id, entry := range s.index {
		if entry.sessionID == sessionID {
			delete(s.index, id)
		}
	}
	s.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(s.baseDir, sessionID)); err != nil {
		return fmt.Errorf("failed to remove session staging directory: %w", err)
	}
	return nil
}

// Sweep walks the base directory so that files staged by a previous process
// are also collected once their session has expired.
func (s *DiskStore) Sweep(ctx context.Context, alive func(sessionID string) bool) error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to read staging directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sessionID := entry.Name()
		if alive(sessionID) {
			continue
		}
		if err := s.ReleaseSession(ctx, sessionID); err != nil {
			return err
		}
	}
	return nil
}
