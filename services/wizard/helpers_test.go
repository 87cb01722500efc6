package wizard_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"ordesk/models"
	"ordesk/services/coreapi"
	"ordesk/services/staging"
	"ordesk/services/wizard"
)

// memSessionStore mimics the Redis store with JSON round-trips so that
// sessions are value copies, as they are in production.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string][]byte)}
}

func (m *memSessionStore) Save(ctx context.Context, session *models.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.SessionID] = data
	return nil
}

func (m *memSessionStore) Load(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	m.mu.Lock()
	data, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return nil, wizard.ErrSessionNotFound
	}
	var session models.WizardSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *memSessionStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *memSessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[sessionID]
	return ok, nil
}

// fakeStaging records stage and release calls per id.
type fakeStaging struct {
	mu       sync.Mutex
	nextID   int
	blobs    map[string][]byte
	owners   map[string]string
	released map[string]int
	stageErr error
}

func newFakeStaging() *fakeStaging {
	return &fakeStaging{
		blobs:    make(map[string][]byte),
		owners:   make(map[string]string),
		released: make(map[string]int),
	}
}

func (f *fakeStaging) Stage(ctx context.Context, sessionID, name string, content io.Reader) (*staging.StagedImage, error) {
	if f.stageErr != nil {
		return nil, f.stageErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("staged-%d", f.nextID)
	f.blobs[id] = data
	f.owners[id] = sessionID
	return &staging.StagedImage{
		ID:        id,
		SessionID: sessionID,
		Name:      name,
		URL:       "/api/previews/" + id,
	}, nil
}

func (f *fakeStaging) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	f.mu.Lock()
	data, ok := f.blobs[id]
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("staged image %s not found", id)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStaging) Release(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released[id]++
	delete(f.blobs, id)
	return nil
}

func (f *fakeStaging) ReleaseSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	var ids []string
	for id, owner := range f.owners {
		if owner == sessionID {
			ids = append(ids, id)
		}
	}
	f.mu.Unlock()
	for _, id := range ids {
		f.Release(ctx, id)
	}
	return nil
}

func (f *fakeStaging) Sweep(ctx context.Context, alive func(string) bool) error {
	f.mu.Lock()
	sessions := make(map[string]struct{})
	for _, owner := range f.owners {
		sessions[owner] = struct{}{}
	}
	f.mu.Unlock()
	for sessionID := range sessions {
		if !alive(sessionID) {
			f.ReleaseSession(ctx, sessionID)
		}
	}
	return nil
}

func (f *fakeStaging) stagedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}

func (f *fakeStaging) releaseCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released[id]
}

type inviteCall struct {
	orderID int64
	ids     []string
}

type patchCall struct {
	orderID int64
	paths   []string
}

// fakeCoreAPI records every call and answers from configurable fields.
type fakeCoreAPI struct {
	mu sync.Mutex

	clients      []models.ClientRef
	partners     []models.PartnerRef
	prestataires []models.Prestataire
	listErr      error

	createOrderFn func(coreapi.CreateOrderRequest) (*models.Order, error)
	uploadFn      func(orderID int64, filename string) (string, error)
	patchErr      error
	inviteErr     error

	createCalls []coreapi.CreateOrderRequest
	uploadCalls []string
	patchCalls  []patchCall
	inviteCalls []inviteCall
}

func (f *fakeCoreAPI) SearchClients(ctx context.Context, query string) ([]models.ClientRef, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if query == "" {
		return f.clients, nil
	}
	var matched []models.ClientRef
	for _, c := range f.clients {
		if strings.Contains(strings.ToLower(c.FirstName+" "+c.LastName), strings.ToLower(query)) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (f *fakeCoreAPI) ListPartners(ctx context.Context) ([]models.PartnerRef, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.partners, nil
}

func (f *fakeCoreAPI) ListPrestataires(ctx context.Context) ([]models.Prestataire, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.prestataires, nil
}

func (f *fakeCoreAPI) CreateOrder(ctx context.Context, req coreapi.CreateOrderRequest) (*models.Order, error) {
	f.mu.Lock()
	f.createCalls = append(f.createCalls, req)
	f.mu.Unlock()
	if f.createOrderFn != nil {
		return f.createOrderFn(req)
	}
	return &models.Order{
		ID:                1,
		ClientID:          req.ClientID,
		PartnerID:         req.PartnerID,
		DateIntervention:  req.DateIntervention,
		HeureIntervention: req.HeureIntervention,
		Description:       req.Description,
		Images:            []string{},
	}, nil
}

func (f *fakeCoreAPI) UploadOrderFile(ctx context.Context, orderID int64, filename string, file io.Reader) (string, error) {
	io.Copy(io.Discard, file)
	f.mu.Lock()
	f.uploadCalls = append(f.uploadCalls, filename)
	f.mu.Unlock()
	if f.uploadFn != nil {
		return f.uploadFn(orderID, filename)
	}
	return fmt.Sprintf("orders/%d/%s", orderID, filename), nil
}

func (f *fakeCoreAPI) UpdateOrderImages(ctx context.Context, orderID int64, paths []string) error {
	f.mu.Lock()
	f.patchCalls = append(f.patchCalls, patchCall{orderID: orderID, paths: paths})
	f.mu.Unlock()
	return f.patchErr
}

func (f *fakeCoreAPI) InvitePrestataires(ctx context.Context, orderID int64, ids []string) error {
	f.mu.Lock()
	f.inviteCalls = append(f.inviteCalls, inviteCall{orderID: orderID, ids: ids})
	f.mu.Unlock()
	return f.inviteErr
}

// fakeEnqueuer records scheduled retries.
type fakeEnqueuer struct {
	mu          sync.Mutex
	patches     []patchCall
	invitations []inviteCall
}

func (f *fakeEnqueuer) EnqueueImagePatch(orderID int64, paths []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patchCall{orderID: orderID, paths: paths})
	return nil
}

func (f *fakeEnqueuer) EnqueueInvitations(orderID int64, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invitations = append(f.invitations, inviteCall{orderID: orderID, ids: ids})
	return nil
}

// newTestService wires a wizard service from fresh fakes.
func newTestService() (*wizard.DefaultWizardService, *memSessionStore, *fakeStaging, *fakeCoreAPI, *fakeEnqueuer) {
	sessions := newMemSessionStore()
	stagingStore := newFakeStaging()
	api := &fakeCoreAPI{}
	retries := &fakeEnqueuer{}
	svc := &wizard.DefaultWizardService{
		Sessions: sessions,
		CoreAPI:  api,
		Staging:  stagingStore,
		Retries:  retries,
	}
	return svc, sessions, stagingStore, api, retries
}

func upload(name, content string) wizard.ImageUpload {
	return wizard.ImageUpload{Name: name, Content: strings.NewReader(content)}
}
