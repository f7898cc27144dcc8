package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"tmsync/internal/api"
	"tmsync/internal/config"
	"tmsync/internal/discovery"
	"tmsync/internal/domain"
	"tmsync/internal/execution"
	"tmsync/internal/parser"
	"tmsync/internal/specfile"
)

type call struct {
	Method   string
	RemoteID int
	Payload  *domain.TestPayload
}

// fakeService is an in-memory remote service
type fakeService struct {
	mu      sync.Mutex
	tests   map[int]*domain.TestDetail
	nextID  int
	calls   []call
	failOn  map[string]error // keyed by payload title
	listErr error
}

func newFakeService(tests ...*domain.TestDetail) *fakeService {
	f := &fakeService{tests: make(map[int]*domain.TestDetail), nextID: 1000, failOn: make(map[string]error)}
	for _, t := range tests {
		f.tests[t.ID] = t
	}
	return f
}

var _ api.Service = (*fakeService)(nil)

func (f *fakeService) ListTests(ctx context.Context) ([]domain.TestSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.TestSummary
	for _, t := range f.tests {
		out = append(out, domain.TestSummary{ID: t.ID, Title: t.Title, StartURI: t.StartURI, Description: t.Description, Tags: t.Tags})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeService) Retrieve(ctx context.Context, id int) (*domain.TestDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tests[id]
	if !ok {
		return nil, &api.Error{Method: "GET", Path: "/api/tests/", StatusCode: 404}
	}
	return t, nil
}

func (f *fakeService) Create(ctx context.Context, payload *domain.TestPayload) (*domain.TestDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: "create", Payload: payload})
	if err := f.failOn[payload.Title]; err != nil {
		return nil, err
	}
	f.nextID++
	t := &domain.TestDetail{ID: f.nextID, Title: payload.Title, Description: payload.Description, Elements: payload.Elements}
	f.tests[t.ID] = t
	return t, nil
}

func (f *fakeService) Update(ctx context.Context, id int, payload *domain.TestPayload) (*domain.TestDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: "update", RemoteID: id, Payload: payload})
	if err := f.failOn[payload.Title]; err != nil {
		return nil, err
	}
	t := &domain.TestDetail{ID: id, Title: payload.Title, Description: payload.Description, Elements: payload.Elements}
	f.tests[id] = t
	return t, nil
}

func (f *fakeService) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

var errRemote = errors.New("remote rejected the test")

type env struct {
	cfg      *config.Config
	store    *specfile.Store
	exporter *Exporter
	uploader *Uploader
	gate     *Gate
}

func newEnv(t *testing.T, service api.Service) *env {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	cfg.Processors = 2
	require.NoError(t, os.MkdirAll(cfg.GetSpecRoot(), 0755))

	store := specfile.NewStore(cfg)
	scanner := discovery.NewScanner(cfg.Extension, cfg.PathsToIgnore)
	loader := discovery.NewLoader(parser.NewTextParser())
	gate := NewGate(store, scanner, loader)

	return &env{
		cfg:      cfg,
		store:    store,
		gate:     gate,
		exporter: NewExporter(cfg, service, store, scanner, loader, execution.NewWorkerPool(cfg)),
		uploader: NewUploader(cfg, service, store, gate, execution.NewWorkerPool(cfg)),
	}
}

func (e *env) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.store.Root(), name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (e *env) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.store.Root(), name))
	require.NoError(t, err)
	return string(data)
}

func stepEl(action, response string) domain.Element {
	return domain.Element{Type: domain.ElementStep, Action: action, Response: response}
}
