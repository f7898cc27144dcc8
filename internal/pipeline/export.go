package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tmsync/internal/api"
	"tmsync/internal/config"
	"tmsync/internal/discovery"
	"tmsync/internal/domain"
	"tmsync/internal/execution"
	"tmsync/internal/flatten"
	"tmsync/internal/identity"
	"tmsync/internal/logging"
	"tmsync/internal/specfile"
)

// ExportResult summarizes an export pass
type ExportResult struct {
	Paths    []string // Written files, sorted
	Duration time.Duration
}

// Exporter writes every remote test to a local spec file
type Exporter struct {
	config      *config.Config
	service     api.Service
	store       *specfile.Store
	scanner     *discovery.Scanner
	loader      *discovery.Loader
	pool        execution.Executor
	newProgress ProgressFactory
}

// NewExporter creates a new Exporter
func NewExporter(
	cfg *config.Config,
	service api.Service,
	store *specfile.Store,
	scanner *discovery.Scanner,
	loader *discovery.Loader,
	pool execution.Executor,
) *Exporter {
	return &Exporter{
		config:  cfg,
		service: service,
		store:   store,
		scanner: scanner,
		loader:  loader,
		pool:    pool,
	}
}

// SetProgress sets the factory used to report progress of the export batch
func (e *Exporter) SetProgress(factory ProgressFactory) {
	e.newProgress = factory
}

// Export lists the remote tests and writes one spec file per test. The first
// failing test stops the pass; files already written are kept.
func (e *Exporter) Export(ctx context.Context) (*ExportResult, error) {
	summaries, err := e.service.ListTests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote tests: %w", err)
	}
	logging.Info("export", "exporting %d remote test(s)", len(summaries))

	paths, err := e.planPaths(summaries)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	result := &ExportResult{}

	tasks := make([]execution.Task, 0, len(summaries))
	for _, s := range summaries {
		id, path := s.ID, paths[s.ID]

		tasks = append(tasks, execution.Task{
			Name: fmt.Sprintf("remote test %d", id),
			Run: func(ctx context.Context) error {
				if err := e.exportOne(ctx, id, path); err != nil {
					return err
				}
				mu.Lock()
				result.Paths = append(result.Paths, path)
				mu.Unlock()
				return nil
			},
		})
	}

	if e.newProgress != nil {
		e.pool.SetProgress(e.newProgress("Exporting tests", len(tasks)))
	}
	_, duration, err := e.pool.Execute(ctx, tasks)
	sort.Strings(result.Paths)
	result.Duration = duration
	if err != nil {
		logging.Error("export", err, "export aborted")
		return result, err
	}
	return result, nil
}

func (e *Exporter) exportOne(ctx context.Context, id int, path string) error {
	detail, err := e.service.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	header := identity.EncodeHeader(detail)
	body, _, err := flatten.Flatten(detail.Elements, 1, flatten.Options{Verbose: e.config.Flags.Verbose})
	if err != nil {
		return err
	}

	f, err := e.store.CreateTruncated(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range header {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	for _, line := range body {
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	logging.Debug("export", "wrote %s (%d element(s))", relName(e.store.Root(), path), len(detail.Elements))
	return nil
}

// planPaths picks the file every remote test is written to. A local file already
// holding a test's identity is rewritten in place, unless the file carries the
// export name of another test in this pass. Every test gets a distinct file.
func (e *Exporter) planPaths(summaries []domain.TestSummary) (map[int]string, error) {
	named := make(map[int]string, len(summaries))
	owner := make(map[string]int, len(summaries))
	for _, s := range summaries {
		path, err := e.store.ExportPath(s.ID, s.Title)
		if err != nil {
			return nil, err
		}
		named[s.ID] = path
		owner[path] = s.ID
	}

	local := e.localIndex()
	claimed := make(map[string]bool)
	planned := make(map[string]int, len(summaries))
	paths := make(map[int]string, len(summaries))

	for _, s := range summaries {
		path := named[s.ID]
		if localID, has := identity.Decode(s.Description); has && !claimed[localID] {
			claimed[localID] = true
			if existing, ok := local[localID]; ok {
				if other, taken := owner[existing]; !taken || other == s.ID {
					path = existing
				} else {
					logging.Warn("export", "identity %s of remote test %d is held by %s, the export file of remote test %d",
						localID, s.ID, relName(e.store.Root(), existing), other)
				}
			}
		}

		if other, dup := planned[path]; dup {
			return nil, fmt.Errorf("remote tests %d and %d both export to %s", other, s.ID, relName(e.store.Root(), path))
		}
		planned[path] = s.ID
		paths[s.ID] = path
	}
	return paths, nil
}

// localIndex maps identities already present under the spec root to their files.
// Unreadable files are skipped: the index only decides where a test is written.
func (e *Exporter) localIndex() map[string]string {
	paths, err := e.scanner.Scan(e.store.Root())
	if err != nil {
		logging.Warn("export", "scan spec root: %v", err)
		return nil
	}

	tests := make(map[string]*domain.SpecTest, len(paths))
	for _, path := range paths {
		test, err := e.loader.Load(path)
		if err != nil {
			logging.Warn("export", "skip %s: %v", path, err)
			continue
		}
		tests[path] = test
	}
	return discovery.IndexByID(paths, tests)
}
