package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tmsync/internal/api"
	"tmsync/internal/config"
	"tmsync/internal/domain"
	"tmsync/internal/execution"
	"tmsync/internal/logging"
	"tmsync/internal/specfile"
)

// DefaultStartURI is sent when a spec file declares no start_uri
const DefaultStartURI = "/"

// Action is what an upload does with one spec file
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// PlannedUpload is the decision taken for one validated spec file
type PlannedUpload struct {
	Path     string
	LocalID  string
	RemoteID int // Set for updates
	Action   Action
	Payload  *domain.TestPayload
}

// UploadResult summarizes an upload pass
type UploadResult struct {
	TotalFiles int
	Created    int
	Updated    int
	Skipped    int
	Planned    []PlannedUpload
	Issues     []domain.FileIssue // Set when validation failed
	Duration   time.Duration
}

// Uploader pushes validated spec files to the remote service
type Uploader struct {
	config      *config.Config
	service     api.Service
	store       *specfile.Store
	gate        *Gate
	pool        execution.Executor
	newProgress ProgressFactory
}

// NewUploader creates a new Uploader
func NewUploader(
	cfg *config.Config,
	service api.Service,
	store *specfile.Store,
	gate *Gate,
	pool execution.Executor,
) *Uploader {
	return &Uploader{
		config:  cfg,
		service: service,
		store:   store,
		gate:    gate,
		pool:    pool,
	}
}

// SetProgress sets the factory used to report progress of the upload batch
func (u *Uploader) SetProgress(factory ProgressFactory) {
	u.newProgress = factory
}

// Upload correlates local identities with remote tests, validates every spec
// file and creates or updates one remote test per file with steps.
// Nothing is sent when any file fails validation. The first remote error stops
// the pass; requests already in flight may still complete.
func (u *Uploader) Upload(ctx context.Context) (*UploadResult, error) {
	correlation, err := BuildCorrelationMap(ctx, u.service)
	if err != nil {
		return nil, err
	}

	validated, err := u.gate.Validate()
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return &UploadResult{TotalFiles: verr.TotalFiles, Issues: verr.Issues}, err
		}
		return nil, err
	}

	result := &UploadResult{TotalFiles: len(validated.Paths)}
	result.Planned = Plan(validated, correlation, u.config.SentinelTag)

	var mu sync.Mutex
	var tasks []execution.Task
	for _, p := range result.Planned {
		switch p.Action {
		case ActionSkip:
			result.Skipped++
			logging.Debug("upload", "skip %s: no steps", relName(u.store.Root(), p.Path))
			continue
		case ActionCreate:
			if u.config.Flags.DryRun {
				result.Created++
				continue
			}
		case ActionUpdate:
			if u.config.Flags.DryRun {
				result.Updated++
				continue
			}
		}
		tasks = append(tasks, u.task(p, result, &mu))
	}

	if len(tasks) == 0 {
		return result, nil
	}

	if u.newProgress != nil {
		u.pool.SetProgress(u.newProgress("Uploading tests", len(tasks)))
	}
	_, duration, err := u.pool.Execute(ctx, tasks)
	result.Duration = duration
	return result, err
}

func (u *Uploader) task(p PlannedUpload, result *UploadResult, mu *sync.Mutex) execution.Task {
	return execution.Task{
		Name: relName(u.store.Root(), p.Path),
		Run: func(ctx context.Context) error {
			var err error
			if p.Action == ActionUpdate {
				_, err = u.service.Update(ctx, p.RemoteID, p.Payload)
			} else {
				_, err = u.service.Create(ctx, p.Payload)
			}
			if err != nil {
				logging.With("upload", "local_id", p.LocalID, "path", p.Path).
					Error("remote "+string(p.Action)+" failed", "error", err)
				return fmt.Errorf("%s local test %s: %w", p.Action, p.LocalID, err)
			}

			mu.Lock()
			if p.Action == ActionUpdate {
				result.Updated++
			} else {
				result.Created++
			}
			mu.Unlock()
			return nil
		},
	}
}

// Plan decides create, update or skip for every validated spec file, in path order
func Plan(validated *Validated, correlation CorrelationMap, sentinelTag string) []PlannedUpload {
	planned := make([]PlannedUpload, 0, len(validated.Paths))
	for _, path := range validated.Paths {
		test := validated.Tests[path]
		p := PlannedUpload{Path: path, LocalID: test.ID}

		switch remoteID, ok := correlation[test.ID]; {
		case len(test.Steps) == 0:
			p.Action = ActionSkip
		case ok && test.ID != "":
			p.Action = ActionUpdate
			p.RemoteID = remoteID
		default:
			p.Action = ActionCreate
		}
		if p.Action != ActionSkip {
			p.Payload = BuildPayload(test, sentinelTag)
		}
		planned = append(planned, p)
	}
	return planned
}

// BuildPayload converts a parsed spec file to the remote test shape
func BuildPayload(test *domain.SpecTest, sentinelTag string) *domain.TestPayload {
	startURI := test.StartURI
	if startURI == "" {
		startURI = DefaultStartURI
	}

	payload := &domain.TestPayload{
		Title:       test.Title,
		StartURI:    startURI,
		Description: test.Description,
		Tags:        appendUnique(test.Tags, sentinelTag),
		Elements:    make([]domain.Element, 0, len(test.Steps)),
	}
	for _, s := range test.Steps {
		payload.Elements = append(payload.Elements, domain.Element{
			Type:           domain.ElementStep,
			Action:         s.Action,
			Response:       s.Response,
			TrackRedirects: true,
		})
	}
	for _, name := range test.Browsers {
		payload.Browsers = append(payload.Browsers, domain.Browser{Name: name, State: domain.BrowserEnabled})
	}
	return payload
}

// appendUnique returns tags followed by extra, without duplicates, keeping first-seen order
func appendUnique(tags []string, extra ...string) []string {
	seen := make(map[string]bool, len(tags)+len(extra))
	out := make([]string, 0, len(tags)+len(extra))
	for _, tag := range append(append([]string{}, tags...), extra...) {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
