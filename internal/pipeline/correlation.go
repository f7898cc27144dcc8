package pipeline

import (
	"context"
	"fmt"

	"tmsync/internal/api"
	"tmsync/internal/identity"
	"tmsync/internal/logging"
)

// CorrelationMap maps a local test identity to the id of the remote test carrying it
type CorrelationMap map[string]int

// BuildCorrelationMap lists the remote tests and decodes the identity of each.
// Remote tests without identity cannot match a local file and are left out.
func BuildCorrelationMap(ctx context.Context, service api.Service) (CorrelationMap, error) {
	summaries, err := service.ListTests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote tests: %w", err)
	}

	correlation := make(CorrelationMap, len(summaries))
	for _, s := range summaries {
		id, ok := identity.Decode(s.Description)
		if !ok {
			continue
		}
		if prev, dup := correlation[id]; dup {
			logging.Warn("upload", "identity %s is carried by remote tests %d and %d, updating %d", id, prev, s.ID, prev)
			continue
		}
		correlation[id] = s.ID
	}
	logging.Debug("upload", "correlated %d of %d remote tests", len(correlation), len(summaries))
	return correlation, nil
}
