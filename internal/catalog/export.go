package catalog

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gabriel/livechart-api/internal/models"
)

const MaxExportIDs = 50

type ExportFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type ExportResult struct {
	Items    []models.DetailRecord
	Failures []ExportFailure
}

// ExportDetails loads each id cache-first with bounded concurrency. Failed ids
// are skipped and reported; output keeps request order. The id list is
// validated before anything is fetched.
func (s *Service) ExportDetails(ctx context.Context, kind DetailKind, ids []string) (ExportResult, error) {
	if len(ids) == 0 {
		return ExportResult{}, invalid("ids", "ids must be a non-empty array")
	}
	if len(ids) > MaxExportIDs {
		return ExportResult{}, invalid("ids", "Maximum %d IDs per request", MaxExportIDs)
	}

	records := make([]*models.DetailRecord, len(ids))
	failures := make([]*ExportFailure, len(ids))

	var group errgroup.Group
	group.SetLimit(s.exportConcurrency)
	for index, id := range ids {
		group.Go(func() error {
			result, err := s.Detail(ctx, kind, strings.TrimSpace(id))
			if err != nil {
				s.logger.Warn("export item failed", "kind", kind.Name, "id", id, "error", err)
				failures[index] = &ExportFailure{ID: id, Error: err.Error()}
				return nil
			}
			records[index] = &result.Record
			return nil
		})
	}
	// item failures are recorded, never returned
	_ = group.Wait()

	out := ExportResult{Items: []models.DetailRecord{}, Failures: []ExportFailure{}}
	for index := range ids {
		if records[index] != nil {
			out.Items = append(out.Items, *records[index])
		}
		if failures[index] != nil {
			out.Failures = append(out.Failures, *failures[index])
		}
	}

	s.logger.Info("export finished", "kind", kind.Name, "requested", len(ids), "exported", len(out.Items))
	return out, nil
}
