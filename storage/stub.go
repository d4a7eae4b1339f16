package storage

// This file contains the loud stub returned for backends that have no
// implementation yet. Mutating operations fail explicitly and immediately;
// read-only operations return empty results so browsing degrades
// gracefully.

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/runstash/runstash/model"
)

// Stub is a placeholder adapter for an unimplemented backend.
type Stub struct {
	logger  zerolog.Logger
	backend BackendType
}

// NewStub returns the stub for the given backend type.
func NewStub(logger zerolog.Logger, backend BackendType) *Stub {
	return &Stub{
		logger:  logger.With().Str("backend", string(backend)).Logger(),
		backend: backend,
	}
}

func (s *Stub) err() error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, s.backend)
}

// TestConnection always fails; a stub never pretends to be reachable.
func (s *Stub) TestConnection(ctx context.Context) bool {
	s.logger.Warn().Msg("Backend not implemented")
	return false
}

func (s *Stub) EnsureStructure(ctx context.Context) error {
	return s.err()
}

func (s *Stub) UploadReport(ctx context.Context, r *model.Report, assetPaths []string) (UploadResult, error) {
	err := s.err()
	return UploadResult{Error: err.Error()}, err
}

func (s *Stub) UploadAssets(ctx context.Context, reportID string, assetPaths []string) []string {
	s.logger.Warn().Str("report", reportID).Msg("Backend not implemented, assets not uploaded")
	return nil
}

func (s *Stub) UpdateIndex(ctx context.Context, r *model.Report) error {
	return s.err()
}

func (s *Stub) ListReports(ctx context.Context) ([]model.IndexEntry, error) {
	return nil, nil
}

func (s *Stub) DownloadReport(ctx context.Context, id string) (*model.Report, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Stub) DeleteReport(ctx context.Context, id string) error {
	return s.err()
}

func (s *Stub) AssetURL(reportID, name string) string {
	return ""
}
