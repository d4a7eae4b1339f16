package storage

// This file contains the local filesystem backend. It is also the reference
// implementation of the persisted layout shared by every backend:
//
//	reports/<reportId>/report.json
//	reports/<reportId>/assets/<originalFileName>
//	reports/index.json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/runstash/runstash/model"
)

// Local stores reports under a base directory on the local filesystem.
type Local struct {
	logger zerolog.Logger
	base   string
}

// NewLocal returns a filesystem backend rooted at cfg.BaseDir.
func NewLocal(logger zerolog.Logger, cfg LocalConfig) *Local {
	return &Local{
		logger: logger.With().Str("backend", string(BackendLocal)).Logger(),
		base:   cfg.BaseDir,
	}
}

func (l *Local) reportsDir() string          { return filepath.Join(l.base, "reports") }
func (l *Local) reportDir(id string) string  { return filepath.Join(l.reportsDir(), id) }
func (l *Local) reportPath(id string) string { return filepath.Join(l.reportDir(id), "report.json") }
func (l *Local) assetsDir(id string) string  { return filepath.Join(l.reportDir(id), "assets") }
func (l *Local) indexPath() string           { return filepath.Join(l.reportsDir(), "index.json") }

// TestConnection reports whether the base directory exists or can be
// created.
func (l *Local) TestConnection(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		return false
	}
	if err := os.MkdirAll(l.base, 0755); err != nil {
		l.logger.Warn().Err(err).Str("base", l.base).Msg("Base directory not usable")
		return false
	}
	return true
}

// EnsureStructure creates the reports directory and an empty index if
// absent. Idempotent.
func (l *Local) EnsureStructure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.reportsDir(), 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	if _, err := os.Stat(l.indexPath()); os.IsNotExist(err) {
		empty := model.ReportIndex{
			Version:     model.IndexVersion,
			LastUpdated: time.Now().UTC(),
			Reports:     []model.IndexEntry{},
		}
		if err := l.writeIndex(empty); err != nil {
			return err
		}
	}
	return nil
}

// UploadReport writes the report body, then best-effort copies each asset.
func (l *Local) UploadReport(ctx context.Context, r *model.Report, assetPaths []string) (UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return UploadResult{Error: err.Error()}, err
	}

	if err := os.MkdirAll(l.reportDir(r.ExecutionID), 0755); err != nil {
		err = fmt.Errorf("failed to create report directory: %w", err)
		return UploadResult{Error: err.Error()}, err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		err = fmt.Errorf("failed to marshal report: %w", err)
		return UploadResult{Error: err.Error()}, err
	}
	if err := os.WriteFile(l.reportPath(r.ExecutionID), data, 0644); err != nil {
		err = fmt.Errorf("failed to write report: %w", err)
		return UploadResult{Error: err.Error()}, err
	}

	uploaded := l.UploadAssets(ctx, r.ExecutionID, assetPaths)

	return UploadResult{
		Success:       true,
		FilesUploaded: 1 + len(uploaded),
		ReportURL:     l.reportPath(r.ExecutionID),
		DashboardURL:  l.indexPath(),
	}, nil
}

// UploadAssets copies assets into the report's assets directory. A failed
// copy is logged and skipped; cancellation stops scheduling further assets
// but already written ones stay.
func (l *Local) UploadAssets(ctx context.Context, reportID string, assetPaths []string) []string {
	if len(assetPaths) == 0 {
		return nil
	}

	dir := l.assetsDir(reportID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		l.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to create assets directory")
		return nil
	}

	var uploaded []string
	for _, src := range assetPaths {
		if err := ctx.Err(); err != nil {
			l.logger.Warn().Err(err).Int("remaining", len(assetPaths)-len(uploaded)).Msg("Asset upload cancelled")
			break
		}

		name := filepath.Base(src)
		if err := copyFile(src, filepath.Join(dir, name)); err != nil {
			l.logger.Warn().Err(err).Str("asset", src).Msg("Failed to upload asset, skipping")
			continue
		}
		uploaded = append(uploaded, name)
	}

	return uploaded
}

// UpdateIndex merges the report into the shared index.
//
// Read-modify-write without locking: concurrent writers are
// last-writer-wins, the documented best-effort semantics.
func (l *Local) UpdateIndex(ctx context.Context, r *model.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	index, err := l.readIndex()
	if err != nil {
		l.logger.Warn().Err(err).Msg("Rebuilding unreadable index")
		index = model.ReportIndex{}
	}

	index = UpdateIndex(index, model.IndexEntryOf(r, l.reportPath(r.ExecutionID)))
	return l.writeIndex(index)
}

// ListReports returns the index entries, newest first.
func (l *Local) ListReports(ctx context.Context) ([]model.IndexEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index, err := l.readIndex()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return index.Reports, nil
}

// DownloadReport fetches one report body by execution id.
func (l *Local) DownloadReport(ctx context.Context, id string) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.reportPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var r model.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", id, err)
	}
	return &r, nil
}

// DeleteReport removes the report directory and drops it from the index.
func (l *Local) DeleteReport(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := os.Stat(l.reportDir(id)); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := os.RemoveAll(l.reportDir(id)); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}

	index, err := l.readIndex()
	if err != nil {
		return nil
	}
	kept := index.Reports[:0]
	for _, entry := range index.Reports {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	index.Reports = kept
	return l.writeIndex(index)
}

// AssetURL returns the filesystem path of one asset.
func (l *Local) AssetURL(reportID, name string) string {
	return filepath.Join(l.assetsDir(reportID), name)
}

func (l *Local) readIndex() (model.ReportIndex, error) {
	data, err := os.ReadFile(l.indexPath())
	if err != nil {
		return model.ReportIndex{}, err
	}

	var index model.ReportIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return model.ReportIndex{}, fmt.Errorf("failed to parse index: %w", err)
	}
	return index, nil
}

func (l *Local) writeIndex(index model.ReportIndex) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	if err := os.WriteFile(l.indexPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	sourceInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, sourceInfo.Mode())
}
