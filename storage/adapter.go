package storage

// This file contains the storage adapter protocol implemented by every
// backend, plus the health check wrapper shared by all of them.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runstash/runstash/model"
)

var (
	// ErrNotImplemented is returned by backend stubs for every mutating
	// operation.
	ErrNotImplemented = errors.New("storage backend not implemented")
	// ErrNotFound is returned when a report id is unknown to the backend.
	ErrNotFound = errors.New("report not found")
)

// UploadResult reports the outcome of one report upload.
//
// A failed asset upload is logged and skipped; Success stays true as long as
// the report body itself was written. Backend-fatal failures (auth, missing
// site, quota) yield Success false and a populated Error.
type UploadResult struct {
	Success       bool   `json:"success"`
	FilesUploaded int    `json:"files_uploaded"`
	ReportURL     string `json:"report_url,omitempty"`
	DashboardURL  string `json:"dashboard_url,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Adapter is the capability set every storage backend provides.
//
// Callers own timeouts: every method takes a context and treats its
// expiration as a recoverable failure, retryable by the caller and never
// retried inside the adapter. Cancellation is cooperative; an asset upload
// loop stops scheduling further assets on cancellation but does not roll
// back assets already written.
//
// Index and counter updates are unsynchronized read-modify-write:
// concurrent uploads are last-writer-wins by design, not a bug.
type Adapter interface {
	// TestConnection reports whether the backend is reachable.
	TestConnection(ctx context.Context) bool
	// EnsureStructure creates base folders and an empty index if absent.
	// Idempotent; safe to call on every upload.
	EnsureStructure(ctx context.Context) error
	// UploadReport writes the report body, then best-effort uploads each
	// asset.
	UploadReport(ctx context.Context, r *model.Report, assetPaths []string) (UploadResult, error)
	// UploadAssets uploads assets for an already stored report and
	// returns the names that were written.
	UploadAssets(ctx context.Context, reportID string, assetPaths []string) []string
	// UpdateIndex merges the report's summary entry into the shared
	// index (see UpdateIndex in index.go for the merge semantics).
	UpdateIndex(ctx context.Context, r *model.Report) error
	// ListReports returns the index entries, newest first.
	ListReports(ctx context.Context) ([]model.IndexEntry, error)
	// DownloadReport fetches one report body by execution id.
	DownloadReport(ctx context.Context, id string) (*model.Report, error)
	// DeleteReport removes a report and its assets, and drops it from
	// the index.
	DeleteReport(ctx context.Context, id string) error
	// AssetURL returns the backend-specific locator of one asset.
	AssetURL(reportID, name string) string
}

// Health is the result of a backend health check.
type Health struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

// CheckHealth wraps TestConnection with latency measurement. Any panic out
// of a backend is converted into an unhealthy result; a health check never
// propagates a failure to the caller.
func CheckHealth(ctx context.Context, a Adapter) (h Health) {
	start := time.Now()
	defer func() {
		h.Latency = time.Since(start)
		if r := recover(); r != nil {
			h.Healthy = false
			h.Error = fmt.Sprintf("health check panic: %v", r)
		}
	}()

	h.Healthy = a.TestConnection(ctx)
	if !h.Healthy && h.Error == "" {
		h.Error = "connection test failed"
	}
	return h
}
