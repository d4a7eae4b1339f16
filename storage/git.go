package storage

// This file contains the git object store backend. Reports are written into
// a working clone using the same on-disk layout as the local backend, then
// committed and pushed via the git CLI.

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/runstash/runstash/model"
)

// Git persists reports through a working clone of a reports repository.
type Git struct {
	logger zerolog.Logger
	files  *Local
	cfg    GitConfig
}

// NewGit returns a git backend writing into cfg.CloneDir.
func NewGit(logger zerolog.Logger, cfg GitConfig) *Git {
	if cfg.Remote == "" {
		cfg.Remote = "origin"
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	return &Git{
		logger: logger.With().Str("backend", string(BackendGit)).Logger(),
		files:  NewLocal(logger, LocalConfig{BaseDir: cfg.CloneDir}),
		cfg:    cfg,
	}
}

// TestConnection reports whether the clone directory is a git work tree.
func (g *Git) TestConnection(ctx context.Context) bool {
	if _, err := g.git(ctx, "rev-parse", "--git-dir"); err != nil {
		g.logger.Warn().Err(err).Str("clone", g.cfg.CloneDir).Msg("Clone directory is not a git repository")
		return false
	}
	return true
}

// EnsureStructure creates the layout inside the clone. Idempotent; the
// structural commit happens together with the first upload.
func (g *Git) EnsureStructure(ctx context.Context) error {
	return g.files.EnsureStructure(ctx)
}

// UploadReport writes the report and assets into the clone, then commits
// and pushes. A push failure is backend-fatal; the caller decides whether
// to retry.
func (g *Git) UploadReport(ctx context.Context, r *model.Report, assetPaths []string) (UploadResult, error) {
	res, err := g.files.UploadReport(ctx, r, assetPaths)
	if err != nil {
		return res, err
	}

	if err := g.commitAndPush(ctx, fmt.Sprintf("Add report %s", r.ExecutionID)); err != nil {
		res.Success = false
		res.Error = err.Error()
		return res, err
	}

	res.ReportURL = g.locator(r.ExecutionID, "report.json")
	res.DashboardURL = g.pathURL("reports/index.json")
	return res, nil
}

// UploadAssets writes assets into the clone without committing; the next
// UploadReport or UpdateIndex commit picks them up.
func (g *Git) UploadAssets(ctx context.Context, reportID string, assetPaths []string) []string {
	return g.files.UploadAssets(ctx, reportID, assetPaths)
}

// UpdateIndex merges the report into index.json and commits the change.
// Same last-writer-wins caveat as the local backend, with the extra wrinkle
// that a rejected push surfaces the lost race loudly instead of silently.
func (g *Git) UpdateIndex(ctx context.Context, r *model.Report) error {
	if err := g.files.UpdateIndex(ctx, r); err != nil {
		return err
	}
	return g.commitAndPush(ctx, fmt.Sprintf("Update report index for %s", r.ExecutionID))
}

// ListReports returns the index entries from the clone.
func (g *Git) ListReports(ctx context.Context) ([]model.IndexEntry, error) {
	return g.files.ListReports(ctx)
}

// DownloadReport reads one report body from the clone.
func (g *Git) DownloadReport(ctx context.Context, id string) (*model.Report, error) {
	return g.files.DownloadReport(ctx, id)
}

// DeleteReport removes the report from the clone and commits the removal.
func (g *Git) DeleteReport(ctx context.Context, id string) error {
	if err := g.files.DeleteReport(ctx, id); err != nil {
		return err
	}
	return g.commitAndPush(ctx, fmt.Sprintf("Delete report %s", id))
}

// AssetURL renders the browsable locator of one asset.
func (g *Git) AssetURL(reportID, name string) string {
	return g.locator(reportID, "assets/"+name)
}

func (g *Git) locator(reportID, rel string) string {
	return g.pathURL("reports/" + reportID + "/" + rel)
}

func (g *Git) pathURL(rel string) string {
	if g.cfg.BaseURL == "" {
		return filepath.Join(g.cfg.CloneDir, filepath.FromSlash(rel))
	}
	return strings.TrimSuffix(g.cfg.BaseURL, "/") + "/" + rel
}

func (g *Git) commitAndPush(ctx context.Context, message string) error {
	if _, err := g.git(ctx, "add", "--all", "reports"); err != nil {
		return fmt.Errorf("git add failed: %w", err)
	}

	// Nothing staged means the upload was a byte-identical re-run.
	if _, err := g.git(ctx, "diff", "--cached", "--quiet"); err == nil {
		g.logger.Debug().Msg("No changes to commit")
		return nil
	}

	if _, err := g.git(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}

	if !g.cfg.Push {
		g.logger.Debug().Msg("Push disabled, keeping commit local")
		return nil
	}
	if _, err := g.git(ctx, "push", g.cfg.Remote, g.cfg.Branch); err != nil {
		return fmt.Errorf("git push failed: %w", err)
	}
	return nil
}

// git runs one git command inside the clone. The context bounds the call;
// no retries happen here.
func (g *Git) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", g.cfg.CloneDir}, args...)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return strings.TrimSpace(string(output)), nil
}
