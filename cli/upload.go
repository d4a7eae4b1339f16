package cli

// This file contains the upload command that pushes an assembled report
// through the configured storage adapter.

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/runstash/runstash/storage"
)

func (a *App) openAdapter(ctx *cli.Context) (storage.Adapter, error) {
	cfg, err := storage.LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	return storage.New(a.logger, cfg)
}

// callCtx bounds one storage call. Each call gets its own deadline; a
// timeout is recoverable and left to the operator to retry.
func callCtx(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (a *App) upload(ctx *cli.Context) error {
	adapter, err := a.openAdapter(ctx)
	if err != nil {
		return err
	}

	out, err := a.runPipeline(ctx)
	if err != nil {
		return err
	}
	a.printSummary(out.report)
	fmt.Printf("Report: %s\n", out.reportPath)

	timeout := ctx.Duration("timeout")

	ensureCtx, cancel := callCtx(ctx.Context, timeout)
	err = adapter.EnsureStructure(ensureCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to prepare storage structure: %w", err)
	}

	uploadCtx, cancel := callCtx(ctx.Context, timeout)
	res, err := adapter.UploadReport(uploadCtx, out.report, out.assets)
	cancel()
	if err != nil {
		// The report is already archived locally; surface the failure
		// and let the operator retry the upload.
		a.logger.Error().Err(err).Str("id", out.report.ExecutionID).Msg("Report upload failed")
		return fmt.Errorf("upload failed: %w", err)
	}

	indexCtx, cancel := callCtx(ctx.Context, timeout)
	err = adapter.UpdateIndex(indexCtx, out.report)
	cancel()
	if err != nil {
		a.logger.Error().Err(err).Msg("Index update failed")
		return fmt.Errorf("index update failed: %w", err)
	}

	a.logger.Info().
		Str("id", out.report.ExecutionID).
		Int("files", res.FilesUploaded).
		Msg("Report uploaded")
	fmt.Printf("Uploaded %d files\n", res.FilesUploaded)
	if res.ReportURL != "" {
		fmt.Printf("Report URL: %s\n", res.ReportURL)
	}
	if res.DashboardURL != "" {
		fmt.Printf("Dashboard: %s\n", res.DashboardURL)
	}
	return nil
}

func (a *App) health(ctx *cli.Context) error {
	adapter, err := a.openAdapter(ctx)
	if err != nil {
		return err
	}

	checkCtx, cancel := callCtx(ctx.Context, ctx.Duration("timeout"))
	defer cancel()
	h := storage.CheckHealth(checkCtx, adapter)

	if h.Healthy {
		fmt.Printf("healthy (latency %s)\n", h.Latency.Round(time.Millisecond))
		return nil
	}
	return fmt.Errorf("unhealthy: %s (latency %s)", h.Error, h.Latency.Round(time.Millisecond))
}

func (a *App) delete(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return fmt.Errorf("no report id given")
	}

	adapter, err := a.openAdapter(ctx)
	if err != nil {
		return err
	}

	delCtx, cancel := callCtx(ctx.Context, ctx.Duration("timeout"))
	defer cancel()
	if err := adapter.DeleteReport(delCtx, id); err != nil {
		return err
	}

	fmt.Printf("Deleted report %s\n", id)
	return nil
}
