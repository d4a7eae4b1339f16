package cli

// This file contains the list command for browsing uploaded reports via the
// backend index.

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/runstash/runstash/model"
)

var (
	passGlyph = color.New(color.FgGreen)
	failGlyph = color.New(color.FgRed, color.Bold)
	skipGlyph = color.New(color.FgYellow)
)

func (a *App) list(ctx *cli.Context) error {
	adapter, err := a.openAdapter(ctx)
	if err != nil {
		return err
	}

	listCtx, cancel := callCtx(ctx.Context, ctx.Duration("timeout"))
	defer cancel()
	entries, err := adapter.ListReports(listCtx)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No reports found")
		return nil
	}

	limit := ctx.Int("limit")
	display := entries
	if limit > 0 && limit < len(display) {
		display = display[:limit]
	}

	fmt.Printf("\n=== Reports (%d total) ===\n\n", len(entries))

	for _, entry := range display {
		printIndexEntry(entry)
	}

	fmt.Println("\nView a report: runstash view <ID>")
	return nil
}

func printIndexEntry(entry model.IndexEntry) {
	timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")
	s := entry.Summary

	switch {
	case s.Failed > 0:
		failGlyph.Print("✗")
	case s.Skipped == s.Total && s.Total > 0:
		skipGlyph.Print("-")
	default:
		passGlyph.Print("✓")
	}

	fmt.Printf("  %s  id=%s  %d/%d passed", timestamp, shortID(entry.ID), s.Passed, s.Total)
	if s.Failed > 0 {
		fmt.Printf(", %d failed", s.Failed)
		if s.UnexpectedFails > 0 {
			fmt.Printf(" (%d unexpected)", s.UnexpectedFails)
		}
	}
	if s.Skipped > 0 {
		fmt.Printf(", %d skipped", s.Skipped)
	}
	fmt.Println()

	if entry.Developer != "" {
		fmt.Printf("   Developer: %s\n", entry.Developer)
	}
	if entry.Branch != "" {
		fmt.Printf("   Branch: %s\n", entry.Branch)
	}
	if entry.Locator != "" {
		fmt.Printf("   %s\n", entry.Locator)
	}
	fmt.Println()
}
