package storage

import (
	"context"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// initRepo creates a throwaway git repository for backend tests.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	for _, args := range [][]string{
		{"init", "-b", "main"},
		{"config", "user.email", "tests@example.com"},
		{"config", "user.name", "tests"},
	} {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	return dir
}

func TestGitTestConnection(t *testing.T) {
	ctx := context.Background()

	g := NewGit(zerolog.Nop(), GitConfig{CloneDir: initRepo(t)})
	require.True(t, g.TestConnection(ctx))

	bad := NewGit(zerolog.Nop(), GitConfig{CloneDir: t.TempDir()})
	require.False(t, bad.TestConnection(ctx))
}

func TestGitUploadCommitsLocally(t *testing.T) {
	ctx := context.Background()
	dir := initRepo(t)

	// Push disabled: commits stay local, which is all this test needs.
	g := NewGit(zerolog.Nop(), GitConfig{CloneDir: dir, Push: false})
	require.NoError(t, g.EnsureStructure(ctx))

	r := testReport("R1")
	res, err := g.UploadReport(ctx, r, nil)
	require.NoError(t, err)
	require.True(t, res.Success)

	require.NoError(t, g.UpdateIndex(ctx, r))

	entries, err := g.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "R1", entries[0].ID)

	loaded, err := g.DownloadReport(ctx, "R1")
	require.NoError(t, err)
	require.Equal(t, r.ExecutionID, loaded.ExecutionID)

	// The upload produced a commit in the clone.
	cmd := exec.Command("git", "-C", dir, "log", "--oneline")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	require.Contains(t, string(out), "Add report R1")
}

func TestGitUploadIdenticalRerunIsNoop(t *testing.T) {
	ctx := context.Background()
	dir := initRepo(t)

	g := NewGit(zerolog.Nop(), GitConfig{CloneDir: dir, Push: false})
	require.NoError(t, g.EnsureStructure(ctx))

	r := testReport("R1")
	_, err := g.UploadReport(ctx, r, nil)
	require.NoError(t, err)

	// Byte-identical re-upload stages nothing and must not fail on the
	// empty commit.
	_, err = g.UploadReport(ctx, r, nil)
	require.NoError(t, err)
}

func TestGitLocators(t *testing.T) {
	g := NewGit(zerolog.Nop(), GitConfig{
		CloneDir: "/srv/reports",
		BaseURL:  "https://git.example.com/qa/reports/raw/main/",
	})

	require.Equal(t,
		"https://git.example.com/qa/reports/raw/main/reports/R1/assets/shot.png",
		g.AssetURL("R1", "shot.png"))

	plain := NewGit(zerolog.Nop(), GitConfig{CloneDir: "/srv/reports"})
	require.Equal(t, "/srv/reports/reports/R1/assets/shot.png", plain.AssetURL("R1", "shot.png"))
}
