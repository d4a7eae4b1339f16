package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseDirName(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantName    string
		wantBrowser string
		wantRetry   int
	}{
		{
			name:        "name with browser",
			in:          "checkout-applies-discount-chromium",
			wantName:    "checkout applies discount",
			wantBrowser: "chromium",
		},
		{
			name:        "name with browser and retry",
			in:          "login-shows-error-firefox-retry2",
			wantName:    "login shows error",
			wantBrowser: "firefox",
			wantRetry:   2,
		},
		{
			name:        "mobile browser tag",
			in:          "cart-badge-mobile-chrome",
			wantName:    "cart badge",
			wantBrowser: "mobile-chrome",
		},
		{
			name:     "no browser tag",
			in:       "smoke-test",
			wantName: "smoke test",
		},
		{
			name:        "browser only",
			in:          "webkit",
			wantBrowser: "webkit",
		},
		{
			name:      "retry without browser",
			in:        "flaky-test-retry10",
			wantName:  "flaky test",
			wantRetry: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName, gotBrowser, gotRetry := parseDirName(tt.in)
			if gotName != tt.wantName {
				t.Errorf("parseDirName() name = %q, want %q", gotName, tt.wantName)
			}
			if gotBrowser != tt.wantBrowser {
				t.Errorf("parseDirName() browser = %q, want %q", gotBrowser, tt.wantBrowser)
			}
			if gotRetry != tt.wantRetry {
				t.Errorf("parseDirName() retry = %d, want %d", gotRetry, tt.wantRetry)
			}
		})
	}
}

func TestScanMissingRoot(t *testing.T) {
	dirs, err := Scan(zerolog.Nop(), filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	require.Empty(t, dirs)
}

func TestScan(t *testing.T) {
	root := t.TempDir()

	writeFile := func(parts ...string) {
		path := filepath.Join(append([]string{root}, parts...)...)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	writeFile("checkout-flow-chromium", "trace.zip")
	writeFile("checkout-flow-chromium", "test-failed-1.png")
	writeFile("login-webkit-retry1", "video.webm")
	writeFile("login-webkit-retry1", "results.json")
	// Loose file at the root must be skipped, not fatal.
	writeFile("summary.txt")

	dirs, err := Scan(zerolog.Nop(), root)
	require.NoError(t, err)
	require.Len(t, dirs, 2)

	require.Equal(t, "checkout flow", dirs[0].TestName)
	require.Equal(t, "chromium", dirs[0].Browser)
	require.Equal(t, "trace.zip", dirs[0].TraceFile())
	require.Equal(t, []string{"test-failed-1.png"}, dirs[0].Screenshots())
	require.Empty(t, dirs[0].Videos())

	require.Equal(t, "login", dirs[1].TestName)
	require.Equal(t, "webkit", dirs[1].Browser)
	require.Equal(t, 1, dirs[1].Retry)
	require.Equal(t, "", dirs[1].TraceFile())
	require.Equal(t, []string{"video.webm"}, dirs[1].Videos())
	require.Equal(t, "results.json", dirs[1].ResultsFile())
}

func TestScanDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"c-test-chromium", "a-test-chromium", "b-test-chromium"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0755))
	}

	first, err := Scan(zerolog.Nop(), root)
	require.NoError(t, err)
	second, err := Scan(zerolog.Nop(), root)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, "a test", first[0].TestName)
	require.Equal(t, "b test", first[1].TestName)
	require.Equal(t, "c test", first[2].TestName)
}
