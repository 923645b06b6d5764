package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "HERDBOOK_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "modules", "herd")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("HERDBOOK_TEST_ENV_LOAD")
	t.Cleanup(func() { _ = os.Unsetenv("HERDBOOK_TEST_ENV_LOAD") })

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("HERDBOOK_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func TestLoad_ParsesImportOptions(t *testing.T) {
	t.Setenv("IMPORT_OWNER_LOCK", "false")
	t.Setenv("IMPORT_PREVIEW_ROWS", "5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("DB_NAME", "herd_test")

	c, err := Load(nil)
	require.NoError(t, err)
	t.Cleanup(c.Unload)

	require.False(t, c.Import.OwnerLock)
	require.Equal(t, 5, c.Import.PreviewRows)
	require.Equal(t, int64(33554432), c.Import.MaxWorkbookSize)
	require.Equal(t, logrus.DebugLevel, c.LogrusLogLevel())
	require.Equal(t, "json", c.Log.Format)
	require.Contains(t, c.Database.Opts, "dbname=herd_test")
	require.NotNil(t, c.Logger())
}

func TestLoad_RejectsInvalidOptions(t *testing.T) {
	t.Setenv("IMPORT_MAX_WORKBOOK_BYTES", "0")
	_, err := Load(nil)
	require.Error(t, err)
}

func TestLoad_RejectsUnknownLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load(nil)
	require.ErrorContains(t, err, "LOG_FORMAT")
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
