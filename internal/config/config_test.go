package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitializeLoadsDefaults(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	userCfg := filepath.Join(tmp, "user.yaml")

	if err := Initialize(WithWorkingDir(tmp), WithUserConfig(userCfg)); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if got := GetString(KeyDatabasePath); got != "" {
		t.Fatalf("expected default %s to be empty, got %q", KeyDatabasePath, got)
	}
	if got := GetInt(KeyMinQueryLength); got != DefaultMinQueryLength {
		t.Fatalf("expected default %s to be %d, got %d", KeyMinQueryLength, DefaultMinQueryLength, got)
	}
	if got := DebounceDelay(); got != 300*time.Millisecond {
		t.Fatalf("expected default debounce 300ms, got %v", got)
	}
	if got := BlurCloseDelay(); got != 300*time.Millisecond {
		t.Fatalf("expected default blur close 300ms, got %v", got)
	}
	if got := GetDuration(KeySearchTimeout); got != DefaultSearchTimeout {
		t.Fatalf("expected default search timeout %v, got %v", DefaultSearchTimeout, got)
	}
	if got := GetFloat64(KeySearchRatePerSecond); got != DefaultSearchRatePerSecond {
		t.Fatalf("expected default rate %v, got %v", DefaultSearchRatePerSecond, got)
	}
	if got := GetString(KeyTheme); got != "tokyonight" {
		t.Fatalf("expected default theme tokyonight, got %q", got)
	}
}

func TestDelaysAreIndependent(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	userCfg := filepath.Join(tmp, "user.yaml")
	writeFile(t, userCfg, `
lookup:
  debounce-ms: 150
  blur-close-ms: 800
`)

	if err := Initialize(WithWorkingDir(tmp), WithUserConfig(userCfg)); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if got := DebounceDelay(); got != 150*time.Millisecond {
		t.Fatalf("expected debounce 150ms, got %v", got)
	}
	if got := BlurCloseDelay(); got != 800*time.Millisecond {
		t.Fatalf("expected blur close 800ms, got %v", got)
	}
}

func TestNonPositiveDelaysFallBack(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	if err := Initialize(WithWorkingDir(tmp), WithUserConfig(filepath.Join(tmp, "none.yaml"))); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if err := Set(KeyDebounceMillis, -5); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if got := DebounceDelay(); got != 300*time.Millisecond {
		t.Fatalf("expected fallback debounce 300ms, got %v", got)
	}
}

func TestProjectConfigOverridesUser(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	projectDir := filepath.Join(tmp, "repo")
	mustMkdir(t, filepath.Join(projectDir, ".teamlookup"))
	projectCfg := filepath.Join(projectDir, ".teamlookup", "config.yaml")
	writeFile(t, projectCfg, `
database:
  path: /project/directory.db
lookup:
  min-query-length: 3
`)

	userCfg := filepath.Join(tmp, "user.yaml")
	writeFile(t, userCfg, `
database:
  path: /user/directory.db
lookup:
  min-query-length: 4
  max-visible: 9
`)

	nested := filepath.Join(projectDir, "sub", "dir")
	mustMkdir(t, nested)

	if err := Initialize(
		WithWorkingDir(nested),
		WithUserConfig(userCfg),
	); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if got := GetString(KeyDatabasePath); got != "/project/directory.db" {
		t.Fatalf("expected project database path, got %q", got)
	}
	if got := GetInt(KeyMinQueryLength); got != 3 {
		t.Fatalf("expected project min query length 3, got %d", got)
	}
	if got := GetInt(KeyMaxVisible); got != 9 {
		t.Fatalf("expected user max-visible 9 to survive merge, got %d", got)
	}
}

func TestEnvironmentAndOverridesPrecedence(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	projectDir := filepath.Join(tmp, "repo")
	projectCfg := filepath.Join(projectDir, ".teamlookup", "config.yaml")
	writeFile(t, projectCfg, `
database:
  path: /project/directory.db
lookup:
  debounce-ms: 100
`)

	t.Setenv("TL_LOOKUP_DEBOUNCE_MS", "450")
	t.Setenv("TL_DATABASE_PATH", "/env/directory.db")

	if err := Initialize(
		WithWorkingDir(projectDir),
		WithProjectConfig(projectCfg),
	); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if got := DebounceDelay(); got != 450*time.Millisecond {
		t.Fatalf("expected environment to override debounce, got %v", got)
	}
	if got := GetString(KeyDatabasePath); got != "/env/directory.db" {
		t.Fatalf("expected env override for %s, got %q", KeyDatabasePath, got)
	}

	overrides := map[string]any{
		KeyDatabasePath: "/flag/directory.db",
		KeyDebug:        true,
	}
	if err := ApplyOverrides(overrides); err != nil {
		t.Fatalf("ApplyOverrides returned error: %v", err)
	}

	if got := GetString(KeyDatabasePath); got != "/flag/directory.db" {
		t.Fatalf("expected CLI override for %s, got %q", KeyDatabasePath, got)
	}
	if !GetBool(KeyDebug) {
		t.Fatalf("expected CLI override to set %s=true", KeyDebug)
	}
}

func TestDatabasePathFallsBackToDataDir(t *testing.T) {
	reset()
	t.Cleanup(reset)

	orig := defaultDatabasePath
	t.Cleanup(func() { defaultDatabasePath = orig })
	tmp := t.TempDir()
	want := filepath.Join(tmp, "teamlookup", "directory.db")
	defaultDatabasePath = func() (string, error) { return want, nil }

	if err := Initialize(WithWorkingDir(tmp), WithUserConfig(filepath.Join(tmp, "none.yaml"))); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	got, err := DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if err := Set(KeyDatabasePath, "  /explicit.db "); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	got, _ = DatabasePath()
	if got != "/explicit.db" {
		t.Fatalf("expected explicit path, got %q", got)
	}
}

func TestSaveThemeWritesUserConfig(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	t.Chdir(tmp)
	userCfg := filepath.Join(tmp, "home", ".teamlookup", "config.yaml")
	setUserConfigPathOverride(userCfg)

	if err := SaveTheme("dracula"); err != nil {
		t.Fatalf("SaveTheme returned error: %v", err)
	}
	data, err := os.ReadFile(userCfg)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	if got := string(data); !strings.Contains(got, "theme: dracula") {
		t.Fatalf("expected saved theme, got:\n%s", got)
	}
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	mustMkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}
