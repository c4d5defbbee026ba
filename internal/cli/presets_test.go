package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPresetsCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := execute(t, "presets"); err != nil {
		t.Fatalf("presets: %v", err)
	}
}

func TestPresetsCommandJSON(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := execute(t, "presets", "--json"); err != nil {
		t.Fatalf("presets --json: %v", err)
	}
}

func TestPresetsCommandUserPresets(t *testing.T) {
	cfg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfg)

	dir := filepath.Join(cfg, "pixelsort")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	toml := `[midnight]
description = "Everything below the midtones"
low = 0.0
high = 0.5
descending = true
`
	if err := os.WriteFile(filepath.Join(dir, "presets.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := execute(t, "presets"); err != nil {
		t.Fatalf("presets with user file: %v", err)
	}
}

func TestPresetsCommandBadUserFile(t *testing.T) {
	cfg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfg)

	dir := filepath.Join(cfg, "pixelsort")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "presets.toml"), []byte("not [valid"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := execute(t, "presets"); err == nil {
		t.Fatal("expected error for unparseable preset file")
	}
}

func TestPresetsListSubcommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := execute(t, "presets", "list"); err != nil {
		t.Fatalf("presets list: %v", err)
	}
}

func TestPresetsShowCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := execute(t, "presets", "show", "classic"); err != nil {
		t.Fatalf("presets show: %v", err)
	}
	if err := execute(t, "presets", "show", "classic", "--json"); err != nil {
		t.Fatalf("presets show --json: %v", err)
	}
}

func TestPresetsShowCommandUnknown(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := execute(t, "presets", "show", "no-such-preset"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestPresetsSaveCommand(t *testing.T) {
	cfg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfg)

	if err := execute(t, "presets", "save", "dusk"); err != nil {
		t.Fatalf("presets save: %v", err)
	}

	path := filepath.Join(cfg, "pixelsort", "presets.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("user preset file missing: %v", err)
	}
	if !strings.Contains(string(data), "[dusk]") {
		t.Errorf("preset file should contain a [dusk] table:\n%s", data)
	}

	// Saving the same name again hits the already-defined guard.
	if err := execute(t, "presets", "save", "dusk"); err == nil {
		t.Fatal("expected error for duplicate save")
	}
}
