package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoad_Defaults tests the documented defaults with no file and no env
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sigma != 5 {
		t.Errorf("Expected default sigma 5, got %v", cfg.Sigma)
	}
	if cfg.Network.Mode != "both" {
		t.Errorf("Expected default mode both, got %q", cfg.Network.Mode)
	}
	if cfg.Network.ImportLabel != "I" || cfg.Network.ExportLabel != "E" {
		t.Errorf("Expected default labels I/E, got %q/%q", cfg.Network.ImportLabel, cfg.Network.ExportLabel)
	}
}

// TestLoad_YAMLOverlay tests a partial YAML file overriding defaults
func TestLoad_YAMLOverlay(t *testing.T) {
	path := writeConfig(t, "sigma: 7.5\nnetwork:\n  mode: import\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sigma != 7.5 {
		t.Errorf("Expected sigma 7.5, got %v", cfg.Sigma)
	}
	if cfg.Network.Mode != "import" {
		t.Errorf("Expected mode import, got %q", cfg.Network.Mode)
	}
	// Untouched fields keep their defaults
	if cfg.Loader.Separator != "," {
		t.Errorf("Expected default separator, got %q", cfg.Loader.Separator)
	}
}

// TestLoad_EnvironmentOverride tests TRADENET_* variables winning over the file
func TestLoad_EnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "sigma: 7.5\n")
	t.Setenv("TRADENET_SIGMA", "3")
	t.Setenv("TRADENET_NETWORK_MODE", "export")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sigma != 3 {
		t.Errorf("Expected env sigma 3, got %v", cfg.Sigma)
	}
	if cfg.Network.Mode != "export" {
		t.Errorf("Expected env mode export, got %q", cfg.Network.Mode)
	}
}

// TestValidate_CollectsAllErrors tests that validation reports every problem
func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Sigma = 0.5
	cfg.Network.Mode = "sideways"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	for _, want := range []string{"sigma", "network.mode", "log_level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got: %v", want, err)
		}
	}
}

// TestValidate_LabelsMustDiffer tests the flow label distinctness rule
func TestValidate_LabelsMustDiffer(t *testing.T) {
	cfg := Default()
	cfg.Network.ImportLabel = "X"
	cfg.Network.ExportLabel = "X"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error for identical flow labels")
	}
}

// TestLoad_BadFile tests unreadable and malformed files
func TestLoad_BadFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
	path := writeConfig(t, "sigma: [not a number\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
}
