package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/thalweg/pkg/errors"
	"github.com/matzehuels/thalweg/pkg/pipeline"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Radius != pipeline.DefaultRadius {
		t.Errorf("Radius = %v, want %v", cfg.Radius, pipeline.DefaultRadius)
	}
	if cfg.Step != pipeline.DefaultStep {
		t.Errorf("Step = %v, want %v", cfg.Step, pipeline.DefaultStep)
	}
	if cfg.Decimals != 6 {
		t.Errorf("Decimals = %v, want 6", cfg.Decimals)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	content := "radius = 50.0\nmin_slope = 0.2\ndespike_window = 20\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Radius != 50 {
		t.Errorf("Radius = %v, want 50", cfg.Radius)
	}
	if cfg.MinSlope != 0.2 {
		t.Errorf("MinSlope = %v, want 0.2", cfg.MinSlope)
	}
	if cfg.DespikeWindow != 20 {
		t.Errorf("DespikeWindow = %v, want 20", cfg.DespikeWindow)
	}
	// unset keys keep their defaults
	if cfg.Step != pipeline.DefaultStep {
		t.Errorf("Step = %v, want default %v", cfg.Step, pipeline.DefaultStep)
	}
}

func TestLoadConfig_ImplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile(defaultConfigFile, []byte("step = 25.0\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Step != 25 {
		t.Errorf("Step = %v, want 25", cfg.Step)
	}
}

func TestLoadConfig_MissingExplicit(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("loadConfig(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("radius = ]"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := loadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("loadConfig(invalid) error = %v, want INVALID_CONFIG", err)
	}
}
