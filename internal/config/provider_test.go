// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cpputils/buildplan/internal/planout"
)

func TestFileProvider_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `output_format: "json"`)

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Path != path {
		t.Errorf("Path = %q, want %q", loaded.Path, path)
	}
	if loaded.OutputFormat != planout.FormatJSON {
		t.Errorf("OutputFormat = %q", loaded.OutputFormat)
	}
}

func TestFileProvider_LoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "x.cue")})
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	loaded, err := StaticProvider{}.Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if loaded.OutputFormat != planout.FormatText || loaded.Path != "" {
		t.Errorf("StaticProvider{} should return defaults, got %+v", loaded)
	}

	cfg := DefaultConfig()
	cfg.UI.Verbose = true
	loaded, err = StaticProvider{Config: cfg}.Load(context.Background(), LoadOptions{})
	if err != nil || !loaded.UI.Verbose {
		t.Errorf("StaticProvider{cfg} = %+v, %v", loaded, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (StaticProvider{}).Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
