package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/backlog/internal/config"
	"github.com/calvinalkan/backlog/internal/preset"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func strPtr(s string) *string { return &s }

func Test_Load_Defaults_When_No_Files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
	require.NoError(t, err)

	want := config.Config{
		DB:            filepath.Join(".backlog", "items.sqlite"),
		DefaultPreset: preset.Open,
		PageSize:      10,
		EffectiveCwd:  dir,
		DBAbs:         filepath.Join(dir, ".backlog", "items.sqlite"),
	}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func Test_Load_Layers_Global_Project_And_Flags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := t.TempDir()
	globalPath := filepath.Join(xdg, "bl", "config.json")

	writeFile(t, globalPath, `{"user": "ann", "page_size": 25, "db": "global.sqlite"}`)
	writeFile(t, filepath.Join(dir, ".bl.json"), `{
		// project wins over global
		"db": "project.sqlite",
		"default_preset": "mine",
	}`)

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"XDG_CONFIG_HOME": xdg},
	})
	require.NoError(t, err)

	want := config.Config{
		DB:            "project.sqlite",
		User:          "ann",
		DefaultPreset: preset.Mine,
		PageSize:      25,
		DBAbs:         filepath.Join(dir, "project.sqlite"),
		Sources:       config.Sources{Global: globalPath, Project: filepath.Join(dir, ".bl.json")},
	}

	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreFields(config.Config{}, "EffectiveCwd")); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	cfg, err = config.Load(config.LoadInput{
		WorkDirOverride: dir,
		DBOverride:      strPtr("/tmp/flag.sqlite"),
		Env:             map[string]string{"XDG_CONFIG_HOME": xdg},
	})
	require.NoError(t, err)
	require.Equal(t, "/tmp/flag.sqlite", cfg.DBAbs)
}

func Test_Load_Global_Falls_Back_To_Home(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	home := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "bl", "config.json"), `{"user": "bob"}`)

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{"HOME": home}})
	require.NoError(t, err)
	require.Equal(t, "bob", cfg.User)
}

func Test_Load_Explicit_Config_Replaces_Project_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, ".bl.json"), `{"db": "project.sqlite"}`)
	writeFile(t, filepath.Join(dir, "custom.json"), `{"db": "custom.sqlite"}`)

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, ConfigPath: "custom.json"})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "custom.sqlite"), cfg.DBAbs)
	require.Equal(t, filepath.Join(dir, "custom.json"), cfg.Sources.Project)
}

func Test_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		project string
		input   config.LoadInput
		wantErr error
	}{
		{name: "explicit file missing", input: config.LoadInput{ConfigPath: "nope.json"}, wantErr: config.ErrConfigFileNotFound},
		{name: "invalid json", project: `{invalid}`, wantErr: config.ErrConfigInvalid},
		{name: "empty db in file", project: `{"db": ""}`, wantErr: config.ErrDBEmpty},
		{name: "empty db flag", input: config.LoadInput{DBOverride: strPtr("")}, wantErr: config.ErrDBEmpty},
		{name: "zero page size", project: `{"page_size": 0}`, wantErr: config.ErrPageSizeInvalid},
		{name: "negative page size", project: `{"page_size": -3}`, wantErr: config.ErrPageSizeInvalid},
		{name: "unknown default preset", project: `{"default_preset": "someday"}`, wantErr: preset.ErrInvalidPreset},
		{name: "mine without user", project: `{"default_preset": "mine"}`, wantErr: preset.ErrInvalidPreset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tt.project != "" {
				writeFile(t, filepath.Join(dir, ".bl.json"), tt.project)
			}

			input := tt.input
			input.WorkDirOverride = dir

			_, err := config.Load(input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
