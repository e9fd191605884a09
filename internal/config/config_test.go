package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindlemire/viewc/internal/viewc"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".viewc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "iced", cfg.Target)
	assert.Equal(t, "view", cfg.Macro)
	assert.Equal(t, ".mkp", cfg.Extension)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Zero(t, cfg.Workers)
	assert.False(t, cfg.Pretty)
	assert.Empty(t, cfg.File)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, viewc.DefaultOptions(), opts)
}

func TestLoadConfig_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "target: go\npretty: true\n")
	t.Chdir(dir)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "go", cfg.Target)
	assert.True(t, cfg.Pretty)
	assert.Equal(t, ".viewc.yaml", filepath.Base(cfg.File))
}

func TestLoadConfig_CustomTarget(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
target: ui
workers: 4
log:
  level: debug
  format: json
targets:
  ui:
    qualifier: "ui."
    collection: slice
    element_type: ui.Element
    indent: "\t"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, []string{"go", "iced", "ui"}, cfg.TargetNames())

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, viewc.Target{
		Name:            "ui",
		WidgetQualifier: "ui.",
		Collection:      viewc.CollectionSlice,
		ElementType:     "ui.Element",
		Indent:          "\t",
	}, opts.Target)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "target: iced\n")
	t.Setenv("VIEWC_TARGET", "go")
	t.Setenv("VIEWC_LOG_LEVEL", "warn")
	t.Setenv("VIEWC_PRETTY", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "go", cfg.Target)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Pretty)
}

func TestLoadConfig_Errors(t *testing.T) {
	type tc struct {
		content string
		wantErr error
		message string
	}

	tests := map[string]tc{
		"unknown key": {
			content: "targte: go\n",
			wantErr: ErrSchema,
			message: "targte",
		},
		"bad collection": {
			content: "targets:\n  ui:\n    collection: tuple\n",
			wantErr: ErrSchema,
		},
		"negative workers": {
			content: "workers: -1\n",
			wantErr: ErrSchema,
		},
		"unknown target": {
			content: "target: qt\n",
			wantErr: viewc.ErrUnknownTarget,
		},
		"slice without element type": {
			content: "targets:\n  ui:\n    collection: slice\n",
			wantErr: viewc.ErrMissingElemType,
		},
		"shadowed builtin": {
			content: "targets:\n  iced:\n    collection: variadic\n",
			wantErr: ErrShadowsBuiltin,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, t.TempDir(), tt.content))
			require.ErrorIs(t, err, tt.wantErr)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestLoadConfig_EnvValidated(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "pretty: false\n")

	t.Setenv("VIEWC_MACRO", "not-a-macro")
	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrInvalidMacro)

	t.Setenv("VIEWC_MACRO", "view")
	t.Setenv("VIEWC_EXTENSION", "mkp")
	_, err = LoadConfig(path)
	require.ErrorIs(t, err, ErrInvalidExtension)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateDocument(t *testing.T) {
	require.NoError(t, ValidateDocument(nil))
	require.NoError(t, ValidateDocument([]byte("target: go\nlog:\n  level: debug\n")))

	err := ValidateDocument([]byte("log:\n  level: loud\n  colour: red\n"))
	require.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "log.level")

	err = ValidateDocument([]byte("target: [unclosed"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchema)
}
