package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes content as ecm.toml in a fresh temp dir and returns the
// file path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewDefaults()

	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, ".ecm/drafts", cfg.Storage.Dir)
	assert.Equal(t, "ECM_REGISTRY_TOKEN", cfg.Registry.TokenEnv)
	assert.Equal(t, 30, cfg.Registry.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Registry.PushConcurrency)
	assert.True(t, cfg.Flows.TransportStep)
	assert.True(t, cfg.Flows.LabAnalysisStep)
	assert.True(t, cfg.Flows.EvidenceStep)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[project]
name = "Karaman Pilot"
facility_id = "FAC-TR-004"

[storage]
backend = "sqlite"
sqlite_path = "/var/lib/ecm/drafts.db"

[registry]
base_url = "https://registry.example.com"
timeout_seconds = 10

[flows]
lab_analysis_step = false
`)

	cfg, md, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Karaman Pilot", cfg.Project.Name)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/ecm/drafts.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 10, cfg.Registry.TimeoutSeconds)

	// Unset keys keep their defaults, including booleans.
	assert.Equal(t, 3, cfg.Registry.PushConcurrency)
	assert.True(t, cfg.Flows.TransportStep)
	assert.False(t, cfg.Flows.LabAnalysisStep)

	assert.Empty(t, md.Undecoded())
}

func TestLoadFromFile_UnknownKeysReported(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[project]
name = "x"
legacy_field = "y"
`)

	_, md, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, md.Undecoded(), 1)
	assert.Equal(t, "project.legacy_field", md.Undecoded()[0].String())
}

func TestLoadFromFile_MalformedTOML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `[project`)
	_, _, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestFindConfigFile_WalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(""), 0644))

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ConfigFileName), found)
}

func TestFindConfigFile_NotFound(t *testing.T) {
	t.Parallel()

	found, err := FindConfigFile(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestLoad_NoFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, path, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, NewDefaults(), cfg)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[storage]
backend = "postgres"
`)

	_, _, err := Load(filepath.Dir(path), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErrs  []string // fields expected with error severity
		wantClean bool
	}{
		{
			name:      "defaults are valid",
			mutate:    func(c *Config) {},
			wantClean: true,
		},
		{
			name:     "unknown backend",
			mutate:   func(c *Config) { c.Storage.Backend = "redis" },
			wantErrs: []string{"storage.backend"},
		},
		{
			name: "file backend needs a dir",
			mutate: func(c *Config) {
				c.Storage.Dir = ""
			},
			wantErrs: []string{"storage.dir"},
		},
		{
			name: "sqlite backend needs a path",
			mutate: func(c *Config) {
				c.Storage.Backend = "sqlite"
				c.Storage.SQLitePath = ""
			},
			wantErrs: []string{"storage.sqlite_path"},
		},
		{
			name:     "relative base URL",
			mutate:   func(c *Config) { c.Registry.BaseURL = "registry.example.com" },
			wantErrs: []string{"registry.base_url"},
		},
		{
			name:     "non-http scheme",
			mutate:   func(c *Config) { c.Registry.BaseURL = "ftp://registry.example.com" },
			wantErrs: []string{"registry.base_url"},
		},
		{
			name:     "zero timeout",
			mutate:   func(c *Config) { c.Registry.TimeoutSeconds = 0 },
			wantErrs: []string{"registry.timeout_seconds"},
		},
		{
			name:     "excessive concurrency",
			mutate:   func(c *Config) { c.Registry.PushConcurrency = 64 },
			wantErrs: []string{"registry.push_concurrency"},
		},
		{
			name:     "blank token env",
			mutate:   func(c *Config) { c.Registry.TokenEnv = "  " },
			wantErrs: []string{"registry.token_env"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewDefaults()
			cfg.Registry.BaseURL = "https://registry.example.com"
			cfg.Project.FacilityID = "FAC-1"
			tt.mutate(cfg)

			vr := Validate(cfg)
			if tt.wantClean {
				assert.False(t, vr.HasErrors(), "issues: %+v", vr.Issues)
				return
			}

			require.True(t, vr.HasErrors())
			var fields []string
			for _, issue := range vr.Errors() {
				fields = append(fields, issue.Field)
			}
			for _, want := range tt.wantErrs {
				assert.Contains(t, fields, want)
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	t.Parallel()

	cfg := NewDefaults()
	vr := Validate(cfg)

	assert.False(t, vr.HasErrors())
	var fields []string
	for _, issue := range vr.Warnings() {
		fields = append(fields, issue.Field)
	}
	assert.Contains(t, fields, "registry.base_url")
	assert.Contains(t, fields, "project.facility_id")
}
