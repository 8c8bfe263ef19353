package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedadmin/internal/errs"
	"fedadmin/internal/sink"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadBootstrapsDefaultFile(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	path := filepath.Join(dir, "fedadmin", "config.toml")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[api]")
	assert.Contains(t, string(data), "15s")
}

func TestFileThenEnvPrecedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "https://admin.example.org"
timeout = "30s"

[ui]
page_size = 50
default_domain = "courts"
`), 0o600))
	t.Setenv("FEDADMIN_UI_PAGE_SIZE", "25")
	t.Setenv("FEDADMIN_API_TOKEN", "from-env")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://admin.example.org", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "from-env", cfg.API.Token)
	assert.Equal(t, 25, cfg.UI.PageSize)
	assert.Equal(t, "courts", cfg.UI.DefaultDomain)
	assert.Equal(t, "fs", cfg.Export.Sink, "unset keys keep their defaults")
}

func TestSaveRoundTrips(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "fedadmin.toml")
	want := Default()
	want.API.Token = "secret"
	want.API.Timeout = 90 * time.Second
	want.Export = ExportConfig{Sink: "s3", Dir: "/tmp/x", S3: S3Config{
		Bucket: "exports", Region: "eu-west-1", Endpoint: "http://minio:9000", Prefix: "fedadmin", PathStyle: true,
	}}

	require.NoError(t, Save(path, want))
	got, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestBootstrapKeepsExistingFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\npage_size = 5\n"), 0o600))

	created, err := Bootstrap(path)

	require.NoError(t, err)
	assert.False(t, created)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "[ui]\npage_size = 5\n", string(data))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.toml"))

	require.Error(t, err)
	assert.Equal(t, errs.CodeConfigLoadFailure, errs.CodeOf(err))
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.API.BaseURL = "ftp://host"
	cfg.API.Timeout = 0
	cfg.UI.PageSize = 0
	cfg.UI.DefaultDomain = "venues"
	cfg.Export.Sink = "s3"

	problems := cfg.Validate()

	assert.Len(t, problems, 5)
}

func TestInvalidValueFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("FEDADMIN_EXPORT_SINK", "dropbox")

	_, err := Load("")

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "export.sink")
}

func TestSinkConfig(t *testing.T) {
	e := ExportConfig{Sink: "s3", Dir: "out", S3: S3Config{Bucket: "b", Region: "r", Endpoint: "e", Prefix: "p", PathStyle: true}}

	assert.Equal(t, sink.Config{
		Driver: "s3",
		Dir:    "out",
		S3:     sink.S3Config{Bucket: "b", Region: "r", Endpoint: "e", Prefix: "p", PathStyle: true},
	}, e.SinkConfig())
}
