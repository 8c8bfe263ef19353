package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedadmin/internal/config"
	"fedadmin/internal/devserver"
	"fedadmin/internal/errs"
)

const testSecret = "cli-test-secret"

type env struct {
	dev        *devserver.Server
	url        string
	configPath string
	exportDir  string
}

// newEnv starts a dev server and points the console configuration at it
// through a config file and FEDADMIN_* variables.
func newEnv(t *testing.T) *env {
	t.Helper()
	dev := devserver.New(devserver.Config{JWTSecret: testSecret, Seed: 5, Rows: 25})
	srv := httptest.NewServer(dev.Handler())
	t.Cleanup(srv.Close)

	token, err := devserver.MintToken([]byte(testSecret), "cli-test", time.Hour, time.Now())
	require.NoError(t, err)

	dir := t.TempDir()
	e := &env{
		dev:        dev,
		url:        srv.URL,
		configPath: filepath.Join(dir, "config.toml"),
		exportDir:  filepath.Join(dir, "exports"),
	}
	require.NoError(t, os.MkdirAll(e.exportDir, 0o700))
	require.NoError(t, config.Save(e.configPath, config.Default()))

	t.Setenv("FEDADMIN_API_BASE_URL", srv.URL)
	t.Setenv("FEDADMIN_API_TOKEN", token)
	t.Setenv("FEDADMIN_EXPORT_SINK", "fs")
	t.Setenv("FEDADMIN_EXPORT_DIR", e.exportDir)
	t.Setenv("FEDADMIN_LOG_FILE", filepath.Join(dir, "fedadmin.log"))
	return e
}

func (e *env) execute(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append(args, "--config", e.configPath))
	err := root.Execute()
	return buf.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	for _, sub := range []string{"tui", "export", "notify", "bulk", "dev-server", "dev-token"} {
		assert.Contains(t, buf.String(), sub)
	}
}

func TestExportCommand(t *testing.T) {
	e := newEnv(t)

	out, err := e.execute("export", "users", "--format", "csv", "--filter", "status=pending")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Saved csv export of")

	entries, err := os.ReadDir(e.exportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "users"), entries[0].Name())
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".csv"), entries[0].Name())

	data, err := os.ReadFile(filepath.Join(e.exportDir, entries[0].Name()))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	for _, line := range lines[1:] {
		assert.Contains(t, line, "pending")
	}
}

func TestExportCommand_UnknownDomain(t *testing.T) {
	e := newEnv(t)

	_, err := e.execute("export", "pets")
	require.Error(t, err)
	assert.True(t, errs.HasCode(err, errs.CodeCLIInputInvalid))
	assert.Contains(t, errs.Message(err), "unknown domain")
}

func TestNotifyCommand_Class(t *testing.T) {
	e := newEnv(t)

	out, err := e.execute("notify", "users", "--subject", "Season", "--body", "Registrations are open.", "--class", "players")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Notification sent to players")

	outbox := e.dev.Users.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "players", outbox[0].RecipientClass)
}

func TestNotifyCommand_NeedsOneTarget(t *testing.T) {
	e := newEnv(t)

	_, err := e.execute("notify", "users", "--subject", "S", "--body", "B", "--class", "players", "--ids", "1")
	require.Error(t, err)
	assert.True(t, errs.HasCode(err, errs.CodeCLIInputInvalid))

	_, err = e.execute("notify", "users", "--subject", "S", "--body", "B")
	require.Error(t, err)
	assert.Empty(t, e.dev.Users.Outbox())
}

func TestBulkCommand(t *testing.T) {
	e := newEnv(t)

	out, err := e.execute("bulk", "users", "approve", "--ids", "1,2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Approve applied to 2 users")

	for _, id := range []int64{1, 2} {
		u, ok := e.dev.Users.Store.Get(id)
		require.True(t, ok)
		assert.Equal(t, "active", u.Status)
	}
}

func TestBulkCommand_ReasonRequired(t *testing.T) {
	e := newEnv(t)
	before, _ := e.dev.Users.Store.Get(3)

	_, err := e.execute("bulk", "users", "reject", "--ids", "3")
	require.Error(t, err)
	assert.Equal(t, "a reason is required", errs.Message(err))

	after, _ := e.dev.Users.Store.Get(3)
	assert.Equal(t, before.Status, after.Status)

	_, err = e.execute("bulk", "users", "suspend", "--ids", "3", "--reason", "no-shows", "--days", "7")
	require.NoError(t, err)
	after, _ = e.dev.Users.Store.Get(3)
	assert.Equal(t, "suspended", after.Status)
}

func TestAPIURLFlagOverridesEnv(t *testing.T) {
	e := newEnv(t)
	t.Setenv("FEDADMIN_API_BASE_URL", "http://127.0.0.1:1")

	out, err := e.execute("bulk", "users", "activate", "--ids", "4", "--api-url", e.url)
	require.NoError(t, err, out)
}

func TestDevTokenAcceptedByDevServer(t *testing.T) {
	t.Setenv("FEDADMIN_DEV_JWT_SECRET", testSecret)

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"dev-token", "--subject", "ops", "--ttl", "5m"})
	require.NoError(t, root.Execute())
	token := strings.TrimSpace(buf.String())
	require.Len(t, strings.Split(token, "."), 3)

	dev := devserver.New(devserver.Config{JWTSecret: testSecret, Seed: 1, Rows: 3})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	dev.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
