package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersJSON = `[
  {"id": "1", "username": "alice", "displayName": "Alice A"},
  {"id": "2", "username": "bob", "displayName": "Bob B"},
  {"id": "3", "username": "malice", "displayName": "M"}
]`

func writeFixture(t *testing.T) (configPath, usersPath string) {
	t.Helper()
	dir := t.TempDir()

	usersPath = filepath.Join(dir, "users.json")
	require.NoError(t, os.WriteFile(usersPath, []byte(usersJSON), 0o644))

	configPath = filepath.Join(dir, "usersearch.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
search:
  fields: [username, name]
source:
  kind: snapshot
  name: users/latest.snap
store:
  kind: local
  root: `+filepath.Join(dir, "blobs")+`
snapshot:
  codec: go-json
  compression: lz4
log:
  level: error
`), 0o644))

	return configPath, usersPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestSnapshotPutInspectQuery(t *testing.T) {
	configPath, usersPath := writeFixture(t)

	out, err := run(t, "--config", configPath, "snapshot", "put", usersPath)
	require.NoError(t, err)
	assert.Contains(t, out, "records:     3")
	assert.Contains(t, out, "codec:       go-json")

	out, err = run(t, "--config", configPath, "snapshot", "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "records:     3")
	assert.Contains(t, out, "version:     1")

	out, err = run(t, "--config", configPath, "query", "--plain", "ali")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "@[ali]ce")
	assert.Contains(t, lines[0], "[Ali]ce A")
	assert.Contains(t, lines[1], "@m[ali]ce")

	out, err = run(t, "--config", configPath, "query", "--plain", "--limit", "1", "ali")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))

	out, err = run(t, "--config", configPath, "query", "--plain", "xyz")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestQuery_JSONSource(t *testing.T) {
	dir := t.TempDir()
	usersPath := filepath.Join(dir, "users.json")
	require.NoError(t, os.WriteFile(usersPath, []byte(usersJSON), 0o644))

	configPath := filepath.Join(dir, "usersearch.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
source:
  kind: json
  path: `+usersPath+`
log:
  level: error
`), 0o644))

	out, err := run(t, "--config", configPath, "query", "--plain", "--fields", "username", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "@[bob]  Bob B")
}

func TestQuery_InvalidField(t *testing.T) {
	configPath, usersPath := writeFixture(t)

	_, err := run(t, "--config", configPath, "snapshot", "put", usersPath)
	require.NoError(t, err)

	_, err = run(t, "--config", configPath, "query", "--fields", "missingField", "ali")
	assert.ErrorContains(t, err, "invalid argument")
}

func TestSnapshotInspect_Missing(t *testing.T) {
	configPath, _ := writeFixture(t)

	_, err := run(t, "--config", configPath, "snapshot", "inspect")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
