package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
)

func TestCreateSkipsMissingSettings(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "backups")
	m := NewManager(dir)

	path, err := m.Create(filepath.Join(root, "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.NoDirExists(t, dir)
}

func TestCreateCopiesBytes(t *testing.T) {
	root := t.TempDir()
	settings := filepath.Join(root, "settings.json")
	content := []byte("{\n  \"hooks\": {}\n}\n\x00odd bytes")
	require.NoError(t, os.WriteFile(settings, content, 0o644))

	clock := func() time.Time { return time.Unix(1700000000, 0) }
	m := NewManager(filepath.Join(root, "backups"), WithClock(clock))

	path, err := m.Create(settings)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "backups", "settings-pre-audio-notifier-1700000000.json"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestCreateFailsWhenDirectoryCannotBeCreated(t *testing.T) {
	root := t.TempDir()
	settings := filepath.Join(root, "settings.json")
	require.NoError(t, os.WriteFile(settings, []byte("{}"), 0o644))

	blocker := filepath.Join(root, "backups")
	require.NoError(t, os.WriteFile(blocker, []byte("a file"), 0o644))

	_, err := NewManager(blocker).Create(settings)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrIO)
}

func TestCreateSameSecondKeepsEarlierBackup(t *testing.T) {
	root := t.TempDir()
	settings := filepath.Join(root, "settings.json")
	require.NoError(t, os.WriteFile(settings, []byte(`{"pristine":true}`), 0o644))

	clock := func() time.Time { return time.Unix(1700000000, 0) }
	m := NewManager(filepath.Join(root, "backups"), WithClock(clock))

	first, err := m.Create(settings)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(settings, []byte(`{"mutated":true}`), 0o644))

	second, err := m.Create(settings)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, filepath.Join(root, "backups", "settings-pre-audio-notifier-1700000000-1.json"), second)

	got, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, `{"pristine":true}`, string(got))

	got, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, `{"mutated":true}`, string(got))
}
