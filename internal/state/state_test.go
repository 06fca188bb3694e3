package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwveysey/coding-agent-notifications/internal/config"
)

func TestFlag(t *testing.T) {
	flag := NewFlag(filepath.Join(t.TempDir(), "nested", ".sounds-enabled"))

	assert.False(t, flag.Enabled())
	require.NoError(t, flag.Set(true))
	assert.True(t, flag.Enabled())
	require.NoError(t, flag.Set(true))
	require.NoError(t, flag.Set(false))
	assert.False(t, flag.Enabled())
	require.NoError(t, flag.Set(false))
}

func TestManagerRefreshNotifiesOnChange(t *testing.T) {
	paths := config.NewPaths(t.TempDir(), "")
	m := NewManager(paths)
	assert.False(t, m.Get().SoundsEnabled)

	ch := m.Subscribe()
	defer m.Unsubscribe(ch)

	_, changed := m.Refresh("")
	assert.False(t, changed)
	assert.Len(t, ch, 0)

	require.NoError(t, m.SoundsEnabled().Set(true))
	snap, changed := m.Refresh(paths.SoundsEnabledFile())
	assert.True(t, changed)
	assert.True(t, snap.SoundsEnabled)

	require.Len(t, ch, 1)
	event := <-ch
	assert.Equal(t, "update", event.Type)
	assert.Equal(t, paths.SoundsEnabledFile(), event.Path)
	assert.True(t, event.Snapshot.SoundsEnabled)

	require.NoError(t, os.WriteFile(paths.ManifestFile(), []byte("{}"), 0o644))
	snap, changed = m.Refresh(paths.ManifestFile())
	assert.True(t, changed)
	assert.True(t, snap.Installed)
	assert.True(t, m.Get().Installed)
}

func TestManagerConfigChanged(t *testing.T) {
	m := NewManager(config.NewPaths(t.TempDir(), ""))
	ch := m.Subscribe()

	m.ConfigChanged("/x/audio-notifier.yaml")
	event := <-ch
	assert.Equal(t, "config", event.Type)

	m.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)
}

func TestManagerSkipsFullSubscribers(t *testing.T) {
	m := NewManager(config.NewPaths(t.TempDir(), ""))
	ch := m.Subscribe()
	defer m.Unsubscribe(ch)

	for i := 0; i < cap(ch)+10; i++ {
		m.ConfigChanged("")
	}
	assert.Len(t, ch, cap(ch))
}
