package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionWatcher_InitialLoad(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "blog.yml", "content_types:\n  - name: BlogPost\n")

	registry := NewDefinitionRegistry()
	watcher, err := NewDefinitionWatcher(dir, registry, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, watcher.Start(ctx))

	_, exists := registry.Get("BlogPost")
	assert.True(t, exists)
}

func TestDefinitionWatcher_ReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "blog.yml", "content_types:\n  - name: BlogPost\n")

	registry := NewDefinitionRegistry()
	watcher, err := NewDefinitionWatcher(dir, registry, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	writeDefinition(t, dir, "pages.yml", "content_types:\n  - name: LandingPage\n")

	require.Eventually(t, func() bool {
		_, exists := registry.Get("LandingPage")
		return exists
	}, 5*time.Second, 50*time.Millisecond, "watcher did not pick up new definition file")
}

func TestDefinitionWatcher_BadReloadKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir, "blog.yml", "content_types:\n  - name: BlogPost\n")

	registry := NewDefinitionRegistry()
	watcher, err := NewDefinitionWatcher(dir, registry, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte("content_types: [\n"), 0644))

	// The malformed file must not wipe the registry.
	time.Sleep(time.Second)
	_, exists := registry.Get("BlogPost")
	assert.True(t, exists)
}

func TestDefinitionWatcher_MissingDir(t *testing.T) {
	registry := NewDefinitionRegistry()
	_, err := NewDefinitionWatcher(filepath.Join(t.TempDir(), "absent"), registry, nil)
	assert.Error(t, err)
}

func TestDefinitionWatcher_StopTwice(t *testing.T) {
	dir := t.TempDir()
	registry := NewDefinitionRegistry()
	watcher, err := NewDefinitionWatcher(dir, registry, nil)
	require.NoError(t, err)

	require.NoError(t, watcher.Stop())
	require.NoError(t, watcher.Stop())
}
