package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/appshell/internal/logging"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(99), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestEventTypeOf(t *testing.T) {
	assert.Equal(t, EventTypeCreated, eventTypeOf(fsnotify.Create))
	assert.Equal(t, EventTypeModified, eventTypeOf(fsnotify.Write))
	assert.Equal(t, EventTypeDeleted, eventTypeOf(fsnotify.Remove))
	assert.Equal(t, EventTypeRenamed, eventTypeOf(fsnotify.Rename))
	assert.Equal(t, EventTypeModified, eventTypeOf(fsnotify.Chmod))
}

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.watcher)
	assert.NotNil(t, watcher.debouncer)
	assert.NotNil(t, watcher.logger)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)
}

func TestFileWatcherFilters(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, logging.Discard())
	require.NoError(t, err)
	defer watcher.Stop()

	watcher.AddFilter(PathFilter("site/pages.yml"))
	watcher.AddFilter(func(path string) bool { return filepath.Base(path) != "pages.json" })
	assert.Len(t, watcher.filters, 2)

	assert.True(t, watcher.accepts("site/pages.yml"))
	assert.False(t, watcher.accepts("site/.pages.yml.swp"))
	assert.False(t, watcher.accepts("site/pages.json"))
}

func TestPathFilter(t *testing.T) {
	filter := PathFilter("/srv/site/pages.yml")
	assert.True(t, filter("/srv/site/pages.yml"))
	assert.True(t, filter("/srv/site/./pages.yml"))
	assert.False(t, filter("/srv/site/other.yml"))
}

func TestFileWatcherAddPath(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NoError(t, watcher.AddPath(t.TempDir()))
	assert.Error(t, watcher.AddPath("/non/existent/path"))
	assert.Error(t, watcher.AddPath("  "))
}

func TestFileWatcherAddFile(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	assert.Error(t, watcher.AddFile(dir), "directories are rejected")
	assert.Error(t, watcher.AddFile(filepath.Join(dir, "missing.yml")))

	file := filepath.Join(dir, "pages.yml")
	require.NoError(t, os.WriteFile(file, []byte("pages: []\n"), 0o644))
	require.NoError(t, watcher.AddFile(file))

	assert.True(t, watcher.accepts(file))
	assert.False(t, watcher.accepts(filepath.Join(dir, "other.yml")))
}

func TestFileWatcherDeliversChanges(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pages.yml")
	require.NoError(t, os.WriteFile(file, []byte("pages: []\n"), 0o644))

	watcher, err := NewFileWatcher(50*time.Millisecond, logging.Discard())
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, watcher.AddFile(file))

	batches := make(chan []ChangeEvent, 10)
	watcher.AddHandler(func(_ context.Context, events []ChangeEvent) error {
		batches <- events
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	// Give the watcher time to start
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.yml"), []byte("x"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(file, []byte("pages: []\n# edit\n"), 0o644))
	}

	select {
	case events := <-batches:
		require.Len(t, events, 1, "rapid writes collapse into one event")
		assert.Equal(t, file, events[0].Path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change batch delivered")
	}
}

func TestDebouncer(t *testing.T) {
	debouncer := NewDebouncer(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go debouncer.Start(ctx)

	var receivedEvents [][]ChangeEvent
	var eventMutex sync.Mutex

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case events := <-debouncer.Output():
				eventMutex.Lock()
				receivedEvents = append(receivedEvents, events)
				eventMutex.Unlock()
			}
		}
	}()

	debouncer.Add(ChangeEvent{Path: "b.yml", Type: EventTypeModified})
	debouncer.Add(ChangeEvent{Path: "b.yml", Type: EventTypeDeleted})
	debouncer.Add(ChangeEvent{Path: "a.yml", Type: EventTypeCreated})

	// Wait for debouncing
	time.Sleep(200 * time.Millisecond)

	eventMutex.Lock()
	defer eventMutex.Unlock()

	require.Len(t, receivedEvents, 1)
	batch := receivedEvents[0]
	require.Len(t, batch, 2)
	assert.Equal(t, "a.yml", batch[0].Path)
	assert.Equal(t, "b.yml", batch[1].Path)
	assert.Equal(t, EventTypeDeleted, batch[1].Type, "last event per path wins")
}

func TestDebouncerFlushEmpty(t *testing.T) {
	debouncer := NewDebouncer(time.Millisecond)
	debouncer.flush()

	select {
	case <-debouncer.Output():
		t.Fatal("empty flush must not emit")
	default:
	}
}
