package agentdir

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/den-cli/den/internal/domain"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const agentsDir = "/Users/me/Library/LaunchAgents"

func newMemStore(t *testing.T, files ...string) *Store {
	t.Helper()
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll(agentsDir, 0o755))
	for _, name := range files {
		require.NoError(t, util.WriteFile(fsys, filepath.Join(agentsDir, name), []byte("x"), 0o644))
	}
	return NewWithFS(fsys, agentsDir)
}

func TestStore_Scan_DomainScoping(t *testing.T) {
	store := newMemStore(t,
		// Owned by com.foo
		"com.foo.backup.plist",
		"com.foo.brew-dump.plist",
		"com.foo.a_b.plist",
		// Near misses
		"com.foobar.task.plist",
		"com.fo.task.plist",
		"com.foo.task.txt",
		"com.foo.task.plist.bak",
		"com.foo.plist",
		"com.foo..plist",
		"org.foo.task.plist",
		"xcom.foo.task.plist",
		"com.apple.something.plist",
	)
	// Directories named like agents are ignored.
	require.NoError(t, store.fs.MkdirAll(filepath.Join(agentsDir, "com.foo.dir.plist"), 0o755))

	paths, err := store.Scan("com.foo")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(agentsDir, "com.foo.a_b.plist"),
		filepath.Join(agentsDir, "com.foo.backup.plist"),
		filepath.Join(agentsDir, "com.foo.brew-dump.plist"),
	}, paths)
}

func TestStore_Scan_LongerDomainDoesNotSeeShorter(t *testing.T) {
	store := newMemStore(t, "com.foo.task.plist", "com.foobar.task.plist")

	paths, err := store.Scan("com.foobar")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(agentsDir, "com.foobar.task.plist")}, paths)
}

func TestStore_Scan_MissingDirectory(t *testing.T) {
	store := NewWithFS(memfs.New(), "/nowhere")

	paths, err := store.Scan("com.foo")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestStore_ScanDir_OtherDirectory(t *testing.T) {
	store := newMemStore(t, "com.foo.a.plist")
	other := "/tmp/agents"
	require.NoError(t, util.WriteFile(store.fs, filepath.Join(other, "com.foo.b.plist"), []byte("x"), 0o644))

	paths, err := store.ScanDir("com.foo", other)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(other, "com.foo.b.plist")}, paths)
}

func TestStore_Scan_ExtractTaskNames(t *testing.T) {
	store := newMemStore(t, "com.foo.backup.plist", "com.foo.sync-2.plist")

	paths, err := store.Scan("com.foo")
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, domain.ExtractTaskName(p, "com.foo"))
	}
	assert.Equal(t, []string{"backup", "sync-2"}, names)
}

func TestStore_Path(t *testing.T) {
	store := NewWithFS(memfs.New(), agentsDir)
	assert.Equal(t, filepath.Join(agentsDir, "com.foo.backup.plist"), store.Path("com.foo", "backup"))
	assert.Equal(t, agentsDir, store.Dir())
}

func TestStore_WriteReadRemove(t *testing.T) {
	store := NewWithFS(memfs.New(), agentsDir)
	path := store.Path("com.foo", "backup")

	exists, err := store.Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	// Write creates the directory.
	require.NoError(t, store.Write(path, "<plist/>"))

	exists, err = store.Exists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	content, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "<plist/>", content)

	require.NoError(t, store.Remove(path))
	exists, err = store.Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_Errors(t *testing.T) {
	store := NewWithFS(memfs.New(), agentsDir)
	missing := store.Path("com.foo", "missing")

	_, err := store.Read(missing)
	var fsErr *domain.FilesystemError
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, "read", fsErr.Op)
	assert.Equal(t, missing, fsErr.Path)

	err = store.Remove(missing)
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, "remove", fsErr.Op)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestStore_OSFilesystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "LaunchAgents")
	store := New(dir)
	path := store.Path("com.foo", "backup")

	require.NoError(t, store.Write(path, "content"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm()&0o644)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "com.foobar.x.plist"), []byte("x"), 0o644))

	paths, err := store.Scan("com.foo")
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}
