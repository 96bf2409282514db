package links

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"testing/fstest"

	"linkdeck/internal/config"
	"linkdeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeLauncher records every URL it is asked to open
type fakeLauncher struct {
	opened []string
	err    error
}

func (f *fakeLauncher) Open(url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

// failingFS wraps a MapFS and fails to open selected files
type failingFS struct {
	fstest.MapFS
	fail map[string]error
}

func (f failingFS) Open(name string) (fs.File, error) {
	if err, ok := f.fail[name]; ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return f.MapFS.Open(name)
}

func (f failingFS) ReadFile(name string) ([]byte, error) {
	if err, ok := f.fail[name]; ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return f.MapFS.ReadFile(name)
}

func shortcutFile(url string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("[InternetShortcut]\r\nURL=" + url + "\r\n")}
}

func newTestManager(t *testing.T) (*Manager, *fakeLauncher) {
	t.Helper()
	launcher := &fakeLauncher{}
	m := New(launcher, WithConfigPath(filepath.Join(t.TempDir(), "config.json")))
	return m, launcher
}

func TestImportFS_ExampleScenario(t *testing.T) {
	m, _ := newTestManager(t)
	fsys := fstest.MapFS{
		"a.url": shortcutFile("http://b.com"),
		"b.url": shortcutFile("http://a.com"),
		"c.url": shortcutFile("http://a.com"),
		"d.txt": {Data: []byte("URL=http://ignored.com\n")},
	}

	res, err := m.ImportFS(models.SlotA, "/links", fsys)
	require.NoError(t, err)
	require.NotNil(t, res)

	want := []string{"http://a.com", "http://b.com"}
	assert.Equal(t, want, res.Links)
	assert.Equal(t, want, m.Links(models.SlotA))
	assert.Equal(t, "/links", m.Folder(models.SlotA))
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 3, res.Parsed)
	assert.Empty(t, res.Errors)
}

func TestImportFS_DedupesAndSorts(t *testing.T) {
	m, _ := newTestManager(t)
	fsys := fstest.MapFS{
		"1.url": shortcutFile("https://zeta.org"),
		"2.url": shortcutFile("https://Alpha.org"),
		"3.url": shortcutFile("https://alpha.org"),
		"4.url": shortcutFile("https://zeta.org"),
		"5.URL": shortcutFile("https://beta.org"),
		"6.Url": shortcutFile("https://alpha.org"),
	}

	res, err := m.ImportFS(models.SlotB, "/x", fsys)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://Alpha.org", "https://alpha.org", "https://beta.org", "https://zeta.org"}, res.Links)
	assert.True(t, sort.StringsAreSorted(res.Links))
	assert.Equal(t, 6, res.Parsed)
}

func TestImportFS_ReplacesNotMerges(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.ImportFS(models.SlotA, "/a", fstest.MapFS{"x.url": shortcutFile("http://from-a.com")})
	require.NoError(t, err)

	res, err := m.ImportFS(models.SlotA, "/b", fstest.MapFS{"y.url": shortcutFile("http://from-b.com")})
	require.NoError(t, err)

	assert.Equal(t, []string{"http://from-b.com"}, m.Links(models.SlotA))
	assert.Equal(t, "/b", m.Folder(models.SlotA))
	assert.Equal(t, []string{"http://from-b.com"}, res.Added)
	assert.Equal(t, []string{"http://from-a.com"}, res.Removed)
}

func TestImportFS_SlotsAreIndependent(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.ImportFS(models.SlotA, "/a", fstest.MapFS{"x.url": shortcutFile("http://one.com")})
	require.NoError(t, err)
	_, err = m.ImportFS(models.SlotB, "/b", fstest.MapFS{"y.url": shortcutFile("http://two.com")})
	require.NoError(t, err)

	assert.Equal(t, []string{"http://one.com"}, m.Links(models.SlotA))
	assert.Equal(t, []string{"http://two.com"}, m.Links(models.SlotB))
}

func TestImportFS_EmptyFolderIsNoop(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.ImportFS(models.SlotA, "/a", fstest.MapFS{"x.url": shortcutFile("http://keep.com")})
	require.NoError(t, err)

	res, err := m.ImportFS(models.SlotA, "", fstest.MapFS{})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, []string{"http://keep.com"}, m.Links(models.SlotA))
	assert.Equal(t, "/a", m.Folder(models.SlotA))

	res, err = m.Import(models.SlotA, "")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestImportFS_UnreadableFileIsSkipped(t *testing.T) {
	m, _ := newTestManager(t)
	fsys := failingFS{
		MapFS: fstest.MapFS{
			"1.url": shortcutFile("http://one.com"),
			"2.url": shortcutFile("http://two.com"),
			"3.url": shortcutFile("http://three.com"),
			"4.url": shortcutFile("http://four.com"),
			"5.url": shortcutFile("http://five.com"),
		},
		fail: map[string]error{"3.url": fs.ErrPermission},
	}

	res, err := m.ImportFS(models.SlotA, "/links", fsys)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Files)
	assert.Equal(t, 4, res.Parsed)
	assert.Len(t, res.Links, 4)
	assert.NotContains(t, res.Links, "http://three.com")
	require.Len(t, res.Errors, 1)
	assert.True(t, res.HasErrors())

	readErr := res.Errors[0]
	assert.Equal(t, filepath.Join("/links", "3.url"), readErr.Path)
	assert.True(t, errors.Is(readErr, fs.ErrPermission))
	assert.Contains(t, readErr.Error(), "3.url")
}

func TestImportFS_UndecodableFileIsReported(t *testing.T) {
	m, _ := newTestManager(t)
	fsys := fstest.MapFS{
		"good.url":   shortcutFile("http://good.com"),
		"binary.url": {Data: []byte{0xC3, 0x28, 0x00, 0xFF}},
	}

	res, err := m.ImportFS(models.SlotA, "/links", fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://good.com"}, res.Links)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Path, "binary.url")
}

func TestImportFS_ParseMissIsSilent(t *testing.T) {
	m, _ := newTestManager(t)
	fsys := fstest.MapFS{
		"empty.url": {Data: []byte("[InternetShortcut]\r\nIconIndex=0\r\n")},
		"ok.url":    shortcutFile("http://ok.com"),
	}

	res, err := m.ImportFS(models.SlotA, "/links", fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://ok.com"}, res.Links)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, 1, res.Parsed)
	assert.Empty(t, res.Errors)
}

func TestImportFS_FirstURLLineWins(t *testing.T) {
	m, _ := newTestManager(t)
	fsys := fstest.MapFS{
		"multi.url": {Data: []byte("URL=http://first.com\nURL=http://second.com\n")},
	}

	res, err := m.ImportFS(models.SlotA, "/links", fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://first.com"}, res.Links)
}

func TestImportFS_NonRecursive(t *testing.T) {
	m, _ := newTestManager(t)
	fsys := fstest.MapFS{
		"top.url":        shortcutFile("http://top.com"),
		"nested/sub.url": shortcutFile("http://nested.com"),
		"folder.url/x":   {Data: []byte("not a shortcut")},
	}

	res, err := m.ImportFS(models.SlotA, "/links", fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://top.com"}, res.Links)
	assert.Equal(t, 1, res.Files)
}

func TestImportFS_RecordsSources(t *testing.T) {
	m, _ := newTestManager(t)
	fsys := fstest.MapFS{
		"a.url": shortcutFile("http://dup.com"),
		"b.url": shortcutFile("http://dup.com"),
	}

	_, err := m.ImportFS(models.SlotA, "/links", fsys)
	require.NoError(t, err)

	sources := m.Sources(models.SlotA, "http://dup.com")
	assert.Equal(t, []string{filepath.Join("/links", "a.url"), filepath.Join("/links", "b.url")}, sources)
	assert.Empty(t, m.Sources(models.SlotB, "http://dup.com"))
}

func TestImportFS_UnknownSlot(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.ImportFS(models.Slot(5), "/links", fstest.MapFS{})
	assert.True(t, errors.Is(err, ErrUnknownSlot))
}

func TestImport_RealFolder(t *testing.T) {
	m, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.url"), []byte("URL=http://real.com\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.txt"), []byte("URL=http://no.com\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.url"), 0755))

	res, err := m.Import(models.SlotA, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://real.com"}, res.Links)
	assert.Equal(t, dir, m.Folder(models.SlotA))
	assert.Equal(t, filepath.Base(dir), m.FolderName(models.SlotA))
}

func TestImport_FollowsSymlinks(t *testing.T) {
	m, _ := newTestManager(t)
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "target.url")
	require.NoError(t, os.WriteFile(target, []byte("URL=http://linked.com\n"), 0644))
	if err := os.Symlink(target, filepath.Join(dir, "link.url")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	res, err := m.Import(models.SlotA, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://linked.com"}, res.Links)
}

func TestImport_MissingFolder(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.ImportFS(models.SlotA, "/a", fstest.MapFS{"x.url": shortcutFile("http://keep.com")})
	require.NoError(t, err)

	_, err = m.Import(models.SlotA, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, []string{"http://keep.com"}, m.Links(models.SlotA))
}

func TestReimport(t *testing.T) {
	m, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.url"), []byte("URL=http://a.com\n"), 0644))

	_, err := m.Import(models.SlotA, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.url"), []byte("URL=http://b.com\n"), 0644))
	res, err := m.Reimport(models.SlotA)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, res.Links)
	assert.Equal(t, []string{"http://b.com"}, res.Added)

	res, err = m.Reimport(models.SlotB)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestReimportAll_MissingFolderKeepsLinks(t *testing.T) {
	m, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.url"), []byte("URL=http://a.com\n"), 0644))

	cfg := config.Default()
	cfg.SetSlot(models.SlotA, []string{"http://stale.com"}, dir)
	cfg.SetSlot(models.SlotB, []string{"http://kept.com"}, filepath.Join(dir, "gone"))
	m.Restore(cfg)

	results, err := m.ReimportAll()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFolderMissing))
	require.Len(t, results, 1)
	assert.Equal(t, []string{"http://a.com"}, m.Links(models.SlotA))
	assert.Equal(t, []string{"http://kept.com"}, m.Links(models.SlotB))
}

func TestFilter(t *testing.T) {
	m, _ := newTestManager(t)
	fsys := fstest.MapFS{
		"1.url": shortcutFile("https://GitHub.com/go"),
		"2.url": shortcutFile("https://example.com"),
		"3.url": shortcutFile("https://github.com/rust"),
		"4.url": shortcutFile("https://golang.org"),
	}
	_, err := m.ImportFS(models.SlotA, "/links", fsys)
	require.NoError(t, err)
	all := m.Links(models.SlotA)

	assert.Equal(t, all, m.Filter(models.SlotA, ""))
	assert.Equal(t, []string{"https://GitHub.com/go", "https://github.com/rust"}, m.Filter(models.SlotA, "github"))
	assert.Equal(t, []string{"https://GitHub.com/go", "https://github.com/rust"}, m.Filter(models.SlotA, "GITHUB"))
	assert.Equal(t, []string{"https://GitHub.com/go", "https://golang.org"}, m.Filter(models.SlotA, "GO"))
	assert.Empty(t, m.Filter(models.SlotA, "nothing-matches"))
	assert.NotNil(t, m.Filter(models.SlotA, "nothing-matches"))
	assert.Empty(t, m.Filter(models.SlotB, "github"))
}

func TestFilter_IsOrderPreservingSubsequence(t *testing.T) {
	m, _ := newTestManager(t)
	cfg := config.Default()
	cfg.SetSlot(models.SlotA, []string{"http://c.com/x", "http://a.com/X", "http://b.com", "http://d.com/xx"}, "")
	m.Restore(cfg)

	all := m.Links(models.SlotA)
	got := m.Filter(models.SlotA, "x")

	j := 0
	for _, link := range all {
		if j < len(got) && got[j] == link {
			j++
		}
	}
	assert.Equal(t, len(got), j, "filter result should be a subsequence of the collection")
	assert.Len(t, got, 3)
}

func TestFilter_DoesNotMutate(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.ImportFS(models.SlotA, "/l", fstest.MapFS{"a.url": shortcutFile("http://a.com")})
	require.NoError(t, err)

	got := m.Filter(models.SlotA, "")
	got[0] = "mutated"
	assert.Equal(t, []string{"http://a.com"}, m.Links(models.SlotA))
}

func TestOpenOne(t *testing.T) {
	m, launcher := newTestManager(t)
	m.OpenOne("not even a url")
	assert.Equal(t, []string{"not even a url"}, launcher.opened)
}

func TestOpenOne_FailureIsSwallowed(t *testing.T) {
	m, launcher := newTestManager(t)
	launcher.err = errors.New("no browser")

	assert.NotPanics(t, func() { m.OpenOne("http://a.com") })
	assert.Len(t, launcher.opened, 1)
}

func TestOpenOne_NilLauncher(t *testing.T) {
	m := New(nil)
	assert.NotPanics(t, func() { m.OpenOne("http://a.com") })
}

func TestOpenAll(t *testing.T) {
	m, launcher := newTestManager(t)
	fsys := fstest.MapFS{
		"1.url": shortcutFile("http://c.com"),
		"2.url": shortcutFile("http://a.com"),
		"3.url": shortcutFile("http://b.com"),
	}
	_, err := m.ImportFS(models.SlotB, "/links", fsys)
	require.NoError(t, err)

	n := m.OpenAll(models.SlotB)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"http://a.com", "http://b.com", "http://c.com"}, launcher.opened)

	launcher.opened = nil
	assert.Equal(t, 0, m.OpenAll(models.SlotA))
	assert.Empty(t, launcher.opened)
}

func TestOpenMatching(t *testing.T) {
	m, launcher := newTestManager(t)
	fsys := fstest.MapFS{
		"1.url": shortcutFile("http://news.com"),
		"2.url": shortcutFile("http://docs.com"),
		"3.url": shortcutFile("http://NEWS.org"),
	}
	_, err := m.ImportFS(models.SlotA, "/links", fsys)
	require.NoError(t, err)

	n := m.OpenMatching(models.SlotA, "news")
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"http://NEWS.org", "http://news.com"}, launcher.opened)
}

func TestSaveAndLoadConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m := New(&fakeLauncher{}, WithConfigPath(path))

	_, err := m.ImportFS(models.SlotA, "/home/u/a", fstest.MapFS{
		"1.url": shortcutFile("http://b.com"),
		"2.url": shortcutFile("http://a.com"),
	})
	require.NoError(t, err)
	_, err = m.ImportFS(models.SlotB, "/home/u/b", fstest.MapFS{
		"1.url": shortcutFile("http://z.com"),
	})
	require.NoError(t, err)
	require.NoError(t, m.SaveConfig())

	fresh := New(&fakeLauncher{}, WithConfigPath(path))
	require.NoError(t, fresh.LoadConfig())

	for _, slot := range models.Slots {
		assert.Equal(t, m.Links(slot), fresh.Links(slot))
		assert.Equal(t, m.Folder(slot), fresh.Folder(slot))
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.LoadConfig())

	for _, slot := range models.Slots {
		assert.Empty(t, m.Links(slot))
		assert.Empty(t, m.Folder(slot))
	}
}

func TestLoadConfig_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"links1": [`), 0644))

	core, logs := observer.New(zapcore.WarnLevel)
	m := New(&fakeLauncher{}, WithConfigPath(path), WithLogger(zap.New(core)))

	require.NoError(t, m.LoadConfig())
	assert.Empty(t, m.Links(models.SlotA))
	assert.Equal(t, 1, logs.FilterMessage("ignoring corrupt config").Len())
}

func TestLoadConfig_UnreadableFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.Mkdir(path, 0755))

	m := New(&fakeLauncher{}, WithConfigPath(path))
	_, err := m.ImportFS(models.SlotA, "/a", fstest.MapFS{"1.url": shortcutFile("http://a.com")})
	require.NoError(t, err)

	err = m.LoadConfig()
	require.Error(t, err)
	assert.False(t, errors.Is(err, config.ErrCorrupt))
	assert.Equal(t, []string{"http://a.com"}, m.Links(models.SlotA))
}

func TestLoadConfig_NormalizesHandEditedLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"links1": ["http://b.com", "http://a.com", "http://b.com"], "folder2": "/x"}`), 0644))

	m := New(&fakeLauncher{}, WithConfigPath(path))
	require.NoError(t, m.LoadConfig())

	assert.Equal(t, []string{"http://a.com", "http://b.com"}, m.Links(models.SlotA))
	assert.Empty(t, m.Links(models.SlotB))
	assert.Equal(t, "/x", m.Folder(models.SlotB))
}

func TestSnapshot(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.ImportFS(models.SlotB, "/b", fstest.MapFS{"1.url": shortcutFile("http://b.com")})
	require.NoError(t, err)

	cfg := m.Snapshot()
	assert.Empty(t, cfg.Links1)
	assert.NotNil(t, cfg.Links1)
	assert.Equal(t, []string{"http://b.com"}, cfg.Links2)
	assert.Equal(t, "/b", cfg.Folder2)
	assert.False(t, cfg.FirstRun)
}
