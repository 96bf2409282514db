package links

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"linkdeck/internal/models"
	"linkdeck/internal/shortcut"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrFolderMissing is returned by Reimport when the stored folder is gone
var ErrFolderMissing = errors.New("folder does not exist")

// ReadError reports a shortcut file that could not be read or decoded
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read file %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ImportResult describes a completed import
type ImportResult struct {
	Slot    models.Slot
	Folder  string
	Files   int      // Shortcut files considered
	Parsed  int      // Files that produced a URL
	Links   []string // New slot contents
	Added   []string // Links not present before the import
	Removed []string // Links dropped by the import
	Errors  []*ReadError
}

// HasErrors reports whether any file failed
func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Import scans folder (non-recursively) and replaces the slot's links with
// what its shortcut files contain. An empty folder means the user cancelled
// and nothing happens.
func (m *Manager) Import(slot models.Slot, folder string) (*ImportResult, error) {
	if folder == "" {
		return nil, nil
	}
	if abs, err := filepath.Abs(folder); err == nil {
		folder = abs
	}
	return m.ImportFS(slot, folder, os.DirFS(folder))
}

// ImportFS is Import over an explicit filesystem rooted at folder
func (m *Manager) ImportFS(slot models.Slot, folder string, fsys fs.FS) (*ImportResult, error) {
	const op = "import links"

	if folder == "" {
		return nil, nil
	}
	c := m.collection(slot)
	if c == nil {
		return nil, errors.Wrap(ErrUnknownSlot, op)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrapf(err, "%s: %s", op, folder)
	}

	result := &ImportResult{Slot: slot, Folder: folder}
	var found []string
	sources := make(map[string][]string)

	for _, entry := range entries {
		if !shortcut.IsShortcut(entry.Name()) || !isRegular(fsys, entry) {
			continue
		}
		result.Files++
		path := filepath.Join(folder, entry.Name())

		url, ok, err := readShortcut(fsys, entry.Name())
		if err != nil {
			m.logger.Warn("skipping unreadable shortcut", zap.String("path", path), zap.Error(err))
			result.Errors = append(result.Errors, &ReadError{Path: path, Err: err})
			continue
		}
		if !ok {
			m.logger.Debug("no URL line", zap.String("path", path))
			continue
		}

		result.Parsed++
		found = append(found, url)
		sources[url] = append(sources[url], path)
	}

	previous := c.Links
	c.Replace(found, folder, sources)
	result.Links = c.Copy()
	result.Added, result.Removed = Changes(previous, c.Links)

	m.logger.Info("imported links",
		zap.Stringer("slot", slot),
		zap.String("folder", folder),
		zap.Int("files", result.Files),
		zap.Int("links", len(result.Links)),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// Reimport imports the slot's stored folder again
func (m *Manager) Reimport(slot models.Slot) (*ImportResult, error) {
	c := m.collection(slot)
	if c == nil {
		return nil, errors.Wrap(ErrUnknownSlot, "reimport")
	}
	if c.Folder == "" {
		return nil, nil
	}

	info, err := os.Stat(c.Folder)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrFolderMissing, "reimport slot %s: %s", slot, c.Folder)
	}
	return m.Import(slot, c.Folder)
}

// ReimportAll re-imports every slot that has a folder. Slots whose folder
// is gone keep their loaded links; their errors are combined.
func (m *Manager) ReimportAll() ([]*ImportResult, error) {
	var results []*ImportResult
	var errs error
	for _, slot := range models.Slots {
		res, err := m.Reimport(slot)
		if err != nil {
			m.logger.Warn("reimport failed", zap.Stringer("slot", slot), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		if res != nil {
			results = append(results, res)
		}
	}
	return results, errs
}

// readShortcut returns the URL in a shortcut file. ok is false when the
// file has no URL line; err is set when it cannot be read or decoded.
func readShortcut(fsys fs.FS, name string) (url string, ok bool, err error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", false, err
	}
	text, err := shortcut.Decode(data)
	if err != nil {
		return "", false, err
	}
	url, ok = shortcut.Parse(text)
	return url, ok, nil
}

// isRegular reports whether entry is a regular file, following symlinks
func isRegular(fsys fs.FS, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err := fs.Stat(fsys, entry.Name())
		return err == nil && info.Mode().IsRegular()
	}
	return entry.Type().IsRegular()
}
