package models

import (
	"path/filepath"
	"sort"
)

// Collection is the state of one slot
type Collection struct {
	Links  []string // Distinct URLs, sorted ascending
	Folder string   // Last imported folder, empty if never imported

	// Sources maps a URL to the shortcut files it was read from.
	// Only filled by an import in this process; never persisted.
	Sources map[string][]string
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{
		Links:   []string{},
		Sources: make(map[string][]string),
	}
}

// Replace discards the current contents and stores links (deduplicated and
// sorted) imported from folder.
func (c *Collection) Replace(links []string, folder string, sources map[string][]string) {
	c.Links = Normalize(links)
	c.Folder = folder
	if sources == nil {
		sources = make(map[string][]string)
	}
	c.Sources = sources
}

// FolderName returns the base name of the source folder for display
func (c *Collection) FolderName() string {
	if c.Folder == "" {
		return ""
	}
	return filepath.Base(c.Folder)
}

// Len returns the number of links
func (c *Collection) Len() int {
	return len(c.Links)
}

// Copy returns a copy of the links safe for callers to keep
func (c *Collection) Copy() []string {
	out := make([]string, len(c.Links))
	copy(out, c.Links)
	return out
}

// Normalize drops empty strings and duplicates and sorts the rest.
// The result is never nil.
func Normalize(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
