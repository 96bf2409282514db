package links

import (
	"strings"

	"linkdeck/internal/models"
)

// Links returns a copy of the slot's links in sorted order
func (m *Manager) Links(slot models.Slot) []string {
	c := m.collection(slot)
	if c == nil {
		return nil
	}
	return c.Copy()
}

// Len returns the number of links in the slot
func (m *Manager) Len(slot models.Slot) int {
	c := m.collection(slot)
	if c == nil {
		return 0
	}
	return c.Len()
}

// Folder returns the slot's source folder
func (m *Manager) Folder(slot models.Slot) string {
	c := m.collection(slot)
	if c == nil {
		return ""
	}
	return c.Folder
}

// FolderName returns the base name of the slot's source folder
func (m *Manager) FolderName(slot models.Slot) string {
	c := m.collection(slot)
	if c == nil {
		return ""
	}
	return c.FolderName()
}

// Sources returns the shortcut files that produced url in the last import
func (m *Manager) Sources(slot models.Slot, url string) []string {
	c := m.collection(slot)
	if c == nil {
		return nil
	}
	paths := c.Sources[url]
	out := make([]string, len(paths))
	copy(out, paths)
	return out
}

// Filter returns the slot's links containing text, ignoring case, in the
// collection's order. Empty text returns every link.
func (m *Manager) Filter(slot models.Slot, text string) []string {
	c := m.collection(slot)
	if c == nil {
		return nil
	}
	if text == "" {
		return c.Copy()
	}

	query := strings.ToLower(text)
	matches := []string{}
	for _, link := range c.Links {
		if strings.Contains(strings.ToLower(link), query) {
			matches = append(matches, link)
		}
	}
	return matches
}
