package links

import (
	"linkdeck/internal/models"

	"go.uber.org/zap"
)

// OpenOne hands url to the launcher as is. Failures are only logged.
func (m *Manager) OpenOne(url string) {
	if m.launcher == nil {
		return
	}
	if err := m.launcher.Open(url); err != nil {
		m.logger.Debug("launch failed", zap.String("url", url), zap.Error(err))
	}
}

// OpenAll opens every link of the slot in sorted order and returns how many
// were handed to the launcher.
func (m *Manager) OpenAll(slot models.Slot) int {
	return m.openEach(m.Links(slot))
}

// OpenMatching opens the links Filter(slot, text) returns
func (m *Manager) OpenMatching(slot models.Slot, text string) int {
	return m.openEach(m.Filter(slot, text))
}

func (m *Manager) openEach(urls []string) int {
	for _, url := range urls {
		m.OpenOne(url)
	}
	return len(urls)
}
