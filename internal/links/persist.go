package links

import (
	"linkdeck/internal/config"
	"linkdeck/internal/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LoadConfig restores both slots from the config file. A missing file
// leaves the slots empty. A corrupt file is logged and treated as missing.
func (m *Manager) LoadConfig() error {
	cfg, err := config.Load(m.configPath)
	if err != nil {
		if !errors.Is(err, config.ErrCorrupt) {
			return err
		}
		m.logger.Warn("ignoring corrupt config", zap.String("path", m.configPath), zap.Error(err))
	} else if cfg.FirstRun {
		m.logger.Info("no config file, starting empty", zap.String("path", m.configPath))
	}
	m.Restore(cfg)
	return nil
}

// SaveConfig writes both slots to the config file, replacing it
func (m *Manager) SaveConfig() error {
	return m.Snapshot().Save(m.configPath)
}

// Snapshot returns the persisted form of both slots
func (m *Manager) Snapshot() *config.Config {
	cfg := config.Default()
	cfg.FirstRun = false
	for _, slot := range models.Slots {
		cfg.SetSlot(slot, m.Links(slot), m.Folder(slot))
	}
	return cfg
}

// Restore replaces both slots with the contents of cfg
func (m *Manager) Restore(cfg *config.Config) {
	for _, slot := range models.Slots {
		links, folder := cfg.Slot(slot)
		m.slots[slot].Replace(links, folder, nil)
	}
}
