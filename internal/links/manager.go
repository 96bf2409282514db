// Package links manages the two link collections: importing them from
// folders of shortcut files, filtering, opening and persisting them.
//
// A Manager is not safe for concurrent use. Callers serialize access, which
// the bubbletea event loop and the CLI both do naturally.
package links

import (
	"linkdeck/internal/config"
	"linkdeck/internal/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Launcher opens a URL in a browser
type Launcher interface {
	Open(url string) error
}

// ErrUnknownSlot is returned for a slot outside SlotA/SlotB
var ErrUnknownSlot = errors.New("unknown slot")

// Manager owns both slots for the lifetime of the process
type Manager struct {
	slots      [models.SlotCount]*models.Collection
	launcher   Launcher
	logger     *zap.Logger
	configPath string
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used for warnings and debug output
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithConfigPath sets where LoadConfig and SaveConfig read and write
func WithConfigPath(path string) Option {
	return func(m *Manager) {
		m.configPath = path
	}
}

// New creates a manager with two empty slots
func New(launcher Launcher, opts ...Option) *Manager {
	m := &Manager{
		launcher:   launcher,
		logger:     zap.NewNop(),
		configPath: config.ConfigPath(),
	}
	for i := range m.slots {
		m.slots[i] = models.NewCollection()
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ConfigPath returns the path used by LoadConfig and SaveConfig
func (m *Manager) ConfigPath() string {
	return m.configPath
}

func (m *Manager) collection(slot models.Slot) *models.Collection {
	if !slot.Valid() {
		return nil
	}
	return m.slots[slot]
}
