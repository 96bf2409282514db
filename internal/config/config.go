package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"linkdeck/internal/models"

	"github.com/pkg/errors"
)

// Config holds the persisted link state of both slots
type Config struct {
	Links1   []string `json:"links1"`  // Slot 1 links
	Links2   []string `json:"links2"`  // Slot 2 links
	Folder1  string   `json:"folder1"` // Slot 1 source folder
	Folder2  string   `json:"folder2"` // Slot 2 source folder
	FirstRun bool     `json:"-"`       // No config file was found
}

// configFileName is the name of the config file
const configFileName = "config.json"

// ErrCorrupt marks a config file that exists but cannot be decoded
var ErrCorrupt = errors.New("config file is corrupt")

// Default returns the empty configuration
func Default() *Config {
	return &Config{
		Links1:   []string{},
		Links2:   []string{},
		FirstRun: true,
	}
}

// ConfigPath returns the default config path, relative to the working directory
func ConfigPath() string {
	return configFileName
}

// Load loads the configuration from path. A missing file yields the defaults.
// A file that is not valid JSON of the expected shape also yields the
// defaults, together with an error wrapping ErrCorrupt.
func Load(path string) (*Config, error) {
	const op = "load config"

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), errors.Wrap(err, op)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrapf(ErrCorrupt, "%s: %s: %v", op, path, err)
	}

	cfg.normalize()
	cfg.FirstRun = false
	return &cfg, nil
}

// Save writes the configuration to path, replacing whatever was there
func (c *Config) Save(path string) error {
	const op = "save config"

	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, op)
	}

	c.normalize()
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return errors.Wrap(err, op)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

// Slot returns the stored links and folder for a slot
func (c *Config) Slot(s models.Slot) ([]string, string) {
	if s == models.SlotB {
		return c.Links2, c.Folder2
	}
	return c.Links1, c.Folder1
}

// SetSlot stores the links and folder for a slot
func (c *Config) SetSlot(s models.Slot, links []string, folder string) {
	if links == nil {
		links = []string{}
	}
	if s == models.SlotB {
		c.Links2, c.Folder2 = links, folder
		return
	}
	c.Links1, c.Folder1 = links, folder
}

// normalize replaces missing lists with empty ones so they encode as []
func (c *Config) normalize() {
	if c.Links1 == nil {
		c.Links1 = []string{}
	}
	if c.Links2 == nil {
		c.Links2 = []string{}
	}
}
