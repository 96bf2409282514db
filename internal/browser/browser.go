// Package browser hands URLs to the operating system's default browser.
package browser

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Launcher opens a URL. Open returns once the handler process has started;
// nothing about the browser itself is observed.
type Launcher interface {
	// Name returns the display name of the launcher
	Name() string

	// Open asks the launcher to show url
	Open(url string) error
}

// Config holds launcher configuration
type Config struct {
	// Command overrides detection, e.g. "firefox --new-tab". The URL is
	// appended as the last argument.
	Command string `json:"browser"`
}

// ErrNoLauncher is returned by Detect when no handler is installed
var ErrNoLauncher = errors.New("no browser launcher found")

// Detect returns the configured command or the first installed handler for
// this platform.
func Detect(cfg *Config) (Launcher, error) {
	if cfg != nil && strings.TrimSpace(cfg.Command) != "" {
		fields := strings.Fields(cfg.Command)
		if !isCommandAvailable(fields[0]) {
			return nil, errors.Errorf("browser command %s is not installed", fields[0])
		}
		return NewCommand(fields[0], fields[1:]...), nil
	}

	for _, candidate := range platformCommands(runtime.GOOS) {
		if isCommandAvailable(candidate[0]) {
			return NewCommand(candidate[0], candidate[1:]...), nil
		}
	}

	return nil, ErrNoLauncher
}

// platformCommands lists URL handlers in priority order
func platformCommands(goos string) [][]string {
	switch goos {
	case "darwin":
		return [][]string{{"open"}}
	case "windows":
		return [][]string{{"rundll32", "url.dll,FileProtocolHandler"}}
	default:
		return [][]string{
			{"xdg-open"},
			{"wslview"},
			{"sensible-browser"},
			{"x-www-browser"},
		}
	}
}

// isCommandAvailable checks if a command exists in PATH
func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Command launches an external program with the URL as last argument
type Command struct {
	command string
	args    []string
}

// NewCommand creates a launcher running command args... url
func NewCommand(command string, args ...string) *Command {
	return &Command{command: command, args: args}
}

// Name returns the command name
func (c *Command) Name() string {
	return c.command
}

// Open starts the command and reaps it in the background
func (c *Command) Open(url string) error {
	args := append(append([]string{}, c.args...), url)
	cmd := exec.Command(c.command, args...)
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "open %s with %s", url, c.command)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Nop discards every URL. Used when no launcher could be detected.
type Nop struct{}

// Name returns "none"
func (Nop) Name() string { return "none" }

// Open returns ErrNoLauncher
func (Nop) Open(string) error { return ErrNoLauncher }
