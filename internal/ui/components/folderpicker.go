package components

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"linkdeck/internal/ui"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// ErrNotDirectory is returned by Resolve when the input is not a directory
var ErrNotDirectory = errors.New("not a directory")

const maxShownCandidates = 6

// FolderPicker asks for a directory path with tab completion
type FolderPicker struct {
	input   textinput.Model
	Title   string
	Width   int
	Err     string
	visible bool

	// Tab cycling state
	candidates []string
	candIdx    int
	completed  string
}

// NewFolderPicker creates a hidden folder picker
func NewFolderPicker() *FolderPicker {
	ti := textinput.New()
	ti.Placeholder = "~/Bookmarks"
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = 50

	return &FolderPicker{
		input: ti,
		Title: "Import folder",
		Width: 60,
	}
}

// Show opens the picker with start as the initial value
func (p *FolderPicker) Show(title, start string) tea.Cmd {
	p.Title = title
	p.Err = ""
	p.resetCompletion()
	p.input.SetValue(start)
	p.input.CursorEnd()
	p.visible = true
	return p.input.Focus()
}

// Hide closes the picker
func (p *FolderPicker) Hide() {
	p.visible = false
	p.input.Blur()
	p.resetCompletion()
}

// IsVisible returns whether the picker is open
func (p *FolderPicker) IsVisible() bool {
	return p.visible
}

// Value returns the raw input
func (p *FolderPicker) Value() string {
	return p.input.Value()
}

// SetValue replaces the input
func (p *FolderPicker) SetValue(v string) {
	p.input.SetValue(v)
	p.input.CursorEnd()
}

// Resolve expands and validates the input. It returns the absolute
// directory path.
func (p *FolderPicker) Resolve() (string, error) {
	raw := strings.TrimSpace(p.input.Value())
	if raw == "" {
		return "", errors.New("no folder entered")
	}
	path, err := filepath.Abs(ExpandHome(raw))
	if err != nil {
		return "", errors.Wrap(err, "resolve folder")
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrap(err, "resolve folder")
	}
	if !info.IsDir() {
		return "", errors.Wrap(ErrNotDirectory, path)
	}
	return path, nil
}

// Complete extends the input to the next matching subdirectory. Repeated
// calls cycle through the matches. It returns false when nothing matches.
func (p *FolderPicker) Complete() bool {
	value := p.input.Value()

	if value == p.completed && len(p.candidates) > 1 {
		p.candIdx = (p.candIdx + 1) % len(p.candidates)
		p.applyCandidate()
		return true
	}

	if value == "~" {
		p.SetValue("~" + string(filepath.Separator))
		return true
	}

	typedDir, prefix := splitInput(value)
	matches := subdirs(typedDir, prefix)
	p.candidates = matches
	p.candIdx = 0
	p.completed = ""

	switch len(matches) {
	case 0:
		return false
	case 1:
		p.applyCandidate()
		p.candidates = nil
		return true
	}

	if common := commonPrefix(matches); len(common) > len(prefix) {
		p.SetValue(typedDir + common)
		p.candidates = nil
		return true
	}
	p.applyCandidate()
	return true
}

func (p *FolderPicker) applyCandidate() {
	typedDir, _ := splitInput(p.input.Value())
	if p.completed != "" {
		typedDir, _ = splitInput(strings.TrimSuffix(p.completed, string(filepath.Separator)))
	}
	value := typedDir + p.candidates[p.candIdx] + string(filepath.Separator)
	p.SetValue(value)
	p.completed = value
}

func (p *FolderPicker) resetCompletion() {
	p.candidates = nil
	p.candIdx = 0
	p.completed = ""
}

// Update forwards messages to the text input
func (p *FolderPicker) Update(msg tea.Msg) (*FolderPicker, tea.Cmd) {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		if p.input.Value() != p.completed {
			p.resetCompletion()
		}
		p.Err = ""
	}
	return p, cmd
}

// View renders the dialog
func (p *FolderPicker) View() string {
	if !p.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(ui.PanelTitleStyle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("-", max(0, p.Width-4))))
	b.WriteString("\n\n")
	b.WriteString(ui.MutedStyle.Render("Folder containing .url files:"))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n")

	if len(p.candidates) > 1 {
		b.WriteString("\n")
		for i, c := range p.candidates {
			if i == maxShownCandidates {
				b.WriteString(ui.MutedStyle.Render("  ..."))
				b.WriteString("\n")
				break
			}
			line := "  " + c + string(filepath.Separator)
			if i == p.candIdx {
				b.WriteString(ui.HelpKeyStyle.Render(line))
			} else {
				b.WriteString(ui.MutedStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if p.Err != "" {
		b.WriteString("\n")
		b.WriteString(ui.RenderNotification(ui.NotifyError, p.Err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(strings.Join([]string{
		ui.RenderHelpItem("Tab", "complete"),
		ui.RenderHelpItem("Enter", "import"),
		ui.RenderHelpItem("Esc", "cancel"),
	}, "  "))

	return ui.DialogStyle.Width(p.Width).Render(b.String())
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// splitInput splits the input into the typed directory part (kept verbatim,
// including its trailing separator) and the name prefix being completed.
func splitInput(value string) (typedDir, prefix string) {
	idx := strings.LastIndexAny(value, "/"+string(filepath.Separator))
	if idx < 0 {
		return "", value
	}
	return value[:idx+1], value[idx+1:]
}

// subdirs lists the directories in typedDir starting with prefix.
// Hidden directories are only offered when the prefix starts with a dot.
func subdirs(typedDir, prefix string) []string {
	dir := ExpandHome(typedDir)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	lowerPrefix := strings.ToLower(prefix)
	var out []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(name), lowerPrefix) {
			continue
		}
		if !isDir(filepath.Join(dir, name), e) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func isDir(path string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(path)
		return err == nil && info.IsDir()
	}
	return false
}

func commonPrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}
	prefix := names[0]
	for _, n := range names[1:] {
		for !strings.HasPrefix(n, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
