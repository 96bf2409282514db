package components

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"linkdeck/internal/shortcut"
	"linkdeck/internal/ui"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
)

// maxPreviewSize caps how much of a shortcut file is shown
const maxPreviewSize = 64 * 1024

// SourcePreview shows the shortcut files a link was imported from
type SourcePreview struct {
	viewport    viewport.Model
	highlighter *ui.Highlighter

	URL        string
	Sources    []string
	TotalLines int

	Width  int
	Height int

	lineNumStyle lipgloss.Style
	headerStyle  lipgloss.Style
	infoStyle    lipgloss.Style
	borderStyle  lipgloss.Style
}

// NewSourcePreview creates a new preview
func NewSourcePreview() *SourcePreview {
	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &SourcePreview{
		viewport:    vp,
		highlighter: ui.NewHighlighter(),
		Width:       80,
		Height:      20,
		lineNumStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")).
			Width(4).
			Align(lipgloss.Right),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89b4fa")),
		infoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")),
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#89b4fa")).
			Padding(0, 1),
	}
}

// SetSize updates the viewport dimensions
func (p *SourcePreview) SetSize(width, height int) {
	p.Width = width
	p.Height = height

	// Header (3 lines) and border (2 lines)
	p.viewport.Height = max(5, height-5)
	p.viewport.Width = max(20, width-4)
}

// Load renders every source file of url. Files that cannot be shown get an
// inline note instead of failing the whole preview.
func (p *SourcePreview) Load(url string, sources []string) {
	var b strings.Builder
	lines := 0

	if len(sources) == 0 {
		b.WriteString("\n  No source files recorded for this link.\n")
		b.WriteString("  Sources are known for links imported in this session;\n")
		b.WriteString("  press r to reimport the list.\n")
		lines = 4
	}

	for i, path := range sources {
		if i > 0 {
			b.WriteString("\n")
			lines++
		}
		b.WriteString(p.headerStyle.Render(fmt.Sprintf("▌ %s", filepath.Base(path))))
		b.WriteString(p.infoStyle.Render("  " + ui.FileType(path)))
		b.WriteString("\n")
		b.WriteString(p.infoStyle.Render(path))
		b.WriteString("\n")
		lines += 2

		content, err := readSource(path)
		if err != nil {
			b.WriteString(ui.RenderNotification(ui.NotifyWarning, err.Error()))
			b.WriteString("\n")
			lines++
			continue
		}

		raw := strings.Split(strings.TrimRight(content, "\r\n"), "\n")
		for n := range raw {
			raw[n] = strings.TrimRight(raw[n], "\r")
		}
		for n, line := range p.highlighter.HighlightLines(raw, path) {
			num := p.lineNumStyle.Render(fmt.Sprintf("%d", n+1))
			b.WriteString(num + " │ " + line)
			b.WriteString("\n")
			lines++
		}
	}

	p.URL = url
	p.Sources = sources
	p.TotalLines = lines
	p.viewport.SetContent(strings.TrimSuffix(b.String(), "\n"))
	p.viewport.GotoTop()
}

func readSource(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxPreviewSize {
		return "", errors.Errorf("file too large to preview (%s)", formatBytes(info.Size()))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return shortcut.Decode(data)
}

// Update handles messages for viewport scrolling
func (p *SourcePreview) Update(msg tea.Msg) (*SourcePreview, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the preview
func (p *SourcePreview) View() string {
	var b strings.Builder

	b.WriteString(p.headerStyle.Render(ui.Truncate(p.URL, max(10, p.Width-4))) + "\n")
	count := fmt.Sprintf("%d source file", len(p.Sources))
	if len(p.Sources) != 1 {
		count += "s"
	}
	b.WriteString(p.infoStyle.Render(count) + "\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color("#313244")).
		Render(strings.Repeat("─", max(0, p.Width-4))) + "\n")

	b.WriteString(p.viewport.View())

	if p.TotalLines > p.viewport.Height {
		scrollInfo := fmt.Sprintf("─── %.0f%% ───", p.viewport.ScrollPercent()*100)
		b.WriteString("\n" + p.infoStyle.Render(scrollInfo))
	}

	return p.borderStyle.Width(p.Width).Height(p.Height).Render(b.String())
}

// ScrollUp scrolls up one line
func (p *SourcePreview) ScrollUp() {
	p.viewport.LineUp(1)
}

// ScrollDown scrolls down one line
func (p *SourcePreview) ScrollDown() {
	p.viewport.LineDown(1)
}

// PageUp scrolls up by a page
func (p *SourcePreview) PageUp() {
	p.viewport.ViewUp()
}

// PageDown scrolls down by a page
func (p *SourcePreview) PageDown() {
	p.viewport.ViewDown()
}

// GoToTop goes to the beginning
func (p *SourcePreview) GoToTop() {
	p.viewport.GotoTop()
}

// GoToBottom goes to the end
func (p *SourcePreview) GoToBottom() {
	p.viewport.GotoBottom()
}

// AtTop reports whether the preview is scrolled to the beginning
func (p *SourcePreview) AtTop() bool {
	return p.viewport.AtTop()
}

// formatBytes formats bytes to human readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
