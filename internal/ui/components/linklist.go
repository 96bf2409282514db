package components

import (
	"fmt"
	"strings"

	"linkdeck/internal/ui"
)

// LinkList shows the links of one slot, already filtered by Query
type LinkList struct {
	Links   []string // Entries on display, in order
	Total   int      // Size of the unfiltered collection
	Cursor  int
	Width   int
	Height  int
	Focused bool
	Title   string
	Folder  string // Base name of the source folder
	Query   string
}

// NewLinkList creates an empty link list
func NewLinkList(title string) *LinkList {
	return &LinkList{
		Links:  []string{},
		Width:  40,
		Height: 15,
		Title:  title,
	}
}

// SetLinks replaces the displayed links and keeps the cursor in range
func (l *LinkList) SetLinks(links []string, total int) {
	l.Links = links
	l.Total = total
	if l.Cursor >= len(links) {
		l.Cursor = max(0, len(links)-1)
	}
}

// MoveUp moves cursor up
func (l *LinkList) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

// MoveDown moves cursor down
func (l *LinkList) MoveDown() {
	if l.Cursor < len(l.Links)-1 {
		l.Cursor++
	}
}

// PageUp moves cursor up by a page
func (l *LinkList) PageUp() {
	l.Cursor -= l.pageSize()
	if l.Cursor < 0 {
		l.Cursor = 0
	}
}

// PageDown moves cursor down by a page
func (l *LinkList) PageDown() {
	l.Cursor += l.pageSize()
	if l.Cursor >= len(l.Links) {
		l.Cursor = max(0, len(l.Links)-1)
	}
}

// GoToFirst moves cursor to the first item
func (l *LinkList) GoToFirst() {
	l.Cursor = 0
}

// GoToLast moves cursor to the last item
func (l *LinkList) GoToLast() {
	if len(l.Links) > 0 {
		l.Cursor = len(l.Links) - 1
	}
}

// Current returns the link under the cursor
func (l *LinkList) Current() (string, bool) {
	if l.Cursor >= 0 && l.Cursor < len(l.Links) {
		return l.Links[l.Cursor], true
	}
	return "", false
}

// FolderLabel is the "Folder: <name>" line under the title
func (l *LinkList) FolderLabel() string {
	if l.Folder == "" {
		return "Folder: (none)"
	}
	return "Folder: " + l.Folder
}

func (l *LinkList) headerLines() int {
	n := 3 // title, folder, divider
	if l.Query != "" {
		n++
	}
	return n
}

func (l *LinkList) visibleHeight() int {
	return max(1, l.Height-l.headerLines()-2)
}

func (l *LinkList) pageSize() int {
	if l.Height <= l.headerLines() {
		return 10
	}
	return l.visibleHeight()
}

// View renders the link list
func (l *LinkList) View() string {
	var b strings.Builder

	title := l.Title
	if l.Query != "" {
		title = fmt.Sprintf("%s (%d/%d)", l.Title, len(l.Links), l.Total)
	} else if l.Total > 0 {
		title = fmt.Sprintf("%s (%d)", l.Title, l.Total)
	}
	b.WriteString(ui.PanelTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(ui.FolderStyle.Render(ui.Truncate(l.FolderLabel(), l.Width-4)))
	b.WriteString("\n")
	if l.Query != "" {
		b.WriteString(ui.SearchStyle.Render("/ " + l.Query))
		b.WriteString("\n")
	}
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(0, l.Width-2))))
	b.WriteString("\n")

	if len(l.Links) == 0 {
		msg := "No links. Press i to import."
		if l.Query != "" {
			msg = "No matching links"
		}
		b.WriteString(ui.MutedStyle.Render("  " + msg))
		return l.wrapInPanel(b.String())
	}

	visible := l.visibleHeight()
	startIdx := 0
	if l.Cursor >= visible {
		startIdx = l.Cursor - visible + 1
	}
	endIdx := min(startIdx+visible, len(l.Links))

	if startIdx > 0 {
		b.WriteString(ui.MutedStyle.Render("  ↑ more"))
		b.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		b.WriteString(l.renderItem(l.Links[i], i == l.Cursor))
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}

	if endIdx < len(l.Links) {
		b.WriteString("\n")
		b.WriteString(ui.MutedStyle.Render(fmt.Sprintf("  ↓ more  %d/%d", l.Cursor+1, len(l.Links))))
	}

	return l.wrapInPanel(b.String())
}

func (l *LinkList) renderItem(link string, isCursor bool) string {
	text := ui.Truncate(link, max(10, l.Width-6))
	if isCursor && l.Focused {
		return ui.SelectedItemStyle.Width(l.Width - 4).Render(text)
	}
	return ui.ItemStyle.Render(ui.HighlightMatches(text, l.Query))
}

func (l *LinkList) wrapInPanel(content string) string {
	style := ui.PanelStyle
	if l.Focused {
		style = ui.ActivePanelStyle
	}
	return style.Width(l.Width).Height(l.Height).Render(content)
}
