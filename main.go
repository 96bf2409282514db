package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"linkdeck/internal/links"
	"linkdeck/internal/models"
	"linkdeck/internal/ui"
	"linkdeck/internal/ui/components"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Version info (set by ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
)

// Screen represents different screens in the app
type Screen int

const (
	ScreenMain    Screen = iota
	ScreenHelp           // Keyboard shortcuts
	ScreenPicker         // Folder picker for an import
	ScreenPreview        // Source files of a link
)

// Layout floors, so tiny terminals clip instead of producing negative sizes
const (
	minPanelWidth  = 12
	minPanelHeight = 4
	minDialogWidth = 24
)

// Model is the main application model
type Model struct {
	manager *links.Manager
	logger  *zap.Logger

	// UI Components
	lists    [models.SlotCount]*components.LinkList
	searches [models.SlotCount]textinput.Model
	picker   *components.FolderPicker
	preview  *components.SourcePreview
	messages *components.MessageBox
	help     help.Model
	helpVP   viewport.Model
	keys     ui.KeyMap

	// State
	screen     Screen
	focused    models.Slot
	pickerSlot models.Slot
	searchMode bool
	status     string
	statusKind ui.NotifyKind
	width      int
	height     int
}

// New creates the model around an already loaded manager
func New(manager *links.Manager, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Model{
		manager:  manager,
		logger:   logger,
		picker:   components.NewFolderPicker(),
		preview:  components.NewSourcePreview(),
		messages: components.NewMessageBox(),
		help:     help.New(),
		helpVP:   viewport.New(80, 20),
		keys:     ui.DefaultKeyMap(),
		screen:   ScreenMain,
		focused:  models.SlotA,
		status:   "Ready",
		width:    80,
		height:   24,
	}

	for _, slot := range models.Slots {
		m.lists[slot] = components.NewLinkList(slot.Title())

		ti := textinput.New()
		ti.Placeholder = "filter links"
		ti.Prompt = "/ "
		ti.CharLimit = 256
		ti.Width = 30
		m.searches[slot] = ti

		m.refreshList(slot)
	}
	m.lists[m.focused].Focused = true
	m.updatePanelSizes()

	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// ReportImports shows the outcome of imports done before the TUI started
func (m *Model) ReportImports(results []*links.ImportResult, err error) {
	for _, res := range results {
		m.applyImport(res.Slot, res, nil)
	}
	if err != nil {
		m.setStatus(ui.NotifyWarning, fmt.Sprintf("Reimport skipped: %v", err))
	} else if len(results) > 0 {
		m.setStatus(ui.NotifyInfo, fmt.Sprintf("Reimported %d folder(s)", len(results)))
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updatePanelSizes()
		if m.screen == ScreenPreview {
			m.preview.SetSize(m.width-4, m.height-4)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if m.screen == ScreenPreview {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Cursor blink and friends
	var cmd tea.Cmd
	switch {
	case m.screen == ScreenPicker:
		m.picker, cmd = m.picker.Update(msg)
	case m.searchMode:
		m.searches[m.focused], cmd = m.searches[m.focused].Update(msg)
	}
	return m, cmd
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Import errors sit on top of every screen
	if m.messages.IsVisible() {
		return m.handleMessageKeys(msg)
	}

	switch m.screen {
	case ScreenPicker:
		return m.handlePickerKeys(msg)
	case ScreenPreview:
		return m.handlePreviewKeys(msg)
	case ScreenHelp:
		if key.Matches(msg, m.keys.Escape, m.keys.Help, m.keys.Quit) {
			m.screen = ScreenMain
			return m, nil
		}
		var cmd tea.Cmd
		m.helpVP, cmd = m.helpVP.Update(msg)
		return m, cmd
	}

	return m.handleMainKeys(msg)
}

func (m *Model) handleMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchMode {
		return m.handleSearchKeys(msg)
	}

	list := m.lists[m.focused]

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if m.searches[m.focused].Value() != "" {
			m.clearSearch(m.focused)
			m.setStatus(ui.NotifyInfo, "Search cleared")
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.helpVP.SetContent(m.renderHelp())
		m.helpVP.GotoTop()
		m.screen = ScreenHelp
		return m, nil

	case key.Matches(msg, m.keys.Tab, m.keys.ShiftTab):
		m.focus(m.focused.Other())
		return m, nil

	case key.Matches(msg, m.keys.Slot1):
		m.focus(models.SlotA)
		return m, nil

	case key.Matches(msg, m.keys.Slot2):
		m.focus(models.SlotB)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		list.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		list.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		list.PageUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		list.PageDown()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		list.GoToFirst()
		return m, nil

	case key.Matches(msg, m.keys.End):
		list.GoToLast()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m.handleOpen()

	case key.Matches(msg, m.keys.OpenAll):
		return m.handleOpenAll()

	case key.Matches(msg, m.keys.Import):
		return m.handleImport()

	case key.Matches(msg, m.keys.Reimport):
		return m.handleReimport()

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searches[m.focused].CursorEnd()
		return m, m.searches[m.focused].Focus()

	case key.Matches(msg, m.keys.Preview):
		return m.handlePreview()
	}

	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchMode = false
		m.clearSearch(m.focused)
		m.setStatus(ui.NotifyInfo, "Search cancelled")
		return m, nil

	case tea.KeyEnter:
		m.searchMode = false
		m.searches[m.focused].Blur()
		list := m.lists[m.focused]
		if list.Query == "" {
			m.setStatus(ui.NotifyInfo, fmt.Sprintf("Showing all %d links", list.Total))
		} else {
			m.setStatus(ui.NotifyInfo, fmt.Sprintf("Showing %d matching links", len(list.Links)))
		}
		return m, nil

	case tea.KeyUp:
		m.lists[m.focused].MoveUp()
		return m, nil

	case tea.KeyDown:
		m.lists[m.focused].MoveDown()
		return m, nil

	default:
		var cmd tea.Cmd
		m.searches[m.focused], cmd = m.searches[m.focused].Update(msg)
		m.refreshList(m.focused)
		return m, cmd
	}
}

func (m *Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.picker.Hide()
		m.screen = ScreenMain
		// A cancelled picker yields no folder, which leaves the slot alone
		m.importFolder(m.pickerSlot, "")
		m.setStatus(ui.NotifyWarning, "Import cancelled")
		return m, nil

	case tea.KeyTab:
		if !m.picker.Complete() {
			m.picker.Err = "No matching folder"
		}
		return m, nil

	case tea.KeyEnter:
		folder, err := m.picker.Resolve()
		if err != nil {
			m.picker.Err = err.Error()
			return m, nil
		}
		m.picker.Hide()
		m.screen = ScreenMain
		m.importFolder(m.pickerSlot, folder)
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape, m.keys.Quit, m.keys.Preview):
		m.screen = ScreenMain
		m.setStatus(ui.NotifyInfo, "Ready")
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.preview.ScrollUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.preview.ScrollDown()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.preview.PageUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.preview.PageDown()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.preview.GoToTop()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.preview.GoToBottom()
		return m, nil

	default:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleMessageKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
		m.messages.Dismiss()
	}
	return m, nil
}

func (m *Model) handleOpen() (tea.Model, tea.Cmd) {
	link, ok := m.lists[m.focused].Current()
	if !ok {
		m.setStatus(ui.NotifyWarning, "No link selected")
		return m, nil
	}
	m.manager.OpenOne(link)
	m.setStatus(ui.NotifyInfo, "Opening "+link)
	return m, nil
}

func (m *Model) handleOpenAll() (tea.Model, tea.Cmd) {
	n := m.manager.OpenMatching(m.focused, m.searches[m.focused].Value())
	if n == 0 {
		m.setStatus(ui.NotifyWarning, "Nothing to open")
		return m, nil
	}
	m.setStatus(ui.NotifySuccess, fmt.Sprintf("Opened %d links", n))
	return m, nil
}

func (m *Model) handleImport() (tea.Model, tea.Cmd) {
	m.pickerSlot = m.focused

	start := m.manager.Folder(m.focused)
	if start == "" {
		if wd, err := os.Getwd(); err == nil {
			start = wd
		}
	}
	if start != "" && !strings.HasSuffix(start, string(filepath.Separator)) {
		start += string(filepath.Separator)
	}

	m.picker.Width = m.dialogWidth()
	m.screen = ScreenPicker
	return m, m.picker.Show("Import into "+m.focused.Title(), start)
}

func (m *Model) handleReimport() (tea.Model, tea.Cmd) {
	if m.manager.Folder(m.focused) == "" {
		m.setStatus(ui.NotifyWarning, "No folder to reimport, press i to import one")
		return m, nil
	}
	res, err := m.manager.Reimport(m.focused)
	m.applyImport(m.focused, res, err)
	return m, nil
}

func (m *Model) handlePreview() (tea.Model, tea.Cmd) {
	link, ok := m.lists[m.focused].Current()
	if !ok {
		m.setStatus(ui.NotifyWarning, "No link selected")
		return m, nil
	}

	m.preview.SetSize(m.width-4, m.height-4)
	m.preview.Load(link, m.manager.Sources(m.focused, link))
	m.screen = ScreenPreview
	return m, nil
}

// importFolder replaces slot with the links found in folder
func (m *Model) importFolder(slot models.Slot, folder string) {
	res, err := m.manager.Import(slot, folder)
	m.applyImport(slot, res, err)
}

func (m *Model) applyImport(slot models.Slot, res *links.ImportResult, err error) {
	if err != nil {
		m.logger.Warn("import failed", zap.Stringer("slot", slot), zap.Error(err))
		m.setStatus(ui.NotifyError, fmt.Sprintf("Import failed: %v", err))
		return
	}
	if res == nil {
		return
	}

	for _, readErr := range res.Errors {
		m.messages.Push("Import error", fmt.Sprintf("Could not read file:\n%s\n\nError: %v", readErr.Path, readErr.Err))
	}

	m.lists[slot].GoToFirst()
	m.refreshList(slot)

	status := fmt.Sprintf("Imported %d links from %s (+%d/-%d)",
		len(res.Links), filepath.Base(res.Folder), len(res.Added), len(res.Removed))
	if res.HasErrors() {
		m.setStatus(ui.NotifyWarning, fmt.Sprintf("%s, %d unreadable", status, len(res.Errors)))
		return
	}
	m.setStatus(ui.NotifySuccess, status)
}

func (m *Model) focus(slot models.Slot) {
	if m.focused == slot {
		return
	}
	m.lists[m.focused].Focused = false
	m.focused = slot
	m.lists[slot].Focused = true
}

func (m *Model) clearSearch(slot models.Slot) {
	m.searches[slot].Reset()
	m.searches[slot].Blur()
	m.refreshList(slot)
}

// refreshList pulls the slot's filtered links from the manager
func (m *Model) refreshList(slot models.Slot) {
	list := m.lists[slot]
	query := m.searches[slot].Value()
	list.Query = query
	list.Folder = m.manager.FolderName(slot)
	list.SetLinks(m.manager.Filter(slot, query), m.manager.Len(slot))
}

func (m *Model) setStatus(kind ui.NotifyKind, status string) {
	m.statusKind = kind
	m.status = status
}

func (m *Model) updatePanelSizes() {
	panelWidth := max(minPanelWidth, (m.width-8)/2)
	panelHeight := max(minPanelHeight, m.height-8)

	for _, list := range m.lists {
		list.Width = panelWidth
		list.Height = panelHeight
	}
	m.messages.Width = m.dialogWidth()
	m.helpVP.Width = max(minPanelWidth, m.width-4)
	m.helpVP.Height = max(minPanelHeight, m.height-6)
}

// dialogWidth is the width of the picker and message dialogs
func (m *Model) dialogWidth() int {
	return max(minDialogWidth, min(70, m.width-4))
}

func (m *Model) View() string {
	if m.messages.IsVisible() {
		return m.renderOverlay(m.messages.View())
	}

	switch m.screen {
	case ScreenPicker:
		return m.renderOverlay(m.picker.View())
	case ScreenPreview:
		return m.renderPreview()
	default:
		return m.renderMain()
	}
}

func (m *Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.screen == ScreenHelp {
		b.WriteString(m.helpVP.View())
	} else {
		b.WriteString(lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.lists[models.SlotA].View(),
			"  ",
			m.lists[models.SlotB].View(),
		))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return ui.AppStyle.Render(b.String())
}

// renderOverlay centers a dialog below the header
func (m *Model) renderOverlay(dialog string) string {
	header := m.renderHeader()
	body := lipgloss.Place(
		max(0, m.width-2),
		max(0, m.height-lipgloss.Height(header)-1),
		lipgloss.Center,
		lipgloss.Center,
		dialog,
	)
	return ui.AppStyle.Render(header + "\n" + body)
}

func (m *Model) renderHeader() string {
	title := ui.TitleStyle.Render("🔗 linkdeck")
	ver := ui.VersionStyle.Render("v" + version)
	path := ui.MutedStyle.Render("  " + m.manager.ConfigPath())
	return ui.HeaderStyle.Render(title + "  " + ver + path)
}

func (m *Model) renderStatusBar() string {
	var stats []string
	for _, slot := range models.Slots {
		stats = append(stats, fmt.Sprintf("%s: %d", slot.Title(), m.manager.Len(slot)))
	}

	styledStatus := ui.RenderNotification(m.statusKind, m.status)
	if m.statusKind == ui.NotifyInfo {
		styledStatus = m.status
	}

	return ui.StatusBarStyle.Render(
		"▸ " + m.focused.Title() + "  " + styledStatus + "  •  " + strings.Join(stats, "  •  "),
	)
}

func (m *Model) renderHelpBar() string {
	if m.screen == ScreenHelp {
		scrollPct := fmt.Sprintf("%d%%", int(m.helpVP.ScrollPercent()*100))
		items := []string{
			ui.RenderHelpItem("↑↓/j/k", "scroll"),
			ui.RenderHelpItem("PgUp/PgDn", "page"),
			ui.RenderHelpItem("esc/?", "close"),
			ui.RenderHelpItem(scrollPct, ""),
		}
		return ui.HelpBarStyle.Render(strings.Join(items, "  "))
	}

	if m.searchMode {
		items := []string{
			ui.RenderHelpItem("↑↓", "navigate"),
			ui.RenderHelpItem("enter", "confirm"),
			ui.RenderHelpItem("esc", "cancel"),
		}
		return ui.HelpBarStyle.Render("🔍 " + m.searches[m.focused].View() + "  " + strings.Join(items, "  "))
	}

	if query := m.searches[m.focused].Value(); query != "" {
		items := []string{
			ui.RenderHelpItem("esc", "clear"),
			ui.RenderHelpItem("enter", "open"),
			ui.RenderHelpItem("o", "open shown"),
			ui.RenderHelpItem("/", "edit"),
		}
		return ui.HelpBarStyle.Render("🔍 \"" + query + "\"  " + strings.Join(items, "  "))
	}

	return ui.HelpBarStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m *Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(ui.PanelTitleStyle.Render("⌨️  Keyboard Shortcuts"))
	b.WriteString("\n")

	sections := []string{"🧭 Navigation", "📋 Lists", "🔗 Links", "📁 Folders & General"}
	for i, group := range m.keys.FullHelp() {
		b.WriteString("\n")
		b.WriteString(ui.MutedStyle.Render("  ─── " + sections[i] + " ───"))
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				ui.HelpKeyStyle.Width(14).Render(h.Key),
				ui.HelpDescStyle.Render(h.Desc),
			))
		}
	}

	b.WriteString("\n")
	b.WriteString(ui.MutedStyle.Render("  ─── 📝 Notes ───"))
	b.WriteString("\n")
	notes := []string{
		"Importing replaces a list with the .url files of one folder.",
		"Subfolders are not scanned.",
		"Search matches anywhere in a link, ignoring case.",
		"Both lists are saved to " + m.manager.ConfigPath() + " on quit.",
	}
	for _, note := range notes {
		b.WriteString("  " + ui.HelpDescStyle.Render(note) + "\n")
	}

	return b.String()
}

func (m *Model) renderPreview() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.preview.View())
	b.WriteString("\n")

	helpItems := []string{
		ui.RenderHelpItem("j/k", "scroll"),
		ui.RenderHelpItem("PgUp/Dn", "page"),
		ui.RenderHelpItem("Home/End", "top/bottom"),
		ui.RenderHelpItem("q/Esc", "close"),
	}
	if !m.preview.AtTop() {
		helpItems = append(helpItems, ui.MutedStyle.Render("↑ more"))
	}
	b.WriteString(ui.HelpBarStyle.Render(strings.Join(helpItems, "  ")))

	return ui.AppStyle.Render(b.String())
}

func main() {
	Execute()
}
