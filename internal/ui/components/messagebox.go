package components

import (
	"fmt"
	"strings"

	"linkdeck/internal/ui"
)

// Message is one entry of a MessageBox
type Message struct {
	Title string
	Body  string
}

// MessageBox shows queued messages one at a time. Each Dismiss moves on to
// the next one; the box is hidden once the queue is empty.
type MessageBox struct {
	queue []Message
	Width int
}

// NewMessageBox creates an empty message box
func NewMessageBox() *MessageBox {
	return &MessageBox{Width: 60}
}

// Push queues a message
func (d *MessageBox) Push(title, body string) {
	d.queue = append(d.queue, Message{Title: title, Body: body})
}

// IsVisible returns whether a message is waiting
func (d *MessageBox) IsVisible() bool {
	return len(d.queue) > 0
}

// Pending returns the number of queued messages
func (d *MessageBox) Pending() int {
	return len(d.queue)
}

// Current returns the message on display
func (d *MessageBox) Current() (Message, bool) {
	if len(d.queue) == 0 {
		return Message{}, false
	}
	return d.queue[0], true
}

// Dismiss drops the current message
func (d *MessageBox) Dismiss() {
	if len(d.queue) > 0 {
		d.queue = d.queue[1:]
	}
}

// View renders the dialog
func (d *MessageBox) View() string {
	msg, ok := d.Current()
	if !ok {
		return ""
	}

	var b strings.Builder

	title := msg.Title
	if n := d.Pending(); n > 1 {
		title = fmt.Sprintf("%s (1 of %d)", msg.Title, n)
	}
	b.WriteString(ui.PanelTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("-", max(0, d.Width-4))))
	b.WriteString("\n\n")
	b.WriteString(msg.Body)
	b.WriteString("\n\n")
	b.WriteString(ui.RenderButton("OK"))
	b.WriteString("  ")
	b.WriteString(ui.RenderHelpItem("Enter/Esc", "dismiss"))

	return ui.ErrorDialogStyle.Width(d.Width).Render(b.String())
}
