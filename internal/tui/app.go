// Package tui is the terminal front end of the documents screen.
//
// Every action runs as a tea.Cmd so the table stays responsive while a
// request is in flight; results come back as messages and the latest
// notification is shown under the table.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"erpdesk/internal/console"
	"erpdesk/internal/editor"
)

type tab int

const (
	tabDocuments tab = iota
	tabInbox
)

// actionDoneMsg reports that a workflow call finished. The outcome is read
// from the notification recorder.
type actionDoneMsg struct {
	action string
	err    error
}

// App is the bubbletea model over one console workspace.
type App struct {
	ctx   context.Context
	ws    *console.Workspace
	notes *console.Recorder

	tab         tab
	cursor      int
	inboxCursor int
	assigning   bool
	input       textinput.Model
	busy        string

	last *console.Notification

	width  int
	height int
}

// NewApp builds the model. notes must be the recorder the workspace
// notifies into.
func NewApp(ctx context.Context, ws *console.Workspace, notes *console.Recorder) *App {
	input := textinput.New()
	input.Placeholder = "Assignee name"
	input.CharLimit = 200
	input.Cursor.SetMode(cursor.CursorStatic)
	return &App{ctx: ctx, ws: ws, notes: notes, input: input}
}

func (a *App) Init() tea.Cmd {
	return a.run("refresh", func(ctx context.Context) error {
		return a.ws.Lifecycle.Refresh(ctx)
	})
}

func (a *App) run(action string, fn func(context.Context) error) tea.Cmd {
	a.busy = action
	ctx := a.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(ctx)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil
	case actionDoneMsg:
		a.busy = ""
		a.collectNotifications()
		a.clampCursors()
		return a, nil
	case tea.KeyMsg:
		if a.assigning {
			return a.updateAssign(msg)
		}
		return a.updateKeys(msg)
	}
	return a, nil
}

func (a *App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "tab":
		return a, a.switchTab()
	case "up", "k":
		a.moveCursor(-1)
	case "down", "j":
		a.moveCursor(1)
	case "r":
		if a.tab == tabInbox {
			a.ws.Inbox.Unmount()
			return a, a.mountInbox()
		}
		return a, a.run("refresh", a.ws.Lifecycle.Refresh)
	case "enter", "v":
		return a, a.viewCurrent()
	case "p":
		return a, a.run("print", func(ctx context.Context) error {
			_, err := a.ws.Lifecycle.Print(ctx)
			return err
		})
	}

	if a.tab != tabDocuments {
		return a, nil
	}
	row, ok := a.currentRow()
	if !ok {
		return a, nil
	}
	switch msg.String() {
	case "a":
		if !row.CanArchive {
			return a, nil
		}
		return a, a.run("archive", func(ctx context.Context) error {
			return a.ws.Lifecycle.Archive(ctx, row.ID)
		})
	case "t":
		return a, a.run("track", func(ctx context.Context) error {
			_, err := a.ws.Lifecycle.Track(ctx, row.ID)
			return err
		})
	case "s":
		if err := a.ws.Dialog.Open(row.ID); err != nil {
			a.setError(err)
			return a, nil
		}
		a.assigning = true
		a.input.SetValue(a.ws.Dialog.Assignee())
		a.input.CursorEnd()
		return a, a.input.Focus()
	}
	return a, nil
}

func (a *App) updateAssign(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.ws.Dialog.Cancel()
		a.closeAssign()
		return a, nil
	case "enter":
		if err := a.ws.Dialog.SetAssignee(a.input.Value()); err != nil {
			a.setError(err)
			a.closeAssign()
			return a, nil
		}
		return a, a.run("assign", func(ctx context.Context) error {
			_, err := a.ws.Dialog.Confirm(ctx)
			return err
		})
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) closeAssign() {
	a.assigning = false
	a.input.Blur()
	a.input.SetValue("")
}

func (a *App) switchTab() tea.Cmd {
	if a.tab == tabDocuments {
		a.tab = tabInbox
		return a.mountInbox()
	}
	a.tab = tabDocuments
	return nil
}

func (a *App) mountInbox() tea.Cmd {
	return a.run("inbox", a.ws.Inbox.Mount)
}

func (a *App) viewCurrent() tea.Cmd {
	if a.tab == tabInbox {
		items := a.ws.Inbox.Items()
		if a.inboxCursor >= len(items) {
			return nil
		}
		id := items[a.inboxCursor].ID
		return a.run("view", func(context.Context) error {
			_, err := a.ws.Inbox.View(id)
			return err
		})
	}
	row, ok := a.currentRow()
	if !ok {
		return nil
	}
	return a.run("view", func(ctx context.Context) error {
		_, err := a.ws.Lifecycle.View(ctx, row.ID)
		return err
	})
}

func (a *App) currentRow() (console.Row, bool) {
	rows := a.ws.Lifecycle.Rows()
	if a.cursor < 0 || a.cursor >= len(rows) {
		return console.Row{}, false
	}
	return rows[a.cursor], true
}

func (a *App) moveCursor(delta int) {
	if a.tab == tabInbox {
		a.inboxCursor += delta
	} else {
		a.cursor += delta
	}
	a.clampCursors()
}

func (a *App) clampCursors() {
	a.cursor = clamp(a.cursor, len(a.ws.Lifecycle.Rows()))
	a.inboxCursor = clamp(a.inboxCursor, len(a.ws.Inbox.Items()))
}

func clamp(value, length int) int {
	if length == 0 || value < 0 {
		return 0
	}
	if value >= length {
		return length - 1
	}
	return value
}

func (a *App) collectNotifications() {
	if a.assigning && !a.ws.Dialog.IsOpen() {
		a.closeAssign()
	}
	drained := a.notes.Drain()
	if len(drained) == 0 {
		return
	}
	last := drained[len(drained)-1]
	a.last = &last
}

func (a *App) setError(err error) {
	a.last = &console.Notification{Title: "error", Description: err.Error(), Status: console.LevelError}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#888888"))
	activeTab     = tabStyle.Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Underline(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
	noteStyles    = map[console.Level]lipgloss.Style{
		console.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77")),
		console.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		console.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
	}
)

func (a *App) View() string {
	var sections []string
	sections = append(sections, titleStyle.Render("Incoming documents"), a.renderTabs())
	if a.tab == tabInbox {
		sections = append(sections, a.renderInbox())
	} else {
		sections = append(sections, a.renderDocuments())
	}
	sections = append(sections, a.renderViewer())
	if a.assigning {
		sections = append(sections, boxStyle.Render("Assign task\n"+a.input.View()+"\n"+mutedStyle.Render("enter confirm · esc cancel")))
	}
	if a.last != nil {
		style := noteStyles[a.last.Status]
		line := a.last.Title
		if a.last.Description != "" {
			line += ": " + a.last.Description
		}
		sections = append(sections, style.Render(line))
	}
	if a.busy != "" {
		sections = append(sections, mutedStyle.Render(a.busy+"…"))
	}
	sections = append(sections, mutedStyle.Render("a archive · t track · v view · p print · s assign · tab switch · r refresh · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderTabs() string {
	docs, inbox := tabStyle, tabStyle
	if a.tab == tabDocuments {
		docs = activeTab
	} else {
		inbox = activeTab
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, docs.Render("Documents"), inbox.Render("Inbox"))
}

func (a *App) renderDocuments() string {
	rows := a.ws.Lifecycle.Rows()
	if len(rows) == 0 {
		return mutedStyle.Render("No documents.")
	}
	lines := []string{fmt.Sprintf("  %-32s %-10s %-9s %s", "TITLE", "TYPE", "STATUS", "ASSIGNEE")}
	for i, row := range rows {
		line := marker(i == a.cursor) + fmt.Sprintf("%-32s %-10s %-9s %s", truncate(row.Title, 32), row.Type, row.Status, row.AssigneeLabel())
		switch {
		case i == a.cursor:
			line = selectedStyle.Render(line)
		case !row.CanArchive:
			line = mutedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderInbox() string {
	items := a.ws.Inbox.Items()
	if len(items) == 0 {
		return mutedStyle.Render("Inbox is empty.")
	}
	lines := []string{fmt.Sprintf("  %-36s %-24s %s", "TITLE", "SENDER", "RECEIVED")}
	for i, item := range items {
		line := marker(i == a.inboxCursor) + fmt.Sprintf("%-36s %-24s %s", truncate(item.Title, 36), truncate(item.Sender, 24), item.ReceivedDate)
		if i == a.inboxCursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderViewer() string {
	selected, ok := a.ws.Lifecycle.Selected()
	if !ok {
		return boxStyle.Render(mutedStyle.Render("Nothing selected."))
	}
	body := "(no content)"
	if doc, err := editor.Parse(a.ws.Surface().Content()); err == nil && !doc.IsEmpty() {
		body = editor.PlainText(doc)
	}
	return boxStyle.Render(titleStyle.Render(selected.RecordTitle()) + "\n" + body)
}

func marker(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-1]) + "…"
}
