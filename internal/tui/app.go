package tui

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/tsb/internal/api"
	"github.com/Tiliavir/tsb/internal/preview"
	"github.com/Tiliavir/tsb/internal/sortable"
	"github.com/Tiliavir/tsb/internal/timesheet"
)

type screen int

const (
	screenTimesheet screen = iota
	screenMarkdown
)

// loadedMsg reports the end of a load or add; both may re-render the view.
type loadedMsg struct {
	op  string
	err error
}

// mutatedMsg reports the end of a delete or approve on one row.
type mutatedMsg struct {
	op  string
	id  int64
	err error
}

// previewMsg carries freshly rendered preview HTML.
type previewMsg struct {
	html string
}

// bridge lets background renders reach the running program.
type bridge struct {
	send func(tea.Msg)
}

type appModel struct {
	ctx      context.Context
	view     *timesheet.View
	preview  *preview.Preview
	bridge   *bridge
	sortOpts []sortable.Option
	logger   *log.Logger

	screen screen
	nav    navToggle
	width  int
	height int

	table   *sortable.Table[timesheet.Row]
	gen     int
	cursor  int
	loading bool
	status  string
	alert   string
	form    *addForm

	editor      textarea.Model
	previewHTML string
	initialMD   string
}

func newAppModel(ctx context.Context, opts Options) appModel {
	b := &bridge{}
	pv := preview.New(ctx, opts.Renderer, preview.Options{
		Delay:  opts.Debounce,
		Logger: opts.Logger,
		OnUpdate: func(html string) {
			if b.send != nil {
				b.send(previewMsg{html: html})
			}
		},
	})

	ed := textarea.New()
	ed.Placeholder = "Task description in markdown…"
	ed.ShowLineNumbers = false
	ed.CharLimit = 0
	ed.SetValue(opts.Markdown)

	m := appModel{
		ctx:       ctx,
		view:      opts.View,
		preview:   pv,
		bridge:    b,
		sortOpts:  opts.SortOptions,
		logger:    opts.Logger,
		editor:    ed,
		initialMD: opts.Markdown,
		width:     100,
		height:    30,
		loading:   true,
	}
	m.syncTable()
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd("load"), m.startPreviewCmd())
}

func (m appModel) startPreviewCmd() tea.Cmd {
	pv, src := m.preview, m.initialMD
	return func() tea.Msg {
		pv.Start(src)
		return previewMsg{html: pv.HTML()}
	}
}

func (m appModel) loadCmd(op string) tea.Cmd {
	view, ctx := m.view, m.ctx
	return func() tea.Msg {
		return loadedMsg{op: op, err: view.Load(ctx)}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeEditor()
		return m, nil

	case loadedMsg:
		m.loading = false
		m.syncTable()
		var rejected *api.ServerError
		switch {
		case errors.As(msg.err, &rejected):
			// The banner already carries the board's message.
			m.status = ""
		case msg.err != nil:
			m.status = msg.op + " failed: " + msg.err.Error()
		case msg.op == "add":
			m.form = nil
			m.status = "Record added."
		default:
			m.status = ""
		}
		return m, nil

	case mutatedMsg:
		m.syncTable()
		m.handleMutation(msg)
		return m, nil

	case previewMsg:
		m.previewHTML = msg.html
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.screen == screenMarkdown {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open alert swallows the next key, like a dialog's OK button.
	if m.alert != "" {
		m.alert = ""
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+n":
		m.nav.toggle()
		m.resizeEditor()
		return m, nil
	case "tab":
		if m.form == nil {
			return m, m.switchScreen()
		}
	}

	if m.screen == screenMarkdown {
		return m.updateMarkdownKey(msg)
	}
	if m.form != nil {
		return m.updateFormKey(msg)
	}
	return m.updateTimesheetKey(msg)
}

func (m *appModel) switchScreen() tea.Cmd {
	if m.screen == screenTimesheet {
		m.screen = screenMarkdown
		return m.editor.Focus()
	}
	m.screen = screenTimesheet
	m.editor.Blur()
	// Leaving the editor sends what was typed without waiting out the debounce.
	pv := m.preview
	return func() tea.Msg {
		if !pv.Flush() {
			return nil
		}
		return previewMsg{html: pv.HTML()}
	}
}

func (m *appModel) resizeEditor() {
	w := (m.width - navWidth(m.nav)) / 2
	m.editor.SetWidth(max(w-4, 20))
	m.editor.SetHeight(max(m.height-8, 5))
}

func (m appModel) View() string {
	title := "Timesheet"
	if m.screen == screenMarkdown {
		title = "Task markdown"
	}
	header := titleStyle.Render("tsb  " + title + "  [" + m.view.Mode().String() + "]")

	var body string
	switch m.screen {
	case screenMarkdown:
		body = m.viewMarkdown()
	default:
		body = m.viewTimesheet()
	}
	if nav := m.nav.view(m.screen, lipgloss.Height(body)); nav != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, nav, body)
	}
	if m.alert != "" {
		body = lipgloss.Place(m.width, max(m.height-4, lipgloss.Height(body)), lipgloss.Center, lipgloss.Center,
			alertStyle.Render(m.alert+"\n\n"+footerStyle.Render("press any key")))
	}

	parts := []string{header, body}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, footerStyle.Render(m.helpLine()))
	return strings.Join(parts, "\n\n")
}

func (m appModel) helpLine() string {
	if m.screen == screenMarkdown {
		return "tab: timesheet  ctrl+n: nav  ctrl+c: quit"
	}
	if m.form != nil {
		return "tab/shift+tab: next/prev field  enter: submit  esc: cancel"
	}
	keys := "1-9: sort  ↑/↓: select  r: reload  "
	if m.view.Mode() == timesheet.ModeAdmin {
		keys += "enter: approve  "
	} else {
		keys += "a: add  d: delete  "
	}
	return keys + "tab: markdown  n: nav  q: quit"
}
