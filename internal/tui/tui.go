// Package tui is the interactive front end: a sortable timesheet with
// add, delete and approve actions, and a markdown editor with a live preview.
package tui

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tiliavir/tsb/internal/preview"
	"github.com/Tiliavir/tsb/internal/sortable"
	"github.com/Tiliavir/tsb/internal/timesheet"
)

// Options configures the TUI.
type Options struct {
	View        *timesheet.View
	Renderer    preview.Renderer
	Debounce    time.Duration
	SortOptions []sortable.Option
	// Markdown is the initial editor content.
	Markdown string
	Logger   *log.Logger
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m := newAppModel(ctx, opts)
	defer m.preview.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.bridge.send = p.Send
	_, err := p.Run()
	return err
}
