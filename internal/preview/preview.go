// Package preview keeps a rendered markdown preview in step with an editor.
package preview

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Tiliavir/tsb/internal/debounce"
)

// DefaultDelay is the quiet period after the last edit before rendering.
const DefaultDelay = time.Second

// Renderer turns markdown source into HTML.
type Renderer interface {
	Render(ctx context.Context, src string) (string, error)
}

// Options configures a Preview.
type Options struct {
	// Delay overrides DefaultDelay.
	Delay time.Duration
	// OnUpdate is called with the new HTML after each successful render.
	OnUpdate func(html string)
	// Logger receives render failures. Nil discards them.
	Logger *log.Logger
}

// Preview renders the latest editor text after input settles. Failed
// renders keep the previous HTML; there is no retry.
type Preview struct {
	r        Renderer
	ctx      context.Context
	onUpdate func(string)
	logger   *log.Logger
	task     *debounce.Task

	mu      sync.Mutex
	src     string
	html    string
	lastErr error
}

// New returns a Preview. Renders run with ctx until Close.
func New(ctx context.Context, r Renderer, opts Options) *Preview {
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	p := &Preview{
		r:        r,
		ctx:      ctx,
		onUpdate: opts.OnUpdate,
		logger:   opts.Logger,
	}
	p.task = debounce.New(delay, func() { p.render() })
	return p
}

// Start sets the initial text and renders it right away, bypassing the
// debounce.
func (p *Preview) Start(src string) {
	p.mu.Lock()
	p.src = src
	p.mu.Unlock()
	p.render()
}

// Input records new editor text and schedules a render.
func (p *Preview) Input(src string) {
	p.mu.Lock()
	p.src = src
	p.mu.Unlock()
	p.task.Trigger()
}

// Flush renders pending input immediately. It reports whether a render ran.
func (p *Preview) Flush() bool {
	return p.task.Flush()
}

// Source returns the latest editor text.
func (p *Preview) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.src
}

// HTML returns the last successfully rendered HTML.
func (p *Preview) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.html
}

// Err returns the error of the most recent render, if it failed.
func (p *Preview) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Close cancels any pending render.
func (p *Preview) Close() {
	p.task.Stop()
}

func (p *Preview) render() {
	src := p.Source()
	html, err := p.r.Render(p.ctx, src)

	p.mu.Lock()
	p.lastErr = err
	if err == nil {
		p.html = html
	}
	p.mu.Unlock()

	if err != nil {
		if p.logger != nil {
			p.logger.Printf("markdown preview: %v", err)
		}
		return
	}
	if p.onUpdate != nil {
		p.onUpdate(html)
	}
}
