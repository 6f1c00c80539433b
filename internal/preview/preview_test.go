package preview_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Tiliavir/tsb/internal/preview"
)

// recorder is a Renderer that remembers what it was asked to render.
type recorder struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (r *recorder) Render(_ context.Context, src string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, src)
	if r.fail {
		return "", errors.New("board unreachable")
	}
	return "<p>" + src + "</p>", nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) setFail(v bool) {
	r.mu.Lock()
	r.fail = v
	r.mu.Unlock()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStartRendersImmediately(t *testing.T) {
	r := &recorder{}
	p := preview.New(context.Background(), r, preview.Options{Delay: time.Hour})
	defer p.Close()

	p.Start("# draft")
	if got := p.HTML(); got != "<p># draft</p>" {
		t.Errorf("HTML = %q, want %q", got, "<p># draft</p>")
	}
}

func TestInputIsDebounced(t *testing.T) {
	r := &recorder{}
	var mu sync.Mutex
	var updates []string
	p := preview.New(context.Background(), r, preview.Options{
		Delay: 40 * time.Millisecond,
		OnUpdate: func(html string) {
			mu.Lock()
			updates = append(updates, html)
			mu.Unlock()
		},
	})
	defer p.Close()

	for _, s := range []string{"h", "he", "hel", "hell", "hello"} {
		p.Input(s)
		time.Sleep(5 * time.Millisecond)
	}
	waitFor(t, func() bool { return p.HTML() == "<p>hello</p>" })

	time.Sleep(100 * time.Millisecond)
	if got := r.seen(); len(got) != 1 || got[0] != "hello" {
		t.Errorf("render calls = %q, want only the trailing text", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(updates) != 1 {
		t.Errorf("updates = %d, want 1", len(updates))
	}
}

func TestFailedRenderKeepsStaleHTML(t *testing.T) {
	r := &recorder{}
	p := preview.New(context.Background(), r, preview.Options{Delay: time.Hour})
	defer p.Close()

	p.Start("one")
	r.setFail(true)
	p.Input("two")
	if !p.Flush() {
		t.Fatal("Flush() = false with pending input")
	}
	if got := p.HTML(); got != "<p>one</p>" {
		t.Errorf("HTML = %q, want stale %q", got, "<p>one</p>")
	}
	if p.Err() == nil {
		t.Error("Err() = nil after failed render")
	}
	if p.Source() != "two" {
		t.Errorf("Source = %q, want %q", p.Source(), "two")
	}
}

func TestGoldmark(t *testing.T) {
	g := preview.NewGoldmark()
	out, err := g.Render(context.Background(), "# Title\n\n- [x] done\n\n<script>x</script>")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, `<h1 id="title">Title</h1>`) {
		t.Errorf("missing heading in %q", out)
	}
	if !strings.Contains(out, `type="checkbox"`) {
		t.Errorf("missing task list checkbox in %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("raw HTML was not dropped: %q", out)
	}
}

func TestPlainText(t *testing.T) {
	got := preview.PlainText("<h1>Sheet &amp; notes</h1><p>Line <b>one</b></p><ul><li>a</li><li>b</li></ul>")
	want := "Sheet & notes\nLine one\na\nb"
	if got != want {
		t.Errorf("PlainText = %q, want %q", got, want)
	}
}

func TestTerminal(t *testing.T) {
	if got := preview.Terminal("   ", 40); got != "" {
		t.Errorf("Terminal(blank) = %q, want empty", got)
	}
	if got := preview.Terminal("**bold** text", 40); !strings.Contains(got, "bold") {
		t.Errorf("Terminal output %q lacks the text", got)
	}
}
