// Package notify shows short-lived, non-blocking notifications.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Notifier receives one line per user-visible outcome.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// Level is the severity of a recorded notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

var (
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))
)

// Terminal writes styled notifications, stderr unless configured otherwise.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	noColor bool
}

// NewTerminal creates a terminal notifier writing to w. A nil w means stderr.
func NewTerminal(w io.Writer, noColor bool) *Terminal {
	if w == nil {
		w = os.Stderr
	}
	return &Terminal{w: w, noColor: noColor}
}

func (t *Terminal) Success(msg string) { t.write(successStyle, "✓", msg) }
func (t *Terminal) Info(msg string)    { t.write(infoStyle, "•", msg) }
func (t *Terminal) Error(msg string)   { t.write(errorStyle, "✗", msg) }

func (t *Terminal) write(style lipgloss.Style, icon, msg string) {
	if msg == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	prefix := icon
	if !t.noColor {
		prefix = style.Render(icon)
	}
	fmt.Fprintf(t.w, "%s %s\n", prefix, msg)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Info(string)    {}
func (Discard) Error(string)   {}

// Entry is one recorded notification.
type Entry struct {
	Level   Level
	Message string
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg})
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Messages returns recorded messages at level.
func (r *Recorder) Messages(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Reset forgets all recorded entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

var (
	_ Notifier = (*Terminal)(nil)
	_ Notifier = Discard{}
	_ Notifier = (*Recorder)(nil)
)
