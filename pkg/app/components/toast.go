package components

import (
	"strings"
	"time"

	"github.com/kerbaras/lucollection/pkg/app/styles"
)

// Notification levels.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// DefaultToastTTL is how long a toast stays on screen.
const DefaultToastTTL = 6 * time.Second

type Toast struct {
	Level   string
	Text    string
	Expires time.Time // zero means sticky until dismissed
}

// Toasts is a short stack of transient notifications, newest last.
type Toasts struct {
	items []Toast
	max   int
	width int
}

func NewToasts(max int) *Toasts {
	return &Toasts{max: max, width: 60}
}

func (t *Toasts) SetWidth(width int) {
	t.width = width
}

// Push adds a toast. ttl <= 0 keeps it until Dismiss.
func (t *Toasts) Push(level, text string, ttl time.Duration, now time.Time) {
	toast := Toast{Level: level, Text: text}
	if ttl > 0 {
		toast.Expires = now.Add(ttl)
	}
	t.items = append(t.items, toast)
	if len(t.items) > t.max {
		t.items = t.items[len(t.items)-t.max:]
	}
}

// Prune drops expired toasts and reports whether any remain.
func (t *Toasts) Prune(now time.Time) bool {
	kept := t.items[:0]
	for _, toast := range t.items {
		if toast.Expires.IsZero() || now.Before(toast.Expires) {
			kept = append(kept, toast)
		}
	}
	t.items = kept
	return len(t.items) > 0
}

// Dismiss removes every toast.
func (t *Toasts) Dismiss() {
	t.items = nil
}

func (t *Toasts) Items() []Toast {
	return t.items
}

func (t *Toasts) View() string {
	if len(t.items) == 0 {
		return ""
	}
	views := make([]string, len(t.items))
	for i, toast := range t.items {
		style := styles.ToastStyle.
			BorderForeground(styles.LevelColor(toast.Level)).
			Foreground(styles.LevelColor(toast.Level))
		if t.width > 0 {
			style = style.Width(t.width)
		}
		views[i] = style.Render(toast.Text)
	}
	return strings.Join(views, "\n")
}
