package components

import (
	"fmt"
	"strings"

	"github.com/kerbaras/lucollection/pkg/app/styles"
	"github.com/kerbaras/lucollection/pkg/services"
)

// ProgressTracker shows the entry a batch is working on and how far along it is.
type ProgressTracker struct {
	current *services.InstallProgress
	failed  int
	width   int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{width: width}
}

func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
}

func (p *ProgressTracker) Update(progress services.InstallProgress) {
	if progress.Status == services.StatusFailed {
		p.failed++
	}
	if progress.Index == progress.Total && (progress.Status == services.StatusDone || progress.Status == services.StatusFailed) {
		p.current = nil
		return
	}
	prog := progress // Copy
	p.current = &prog
}

func (p *ProgressTracker) Clear() {
	p.current = nil
	p.failed = 0
}

func (p *ProgressTracker) HasActive() bool {
	return p.current != nil
}

func (p *ProgressTracker) Failed() int {
	return p.failed
}

func (p *ProgressTracker) View() string {
	if p.current == nil {
		return ""
	}
	progress := p.current

	var b strings.Builder
	b.WriteString(styles.TextStyle.Render(fmt.Sprintf("%s: %s", progress.Status, progress.Entry.Name)))
	b.WriteString("\n")

	if progress.Total > 1 {
		done := progress.Index - 1
		if progress.Status == services.StatusDone || progress.Status == services.StatusFailed {
			done = progress.Index
		}
		b.WriteString(renderProgressBar(done, progress.Total, p.width-4))
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf(" %d/%d", done, progress.Total)))
		b.WriteString("\n")
	}
	if p.failed > 0 {
		b.WriteString(styles.StatusError.Render(fmt.Sprintf("%d failed so far", p.failed)))
		b.WriteString("\n")
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
