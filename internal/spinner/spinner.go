// Package spinner shows a progress indicator on a terminal while a fetch is
// in flight.
package spinner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Spinner draws animation frames next to a label until stopped
type Spinner struct {
	out    io.Writer
	label  string
	frames spinner.Spinner
	style  lipgloss.Style
}

// New creates a spinner that writes to out using the dot frame set
func New(out io.Writer, label string) *Spinner {
	return &Spinner{
		out:    out,
		label:  label,
		frames: spinner.Dot,
		style:  lipgloss.NewRenderer(out).NewStyle().Foreground(lipgloss.Color("12")),
	}
}

// Run animates until done is closed or ctx is cancelled, then erases the
// line it drew. It never outlives the work it tracks.
func (s *Spinner) Run(ctx context.Context, done <-chan struct{}) error {
	ticker := time.NewTicker(s.frames.FPS)
	defer ticker.Stop()

	frame := 0
	width := 0
	for {
		line := s.style.Render(s.frames.Frames[frame]) + " " + s.label
		width = max(width, lipgloss.Width(line))
		if _, err := fmt.Fprintf(s.out, "\r%s", line); err != nil {
			return err
		}
		frame = (frame + 1) % len(s.frames.Frames)

		select {
		case <-done:
			return s.clear(width)
		case <-ctx.Done():
			// ignore write errors, the context error matters more
			_ = s.clear(width)
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Spinner) clear(width int) error {
	_, err := fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", width))
	return err
}
