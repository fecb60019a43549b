// Package notify pops desktop notifications for board events that happen
// while the user may be looking elsewhere.
package notify

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gen2brain/beeep"

	"github.com/ramanasai/tripboard/internal/board"
)

const appName = "Tripboard"

type Notifier struct {
	enabled bool
	notify  func(title, message string) error
	alert   func(title, message string) error
	logger  *slog.Logger
}

// New returns a Notifier. A disabled one drops everything.
func New(enabled bool, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Notifier{
		enabled: enabled,
		notify:  func(t, m string) error { return beeep.Notify(t, m, "") },
		alert:   func(t, m string) error { return beeep.Alert(t, m, "") },
		logger:  logger,
	}
}

func (n *Notifier) Enabled() bool { return n != nil && n.enabled }

func (n *Notifier) Info(title, message string) error {
	if !n.Enabled() {
		return nil
	}
	if err := n.notify(title, message); err != nil {
		n.logger.Warn("notification failed", "title", title, "err", err)
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

func (n *Notifier) Done(message string) error {
	if !n.Enabled() {
		return nil
	}
	if err := n.alert(appName, message); err != nil {
		n.logger.Warn("alert failed", "err", err)
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// Discarded reports a deleted note whose undo window ran out.
func (n *Notifier) Discarded(note board.Note) error {
	title, msg := FormatDiscarded(note)
	return n.Info(title, msg)
}

func FormatDiscarded(note board.Note) (string, string) {
	name := note.Location
	if name == "" {
		name = "An untitled note"
	}
	return "Note discarded", fmt.Sprintf("%s is gone for good. Undo is no longer available.", name)
}
