// Package notify delivers phase-change notifications and the audible cue.
package notify

import (
	"errors"
	"fmt"
	"io"

	"github.com/gen2brain/beeep"
)

var (
	desktopNotify = func(title, body, icon string) error {
		return beeep.Notify(title, body, icon)
	}
	systemBeep = func(freq float64, duration int) error {
		return beeep.Beep(freq, duration)
	}
)

// Desktop shows a system notification: libnotify over D-Bus on Linux,
// the notification center on macOS, toasts on Windows.
type Desktop struct {
	// Icon is an optional path to an image shown beside the text.
	Icon string
}

func (d Desktop) Notify(title, body string) error {
	if err := desktopNotify(title, body, d.Icon); err != nil {
		return fmt.Errorf("notify: desktop: %w", err)
	}
	return nil
}

// Beep sounds the system speaker.
type Beep struct{}

func (Beep) Play() error {
	if err := systemBeep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
		return fmt.Errorf("notify: beep: %w", err)
	}
	return nil
}

type Noop struct{}

func (Noop) Notify(string, string) error { return nil }

func (Noop) Play() error { return nil }

// Bell rings the terminal bell on W.
type Bell struct {
	W io.Writer
}

func (b Bell) Play() error {
	if b.W == nil {
		return errors.New("notify: bell has no writer")
	}
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Console prints notifications as a single line on W.
type Console struct {
	W io.Writer
}

func (c Console) Notify(title, body string) error {
	if c.W == nil {
		return errors.New("notify: console has no writer")
	}
	_, err := fmt.Fprintf(c.W, "\n🔔 %s %s\n", title, body)
	return err
}

// Multi fans a notification out to every notifier and joins their errors.
type Multi []interface {
	Notify(title, body string) error
}

func (m Multi) Notify(title, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
