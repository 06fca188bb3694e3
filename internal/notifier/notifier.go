package notifier

import (
	"runtime"

	"github.com/gen2brain/beeep"
)

// Title heads every notification
const Title = "Audio Notifier"

// Notifier handles desktop notifications
type Notifier struct {
	enabled bool
	notify  func(title, message string) error
	alert   func(title, message string) error
}

// New creates a new Notifier
func New() *Notifier {
	return &Notifier{
		enabled: true,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		alert: func(title, message string) error {
			return beeep.Alert(title, message, "")
		},
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// Notify sends a desktop notification
func (n *Notifier) Notify(title, message string) error {
	if !n.enabled {
		return nil
	}
	return n.notify(title, message)
}

// NotifyWithSound sends a desktop notification with sound (if supported)
func (n *Notifier) NotifyWithSound(title, message string) error {
	if !n.enabled {
		return nil
	}

	// beeep.Alert includes sound on supported platforms
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return n.alert(title, message)
	}
	return n.notify(title, message)
}

// NotifyInstalled announces a completed install
func (n *Notifier) NotifyInstalled() error {
	return n.Notify(Title, "Installed. Audio notifications are now active.")
}

// NotifyUninstalled announces a completed uninstall
func (n *Notifier) NotifyUninstalled() error {
	return n.Notify(Title, "Uninstalled. Your configuration was kept.")
}

// NotifyTest sends the notification behind the "test notification" button
func (n *Notifier) NotifyTest(message string) error {
	if message == "" {
		message = "Test notification"
	}
	return n.NotifyWithSound(Title, message)
}
