// Package notify shows short, user facing messages such as "nothing drawn
// yet".
package notify

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Notifier presents a message to the user.
type Notifier interface {
	Show(title, message string) error
}

// New picks a notifier by kind: "popup" (default), "system" or "toast".
// toast is only native on Windows and falls back to system notifications
// elsewhere.
func New(kind string, app fyne.App, win fyne.Window, timeout time.Duration) Notifier {
	switch kind {
	case "system":
		return NewSystemNotifier(app)
	case "toast":
		return newToastNotifier(app, timeout)
	default:
		return NewPopUpNotifier(win, timeout)
	}
}

// PopUpNotifier shows a transient failure banner at the top of a window.
type PopUpNotifier struct {
	win     fyne.Window
	timeout time.Duration
}

func NewPopUpNotifier(win fyne.Window, timeout time.Duration) *PopUpNotifier {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &PopUpNotifier{win: win, timeout: timeout}
}

// Show must be called on the UI goroutine.
func (n *PopUpNotifier) Show(title, message string) error {
	text := message
	if title != "" {
		text = title + ": " + message
	}
	content := container.NewPadded(container.NewHBox(
		widget.NewIcon(theme.ErrorIcon()),
		widget.NewLabel(text),
	))
	c := n.win.Canvas()
	pop := widget.NewPopUp(content, c)

	size := pop.MinSize()
	pos := fyne.NewPos((c.Size().Width-size.Width)/2, theme.Padding()*4)
	pop.ShowAtPosition(pos)

	time.AfterFunc(n.timeout, func() {
		fyne.Do(pop.Hide)
	})
	return nil
}

// SystemNotifier sends a desktop notification through the Fyne app.
type SystemNotifier struct {
	app fyne.App
}

func NewSystemNotifier(app fyne.App) *SystemNotifier {
	return &SystemNotifier{app: app}
}

func (n *SystemNotifier) Show(title, message string) error {
	n.app.SendNotification(fyne.NewNotification(title, message))
	return nil
}
