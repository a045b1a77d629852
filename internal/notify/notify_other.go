//go:build !windows

package notify

import (
	"time"

	"fyne.io/fyne/v2"
)

func newToastNotifier(app fyne.App, _ time.Duration) Notifier {
	return NewSystemNotifier(app)
}
