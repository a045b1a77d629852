//go:build windows

package notify

import (
	"log"
	"time"

	"fyne.io/fyne/v2"
	"github.com/go-toast/toast"
)

const toastAppID = "SignPad"

// ToastNotifier pushes a native Windows toast. Push shells out to
// PowerShell, so it runs off the UI goroutine and failures are only logged.
type ToastNotifier struct {
	push func(toast.Notification) error
	long bool
}

func newToastNotifier(_ fyne.App, timeout time.Duration) Notifier {
	return &ToastNotifier{
		push: func(n toast.Notification) error { return n.Push() },
		long: timeout > 5*time.Second,
	}
}

func (n *ToastNotifier) notification(title, message string) toast.Notification {
	duration := toast.Short
	if n.long {
		duration = toast.Long
	}
	return toast.Notification{
		AppID:    toastAppID,
		Title:    title,
		Message:  message,
		Audio:    toast.Silent,
		Duration: duration,
	}
}

func (n *ToastNotifier) Show(title, message string) error {
	tn := n.notification(title, message)
	go func() {
		if err := n.push(tn); err != nil {
			log.Printf("[NOTIFY] toast: %v", err)
		}
	}()
	return nil
}
