package notify

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopUpNotifierShowsOverlay(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	w := test.NewWindow(nil)
	defer w.Close()
	w.Resize(fyne.NewSize(400, 300))

	n := NewPopUpNotifier(w, time.Hour)
	require.NoError(t, n.Show("Draw signature", "Failed to save changes"))

	top := w.Canvas().Overlays().Top()
	require.NotNil(t, top)
	assert.True(t, top.Visible())
}

func TestPopUpNotifierHidesAfterTimeout(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	w := test.NewWindow(nil)
	defer w.Close()
	w.Resize(fyne.NewSize(400, 300))

	n := NewPopUpNotifier(w, 10*time.Millisecond)
	require.NoError(t, n.Show("", "Failed to save changes"))
	top := w.Canvas().Overlays().Top()
	require.NotNil(t, top)

	assert.Eventually(t, func() bool { return !top.Visible() }, 2*time.Second, 10*time.Millisecond)
}

func TestSystemNotifier(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	n := NewSystemNotifier(a)
	want := fyne.NewNotification("Draw signature", "Failed to save changes")
	test.AssertNotificationSent(t, want, func() {
		require.NoError(t, n.Show("Draw signature", "Failed to save changes"))
	})
}

func TestNewPicksKind(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	w := test.NewWindow(nil)
	defer w.Close()

	assert.IsType(t, &PopUpNotifier{}, New("popup", a, w, time.Second))
	assert.IsType(t, &PopUpNotifier{}, New("", a, w, time.Second))
	assert.IsType(t, &SystemNotifier{}, New("system", a, w, time.Second))
	assert.NotNil(t, New("toast", a, w, time.Second))
}
