package ui

import (
	"errors"
	"log"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"signpad/internal/notify"
	"signpad/internal/signature"
)

// DrawDialog is the modal "Draw signature" dialog. handleClose runs when
// the user dismisses it; handleFinish receives the PNG after a successful
// submit.
type DrawDialog struct {
	pad      *SignaturePad
	dialog   *dialog.CustomDialog
	notifier notify.Notifier
	dispatch func(func())

	// submitting blocks a second encode; closed drops a result that
	// arrives after Close.
	submitting atomic.Bool
	closed     atomic.Bool

	handleClose  func()
	handleFinish func(signature.File)
}

func NewDrawDialog(parent fyne.Window, pad *signature.Pad, n notify.Notifier, handleClose func(), handleFinish func(signature.File)) *DrawDialog {
	loadTranslations()

	d := &DrawDialog{
		pad:          NewSignaturePad(pad),
		notifier:     n,
		dispatch:     fyne.Do,
		handleClose:  handleClose,
		handleFinish: handleFinish,
	}

	closeBtn := widget.NewButtonWithIcon(lang.X("common.close", "Close"), theme.CancelIcon(), d.Close)
	resetBtn := widget.NewButton(lang.X("common.reset", "Reset"), d.Reset)
	submitBtn := widget.NewButton(lang.X("common.submit", "Submit"), d.Submit)
	submitBtn.Importance = widget.HighImportance

	content := container.NewCenter(d.pad)
	d.dialog = dialog.NewCustomWithoutButtons(lang.X("signature.title", "Draw signature"), content, parent)
	d.dialog.SetButtons([]fyne.CanvasObject{closeBtn, resetBtn, submitBtn})

	d.OnViewportChange(parent.Canvas().Size())
	return d
}

// SignaturePad returns the drawing widget.
func (d *DrawDialog) SignaturePad() *SignaturePad {
	return d.pad
}

func (d *DrawDialog) Show() {
	d.dialog.Show()
}

// OnViewportChange resizes the surface for a new window size. Whatever was
// drawn is discarded.
func (d *DrawDialog) OnViewportChange(viewport fyne.Size) {
	d.submitting.Store(false)
	d.pad.SetViewport(viewport)
	d.dialog.Resize(d.dialog.MinSize())
}

// Reset clears the drawing.
func (d *DrawDialog) Reset() {
	d.submitting.Store(false)
	d.pad.Reset()
}

// Close dismisses the dialog without a result.
func (d *DrawDialog) Close() {
	if d.closed.Swap(true) {
		return
	}
	d.dialog.Hide()
	if d.handleClose != nil {
		d.handleClose()
	}
}

// Submit hands the drawing to handleFinish, or shows the failure message if
// nothing has been drawn yet. Clicks while an encode is running are
// ignored; Reset or a viewport change re-arms the button.
func (d *DrawDialog) Submit() {
	if d.closed.Load() || !d.submitting.CompareAndSwap(false, true) {
		return
	}
	err := d.pad.Pad().Submit(d.dispatch, d.finish)
	if err != nil {
		d.submitting.Store(false)
	}
	switch {
	case errors.Is(err, signature.ErrNothingDrawn):
		d.showFailed()
	case err != nil:
		log.Printf("[DIALOG] submit: %v", err)
	}
}

func (d *DrawDialog) finish(file signature.File) {
	if d.closed.Swap(true) {
		log.Printf("[DIALOG] dropping %s, dialog already closed", file.Name)
		return
	}
	log.Printf("[DIALOG] signature ready: %s (%d bytes)", file.Name, file.Size())
	d.dialog.Hide()
	if d.handleFinish != nil {
		d.handleFinish(file)
	}
}

func (d *DrawDialog) showFailed() {
	title := lang.X("signature.title", "Draw signature")
	msg := lang.X("profile.failed_save_changes", "Failed to save changes")
	if d.notifier == nil {
		log.Printf("[DIALOG] %s", msg)
		return
	}
	if err := d.notifier.Show(title, msg); err != nil {
		log.Printf("[DIALOG] notify: %v", err)
	}
}
