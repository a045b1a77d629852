package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// NewToolbar builds the main window toolbar: sign, clear the preview, quit.
func NewToolbar(a *App) fyne.CanvasObject {
	return widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), a.OpenDialog), // Sign
		widget.NewToolbarAction(theme.ContentClearIcon(), a.ClearPreview),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.LogoutIcon(), a.Quit),
	)
}
