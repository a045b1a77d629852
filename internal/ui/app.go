package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/widget"

	"signpad/internal/config"
	"signpad/internal/notify"
	"signpad/internal/signature"
)

const appID = "io.signpad.app"

// Host is the application side that owns finished signatures.
type Host interface {
	SignatureFinished(file signature.File, strokes []signature.Stroke, size signature.Size)
	SignatureClosed()
}

// App is the main window: a toolbar, a preview of the last signature and a
// status bar.
type App struct {
	fyneApp  fyne.App
	win      fyne.Window
	cfg      *config.Config
	host     Host
	notifier notify.Notifier

	watcher *viewportWatcher
	preview *fyne.Container
	status  *widget.Label
	current *DrawDialog
}

func NewApp(a fyne.App, cfg *config.Config, host Host) *App {
	loadTranslations()

	ui := &App{
		fyneApp: a,
		cfg:     cfg,
		host:    host,
		status:  widget.NewLabel(lang.X("app.hint", "Press the pen to sign")),
	}
	ui.win = a.NewWindow(lang.X("app.title", "SignPad"))
	ui.win.Resize(fyne.NewSize(1024, 768))
	ui.notifier = notify.New(cfg.Notify.Kind, a, ui.win, cfg.Notify.Timeout)

	ui.watcher = newViewportWatcher(ui.onViewportChange)
	ui.preview = container.NewCenter()
	content := container.NewBorder(NewToolbar(ui), ui.status, nil, nil, ui.preview)
	ui.win.SetContent(container.NewStack(ui.watcher, content))
	return ui
}

// New creates the desktop application.
func New(cfg *config.Config, host Host) *App {
	return NewApp(app.NewWithID(appID), cfg, host)
}

// Run opens the main window and blocks until it is closed.
func (a *App) Run() {
	a.win.ShowAndRun()
}

func (a *App) Window() fyne.Window { return a.win }

// Dialog returns the open signature dialog, if any.
func (a *App) Dialog() *DrawDialog { return a.current }

// OpenDialog mounts a fresh signature dialog.
func (a *App) OpenDialog() {
	pad := signature.NewPad(a.cfg.PadOptions()...)
	pad.Attach(signature.NewSurface(1, 1, a.cfg.Pad.StrokeColor, a.cfg.Pad.StrokeWidth))

	release := func() {
		if s := pad.Surface(); s != nil {
			pad.Attach(nil)
			if err := s.Close(); err != nil {
				log.Printf("[UI] close surface: %v", err)
			}
		}
	}

	d := NewDrawDialog(a.win, pad, a.notifier,
		func() {
			release()
			a.current = nil
			a.setStatus(lang.X("app.cancelled", "Signing cancelled"))
			if a.host != nil {
				a.host.SignatureClosed()
			}
		},
		func(file signature.File) {
			a.current = nil
			a.showPreview(file)
			a.setStatus(lang.X("app.saved", "Saved {{.Name}}", map[string]any{"Name": file.Name}))
			if a.host != nil {
				a.host.SignatureFinished(file, pad.Strokes(), pad.SurfaceSize())
			}
			release()
		})
	if v := a.watcher.Viewport(); !v.IsZero() {
		d.OnViewportChange(v)
	}
	a.current = d
	d.Show()
}

func (a *App) onViewportChange(size fyne.Size) {
	if a.current != nil {
		a.current.OnViewportChange(size)
	}
}

func (a *App) showPreview(file signature.File) {
	img := canvas.NewImageFromReader(file.Reader(), file.Name)
	if img == nil {
		log.Printf("[UI] could not decode preview for %s", file.Name)
		return
	}
	img.FillMode = canvas.ImageFillOriginal
	a.preview.Objects = []fyne.CanvasObject{img}
	a.preview.Refresh()
}

// ClearPreview removes the last signature from the main window.
func (a *App) ClearPreview() {
	a.preview.Objects = nil
	a.preview.Refresh()
}

// SetStatus may be called from any goroutine.
func (a *App) SetStatus(text string) {
	fyne.Do(func() { a.setStatus(text) })
}

func (a *App) setStatus(text string) {
	a.status.SetText(text)
}

func (a *App) Quit() {
	a.fyneApp.Quit()
}
