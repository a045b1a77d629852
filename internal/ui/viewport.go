package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// viewportWatcher is stacked under the window content so that it is always
// sized to the whole window, and reports every change.
type viewportWatcher struct {
	widget.BaseWidget
	onChange func(fyne.Size)
	last     fyne.Size
}

func newViewportWatcher(onChange func(fyne.Size)) *viewportWatcher {
	v := &viewportWatcher{onChange: onChange}
	v.ExtendBaseWidget(v)
	return v
}

func (v *viewportWatcher) Resize(size fyne.Size) {
	v.BaseWidget.Resize(size)
	if size == v.last {
		return
	}
	v.last = size
	if v.onChange != nil {
		v.onChange(size)
	}
}

func (v *viewportWatcher) Viewport() fyne.Size {
	return v.last
}

func (v *viewportWatcher) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}
