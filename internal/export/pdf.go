// Package export writes finished signatures to disk as PNG and vector PDF.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	"github.com/jung-kurt/gofpdf"

	"signpad/internal/signature"
)

// ErrNoStrokes is returned when there is nothing to put on the page.
var ErrNoStrokes = errors.New("export: no strokes")

// PDF renders strokes as vector lines on a single page sized to the surface,
// one point per surface unit.
func PDF(w io.Writer, strokes []signature.Stroke, size signature.Size) error {
	if len(strokes) == 0 {
		return ErrNoStrokes
	}
	width, height := size.Pixels()
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	for _, st := range strokes {
		r, g, b := rgb(st.Color)
		p.SetDrawColor(r, g, b)
		p.SetLineWidth(st.Width)
		for i := 1; i < len(st.Points); i++ {
			p.Line(
				float64(st.Points[i-1].X), float64(st.Points[i-1].Y),
				float64(st.Points[i].X), float64(st.Points[i].Y),
			)
		}
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func rgb(hex string) (int, int, int) {
	c := gg.Hex(hex)
	return int(c.R*255 + 0.5), int(c.G*255 + 0.5), int(c.B*255 + 0.5)
}

// WritePDF stores the strokes next to the PNG, as <token>.pdf.
func WritePDF(dir, pngName string, strokes []signature.Stroke, size signature.Size) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, strings.TrimSuffix(pngName, signature.PNGExtension)+".pdf")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create pdf: %w", err)
	}
	if err := PDF(f, strokes, size); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	return path, f.Close()
}
