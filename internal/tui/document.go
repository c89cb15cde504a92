package tui

import (
	"github.com/csheth/hoverlate/internal/overlay"
	"github.com/csheth/hoverlate/internal/page"
)

// layerDocument is the overlay surface: attached handles are drawn over the
// page on every frame.
type layerDocument struct {
	attached []*overlay.Handle
}

func (d *layerDocument) Attach(h *overlay.Handle) {
	d.attached = append(d.attached, h)
}

func (d *layerDocument) Detach(h *overlay.Handle) {
	for i, existing := range d.attached {
		if existing == h {
			d.attached = append(d.attached[:i], d.attached[i+1:]...)
			return
		}
	}
}

func (d *layerDocument) Len() int {
	return len(d.attached)
}

func (d *layerDocument) Layers() []page.Layer {
	layers := make([]page.Layer, 0, len(d.attached))
	for _, h := range d.attached {
		bounds := h.Bounds()
		layers = append(layers, page.Layer{X: bounds.X, Y: bounds.Y, View: h.View()})
	}
	return layers
}
