package main

import (
	"fmt"
	"image"
	"os"

	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/flopp/go-findfont"
	"github.com/geosketch/geosketch/internal/typeset"
)

// HUD is the heads-up readout in the window corner: cursor coordinate, zoom,
// point count and key hints.
type HUD struct {
	th *material.Theme
}

func NewHUD(style Style) (*HUD, error) {
	collection, err := fontCollection(style.Font)
	if err != nil {
		return nil, err
	}

	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(collection))
	th.Palette.Fg = style.HUDText
	th.TextSize = unit.Sp(style.FontSize)

	return &HUD{th: th}, nil
}

// fontCollection loads the configured font from the installed system fonts,
// falling back to the bundled Go fonts when none is configured.
func fontCollection(name string) ([]text.FontFace, error) {
	if name == "" {
		return gofont.Collection(), nil
	}

	path, err := findfont.Find(name)
	if err != nil {
		return nil, fmt.Errorf("locating font %s failed: %w", name, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	face, err := typeset.ParseTTF(f)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s failed: %w", path, err)
	}

	return []text.FontFace{
		{Font: font.Font{Typeface: "hud"}, Face: face},
	}, nil
}

func (h *HUD) Layout(gtx layout.Context, m *MapUI) {
	ll := m.view.LonLat(m.cursor)
	line := fmt.Sprintf("lon %.5f lat %.5f z %d symbols %d", ll[0], ll[1], int(m.view.Zoom), symbolStore.Len())

	if sk := m.plotter.Sketch(); sk != nil {
		line = fmt.Sprintf("%s | drawing: %d points, double-click or re-tap to finish, esc to cancel", line, sk.Len())
	}

	off := op.Offset(image.Pt(8, 8)).Push(gtx.Ops)
	material.Label(h.th, h.th.TextSize, line).Layout(gtx)
	off.Pop()
}
