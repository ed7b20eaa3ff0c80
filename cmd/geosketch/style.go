package main

import (
	"image/color"
	"strings"

	"github.com/crazy3lf/colorconv"
)

type StyleSettings struct {
	Background string
	Anchor     string
	Point      string
	Preview    string
	Symbol     string
	HUDText    string `toml:"hud-text"`
	Font       string
	FontSize   int `toml:"font-size"`
}

// Style is the parsed, render-ready form of StyleSettings.
type Style struct {
	Background color.NRGBA
	Anchor     color.NRGBA
	Point      color.NRGBA
	Preview    color.NRGBA
	Symbol     color.NRGBA
	HUDText    color.NRGBA
	Font       string
	FontSize   int
}

// https://colorhunt.co/palette/1624471f40681b1b2fe43f5a
var defaultStyle = Style{
	Background: MustParseHexColor("#17223B"),
	Anchor:     MustParseHexColor("#fcd0a1"),
	Point:      MustParseHexColor("#fa8072"),
	Preview:    MustParseHexColor("#b1b695"),
	Symbol:     MustParseHexColor("#99ad6a"),
	HUDText:    MustParseHexColor("#f0f0f0"),
	FontSize:   14,
}

// BuildStyle overlays the configured colors onto the default style. An
// unparsable color is reported and leaves the default in place.
func BuildStyle(s StyleSettings) (Style, error) {
	style := defaultStyle
	style.Font = s.Font
	if s.FontSize > 0 {
		style.FontSize = s.FontSize
	}

	var firstErr error
	set := func(dst *color.NRGBA, hex string) {
		if hex == "" {
			return
		}
		c, err := ParseHexColor(hex)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		*dst = c
	}

	set(&style.Background, s.Background)
	set(&style.Anchor, s.Anchor)
	set(&style.Point, s.Point)
	set(&style.Preview, s.Preview)
	set(&style.Symbol, s.Symbol)
	set(&style.HUDText, s.HUDText)

	return style, firstErr
}

func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	r, g, b, err := colorconv.HexToRGB(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func MustParseHexColor(s string) color.NRGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err.Error())
	}
	return c
}
