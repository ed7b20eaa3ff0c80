package main

import (
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected color.NRGBA
		fails    bool
	}{
		{name: "with hash", input: "#17223B", expected: color.NRGBA{R: 0x17, G: 0x22, B: 0x3b, A: 0xff}},
		{name: "without hash", input: "fa8072", expected: color.NRGBA{R: 0xfa, G: 0x80, B: 0x72, A: 0xff}},
		{name: "garbage", input: "zzz", fails: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseHexColor(tc.input)
			if tc.fails {
				if err == nil {
					t.Fatalf("Expected an error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error but got %v", err)
			}
			if c != tc.expected {
				t.Fatalf("Expected %v but got %v", tc.expected, c)
			}
		})
	}
}

func TestBuildStyleOverlaysDefaults(t *testing.T) {
	style, err := BuildStyle(StyleSettings{Anchor: "#000000", FontSize: 18})
	if err != nil {
		t.Fatalf("Expected no error but got %v", err)
	}

	if style.Anchor != (color.NRGBA{A: 0xff}) {
		t.Fatalf("Expected the configured anchor color but got %v", style.Anchor)
	}
	if style.Point != defaultStyle.Point {
		t.Fatalf("Expected the default point color but got %v", style.Point)
	}
	if style.FontSize != 18 {
		t.Fatalf("Expected font size 18 but got %d", style.FontSize)
	}
}

func TestBuildStyleReportsBadColor(t *testing.T) {
	style, err := BuildStyle(StyleSettings{Background: "nope"})
	if err == nil {
		t.Fatalf("Expected an error for an unparsable color")
	}
	if style.Background != defaultStyle.Background {
		t.Fatalf("Expected the default background to survive a bad config value")
	}
}
