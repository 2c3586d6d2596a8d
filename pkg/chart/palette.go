package chart

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// benchmark curves cycle through a fixed palette, index modulo size
var palette = []drawing.Color{
	drawing.ColorFromHex("ffa500"), // orange
	drawing.ColorFromHex("00ffff"), // cyan
	drawing.ColorFromHex("800080"), // purple
	drawing.ColorFromHex("0000ff"), // blue
	drawing.ColorFromHex("ff00ff"), // magenta
	drawing.ColorFromHex("ffff00"), // yellow
	drawing.ColorFromHex("000000"), // black
	drawing.ColorFromHex("ff0000"), // red
	drawing.ColorFromHex("008000"), // green
}

func PaletteColorAt(i int) drawing.Color {
	return palette[i%len(palette)]
}

func PaletteSize() int {
	return len(palette)
}
