package ui

import "image/color"

// Theme represents a color scheme for the circuit canvas
type Theme int

const (
	// ThemeLight is a light background theme
	ThemeLight Theme = iota
	// ThemeDark is a dark background theme
	ThemeDark
)

// SceneColors defines the color scheme for rendering circuit elements
type SceneColors struct {
	// Background and grid
	Background color.NRGBA
	Grid       color.NRGBA

	// Wires
	Wire     color.NRGBA
	WireMark color.NRGBA
	Rubber   color.NRGBA

	// Symbols
	SymbolBody color.NRGBA
	SymbolFill color.NRGBA
	SymbolText color.NRGBA

	// Pins
	Pin          color.NRGBA
	PinConnected color.NRGBA
	PinText      color.NRGBA

	// Selection and highlight
	Selection color.NRGBA
	Highlight color.NRGBA
}

// GetSceneColors returns the color scheme for the given theme
func GetSceneColors(theme Theme) *SceneColors {
	switch theme {
	case ThemeDark:
		return getDarkTheme()
	default:
		return getLightTheme()
	}
}

func getLightTheme() *SceneColors {
	return &SceneColors{
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Grid:       color.NRGBA{R: 220, G: 220, B: 220, A: 255},

		Wire:     color.NRGBA{R: 0, G: 132, B: 0, A: 255},
		WireMark: color.NRGBA{R: 0, G: 90, B: 0, A: 255},
		Rubber:   color.NRGBA{R: 0, G: 132, B: 0, A: 140},

		SymbolBody: color.NRGBA{R: 132, G: 0, B: 0, A: 255},
		SymbolFill: color.NRGBA{R: 255, G: 255, B: 194, A: 128},
		SymbolText: color.NRGBA{R: 0, G: 0, B: 0, A: 255},

		Pin:          color.NRGBA{R: 132, G: 0, B: 0, A: 255},
		PinConnected: color.NRGBA{R: 0, G: 132, B: 0, A: 255},
		PinText:      color.NRGBA{R: 0, G: 100, B: 100, A: 255},

		Selection: color.NRGBA{R: 80, G: 120, B: 255, A: 255},
		Highlight: color.NRGBA{R: 255, G: 255, B: 0, A: 128},
	}
}

func getDarkTheme() *SceneColors {
	return &SceneColors{
		Background: color.NRGBA{R: 30, G: 30, B: 30, A: 255},
		Grid:       color.NRGBA{R: 60, G: 60, B: 60, A: 255},

		Wire:     color.NRGBA{R: 0, G: 255, B: 0, A: 255},
		WireMark: color.NRGBA{R: 150, G: 255, B: 150, A: 255},
		Rubber:   color.NRGBA{R: 0, G: 255, B: 0, A: 140},

		SymbolBody: color.NRGBA{R: 255, G: 100, B: 100, A: 255},
		SymbolFill: color.NRGBA{R: 60, G: 60, B: 0, A: 128},
		SymbolText: color.NRGBA{R: 255, G: 255, B: 255, A: 255},

		Pin:          color.NRGBA{R: 255, G: 100, B: 100, A: 255},
		PinConnected: color.NRGBA{R: 0, G: 255, B: 0, A: 255},
		PinText:      color.NRGBA{R: 100, G: 255, B: 255, A: 255},

		Selection: color.NRGBA{R: 120, G: 150, B: 255, A: 255},
		Highlight: color.NRGBA{R: 255, G: 255, B: 100, A: 128},
	}
}

// String returns the theme name as a string
func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "Light"
	case ThemeDark:
		return "Dark"
	default:
		return "Unknown"
	}
}
