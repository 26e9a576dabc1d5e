package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/MihkelHunter/mktodo/internal/todo"
)

var (
	colBackground = color.NRGBA{R: 15, G: 15, B: 20, A: 255}
	colSurface    = color.NRGBA{R: 26, G: 26, B: 36, A: 255}
	colDone       = color.NRGBA{R: 20, G: 30, B: 25, A: 255}
	colAccent     = color.NRGBA{R: 99, G: 102, B: 241, A: 255}
)

// Same hues as the terminal printer.
var priorityColors = map[todo.Priority]color.NRGBA{
	todo.PriorityHigh:   {R: 239, G: 68, B: 68, A: 255},
	todo.PriorityMedium: {R: 245, G: 158, B: 11, A: 255},
	todo.PriorityLow:    {R: 100, G: 116, B: 139, A: 255},
}

var themeColors = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameBackground:      colBackground,
	theme.ColorNameButton:          colAccent,
	theme.ColorNamePrimary:         colAccent,
	theme.ColorNameForeground:      color.White,
	theme.ColorNameInputBackground: color.NRGBA{R: 35, G: 35, B: 50, A: 255},
	theme.ColorNameDisabled:        color.NRGBA{R: 80, G: 80, B: 100, A: 255},
	theme.ColorNameSeparator:       color.NRGBA{R: 50, G: 50, B: 65, A: 255},
}

var themeSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:    8,
	theme.SizeNameText:       14,
	theme.SizeNameInlineIcon: 20,
}

// boardTheme is the default theme with a fixed dark palette.
type boardTheme struct{}

var _ fyne.Theme = boardTheme{}

func (boardTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	if c, ok := themeColors[n]; ok {
		return c
	}
	return theme.DefaultTheme().Color(n, theme.VariantDark)
}

func (boardTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (boardTheme) Icon(n fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(n)
}

func (boardTheme) Size(n fyne.ThemeSizeName) float32 {
	if s, ok := themeSizes[n]; ok {
		return s
	}
	return theme.DefaultTheme().Size(n)
}
