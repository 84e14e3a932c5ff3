package render

import (
	"github.com/fatih/color"
)

type painter func(string, ...interface{}) string

var (
	red    painter = color.New(color.FgHiRed).SprintfFunc()
	yellow painter = color.New(color.FgHiYellow).SprintfFunc()
	green  painter = color.New(color.FgHiGreen).SprintfFunc()
	cyan   painter = color.New(color.FgHiCyan).SprintfFunc()
)

// SetColor turns ANSI colouring on or off for every notice.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}
