package main

import (
	"io"
	"os"

	"golang.org/x/term"
)

type color string

const (
	colorRed    color = "\x1b[1;31m"
	colorGreen  color = "\x1b[1;32m"
	colorYellow color = "\x1b[1;33m"
	colorCyan   color = "\x1b[1;36m"
	colorWhite  color = "\x1b[0;37m"
	colorReset  color = "\x1b[0m"
)

// style paints console text. The zero value prints plain text.
type style struct {
	enabled bool
}

// newStyle enables colors only when requested and w is a terminal.
func newStyle(w io.Writer, requested bool) style {
	if !requested {
		return style{}
	}
	f, ok := w.(*os.File)
	return style{enabled: ok && term.IsTerminal(int(f.Fd()))}
}

func (s style) paint(c color, text string) string {
	if !s.enabled {
		return text
	}
	return string(c) + text + string(colorReset)
}
