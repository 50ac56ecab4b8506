package charify

import (
	"fmt"
	"io"
)

// Terminal abstracts the cursor-control codes used during playback.
type Terminal interface {
	Clear()
	Home()
	ShowCursor(show bool)
}

// Xterm drives any ANSI-compatible terminal.
type Xterm struct {
	Writer io.Writer
}

// Clear erases the screen and homes the cursor.
func (term *Xterm) Clear() {
	fmt.Fprint(term.Writer, "\033[2J\033[H")
}

// Home moves the cursor to the top-left corner without clearing.
func (term *Xterm) Home() {
	fmt.Fprint(term.Writer, "\033[H")
}

func (term *Xterm) ShowCursor(show bool) {
	if show {
		fmt.Fprint(term.Writer, "\033[?12l\033[?25h")
	} else {
		fmt.Fprint(term.Writer, "\033[?25l")
	}
}
