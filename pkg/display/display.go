// Package display shows a beacon's state to the operator. Renderers are called from the beacon's
// goroutine after every state change, so slow outputs should be wrapped with [NewAsync].
package display

import (
	"fmt"
	"io"
	"strings"
)

// View is the part of a beacon's state a renderer shows.
type View struct {
	Command     string
	Sequence    uint16
	Advertising bool
}

// Renderer draws a View.
type Renderer interface {
	Render(v View) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(v View) error

func (f RendererFunc) Render(v View) error {
	return f(v)
}

const (
	Title = "Beacon Remote"
	Hint  = "UP/DN: Cmd | OK: Send"
)

// Lines returns the screen contents for v: the title, the selected command, the sequence number
// and the key hint.
func Lines(v View) []string {
	return []string{
		Title,
		"Cmd: " + v.Command,
		fmt.Sprintf("Seq: %d", v.Sequence),
		Hint,
	}
}

// Text writes each view as a block of lines followed by a blank line.
type Text struct {
	w       io.Writer
	newline string
}

// NewText returns a renderer writing to w. Set crlf when w is a terminal in raw mode, where a
// bare line feed does not return the cursor.
func NewText(w io.Writer, crlf bool) *Text {
	t := &Text{w: w, newline: "\n"}
	if crlf {
		t.newline = "\r\n"
	}
	return t
}

func (t *Text) Render(v View) error {
	var b strings.Builder
	for _, line := range Lines(v) {
		b.WriteString(line)
		b.WriteString(t.newline)
	}
	if !v.Advertising {
		b.WriteString("(radio idle)")
		b.WriteString(t.newline)
	}
	b.WriteString(t.newline)
	_, err := io.WriteString(t.w, b.String())
	return err
}
