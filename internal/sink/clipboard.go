package sink

import (
	"context"
	"io"

	"github.com/aymanbagabas/go-osc52/v2"
)

// Clipboard is a write-only clipboard.
type Clipboard interface {
	Write(ctx context.Context, text string) error
}

// OSC52Clipboard sets the terminal's clipboard with an OSC 52 escape
// sequence written to Out.
type OSC52Clipboard struct {
	Out io.Writer
}

// Write emits the sequence for text.
func (c OSC52Clipboard) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := osc52.New(text).WriteTo(c.Out)
	return err
}

// NopClipboard discards writes.
type NopClipboard struct{}

// Write implements Clipboard.
func (NopClipboard) Write(context.Context, string) error { return nil }
