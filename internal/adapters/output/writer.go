// Package output provides adapters for writing command results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Writer writes results to the configured output destination.
// By default, it writes to stdout.
type Writer struct {
	out io.Writer
}

// NewWriter creates a new Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{out: os.Stdout}
}

// NewWriterWithOutput creates a new Writer with a custom output destination.
func NewWriterWithOutput(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteLine writes value as a single line without any prefix or formatting,
// so the output can be consumed directly by scripts.
func (w *Writer) WriteLine(value string) error {
	_, err := fmt.Fprintln(w.out, value)
	return err
}

// WriteJSON writes v as two-space indented JSON followed by a newline.
// HTML escaping is disabled so URLs with '&' stay readable.
func (w *Writer) WriteJSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}
