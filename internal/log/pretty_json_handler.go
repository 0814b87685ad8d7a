package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

const defaultIndent = "  "

// PrettyJSONHandlerOptions configures the handler returned by NewPrettyJSONHandler.
type PrettyJSONHandlerOptions struct {
	slog.HandlerOptions
	// Indent is used for every nesting level. Defaults to two spaces.
	Indent string
}

// NewPrettyJSONHandler returns a handler writing indented JSON records, one record after another.
// It is meant for reading logs locally, use slog.NewJSONHandler anywhere else.
func NewPrettyJSONHandler(w io.Writer, opts *PrettyJSONHandlerOptions) slog.Handler {
	if opts == nil {
		opts = &PrettyJSONHandlerOptions{}
	}
	indent := opts.Indent
	if indent == "" {
		indent = defaultIndent
	}

	buf := &bytes.Buffer{}
	return &prettyJSONHandler{
		json:   slog.NewJSONHandler(buf, &opts.HandlerOptions),
		buf:    buf,
		mu:     &sync.Mutex{},
		out:    w,
		indent: indent,
	}
}

// prettyJSONHandler formats records using a JSON handler writing into buf, then indents the result.
// Handlers derived through WithAttrs and WithGroup share buf and mu.
type prettyJSONHandler struct {
	json   slog.Handler
	buf    *bytes.Buffer
	mu     *sync.Mutex
	out    io.Writer
	indent string
}

func (h *prettyJSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.json.Enabled(ctx, level)
}

func (h *prettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()
	if err := h.json.Handle(ctx, r); err != nil {
		return err
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, bytes.TrimSpace(h.buf.Bytes()), "", h.indent); err != nil {
		// write the record as is rather than losing it
		_, err := h.out.Write(h.buf.Bytes())
		return err
	}
	indented.WriteByte('\n')

	_, err := h.out.Write(indented.Bytes())
	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.json = h.json.WithAttrs(attrs)
	return &c
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.json = h.json.WithGroup(name)
	return &c
}
