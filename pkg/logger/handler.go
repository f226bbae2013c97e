package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const initialBufferCapacity = 256

// lineHandler writes one log entry per line:
// "2006-01-02T15:04:05-07:00 LEVEL msg key=value".
type lineHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func newLineHandler(w io.Writer, level Level) *lineHandler {
	return &lineHandler{
		mu:     &sync.Mutex{},
		writer: w,
		level:  level.ToSlogLevel(),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, initialBufferCapacity)

	buf = append(buf, r.Time.Local().Format("2006-01-02T15:04:05-07:00")...)
	buf = append(buf, ' ')
	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	for _, a := range h.attrs {
		buf = h.appendAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, a)

		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.writer.Write(buf)

	return err
}

func (h *lineHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}

	buf = append(buf, ' ')

	if len(h.groups) > 0 {
		buf = append(buf, strings.Join(h.groups, ".")...)
		buf = append(buf, '.')
	}

	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	val := a.Value.String()
	if needsQuoting(val) {
		return append(buf, quoteValue(val)...)
	}

	return append(buf, val...)
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}

	return strings.ContainsAny(s, " \t\r\n\"")
}

func quoteValue(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)

	return `"` + r.Replace(s) + `"`
}

// WithAttrs returns a handler that prepends attrs to every record.
func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)

	return &lineHandler{
		mu:     h.mu,
		writer: h.writer,
		level:  h.level,
		attrs:  merged,
		groups: h.groups,
	}
}

// WithGroup returns a handler that prefixes keys with name.
func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)

	return &lineHandler{
		mu:     h.mu,
		writer: h.writer,
		level:  h.level,
		attrs:  h.attrs,
		groups: groups,
	}
}
