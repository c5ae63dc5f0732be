package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Format selects how records are encoded.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

func (f Format) valid() bool { return f == FormatJSON || f == FormatText }

// Option configures New.
type Option func(*options)

type options struct {
	level  slog.Leveler
	format Format
	output io.Writer
	attrs  []slog.Attr
	values []contextValue
}

// WithLevel sets the minimum level. Transitions are logged at debug.
func WithLevel(l slog.Leveler) Option {
	return func(o *options) {
		if l != nil {
			o.level = l
		}
	}
}

// WithFormat selects JSON or text records. New panics on any other format.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// WithOutput sets the destination; nil keeps stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr adds attributes to every record, e.g. the service name.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// WithContextValue logs ctx.Value(key) as attribute name on records logged with a
// context, such as the request id an HTTP handler fires events under.
func WithContextValue(name string, key any) Option {
	return func(o *options) {
		if name != "" && key != nil {
			o.values = append(o.values, contextValue{name: name, key: key})
		}
	}
}

// New builds a logger to pass to statemachine.WithLogger, statestore.WithLogger or
// inspect.WithLogger. Without options it writes JSON at info level to stdout.
func New(opts ...Option) *slog.Logger {
	o := options{level: slog.LevelInfo, format: FormatJSON, output: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.format.valid() {
		panic(fmt.Errorf("%w: %q", ErrInvalidFormat, o.format))
	}

	ho := &slog.HandlerOptions{Level: o.level}
	var h slog.Handler = slog.NewJSONHandler(o.output, ho)
	if o.format == FormatText {
		h = slog.NewTextHandler(o.output, ho)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}
	if len(o.values) > 0 {
		h = contextHandler{Handler: h, values: o.values}
	}
	return slog.New(h)
}

// Nop returns a logger that drops every record.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
