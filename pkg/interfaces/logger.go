package interfaces

// Logger receives the dotted events emitted by the theme catalog, layout
// engine, master page renderer, module lifecycle manager, extension registry
// and composer. Arguments are alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// LoggerProvider hands out a logger per engine namespace such as
// "mosaic.layouts" or "mosaic.commands.themes".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry site, page, stage
// or module fields on every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
