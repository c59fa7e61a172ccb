package errors

import "go.uber.org/zap"

// LogHandler is an ErrorHandler that writes errors to a zap logger.
// The zero value discards everything.
type LogHandler struct {
	// Logger receives the entries. Nil means no output.
	Logger *zap.Logger
	// Verbose attaches stack traces to entries.
	Verbose bool
}

// NewLogHandler returns a LogHandler writing to logger.
func NewLogHandler(logger *zap.Logger, verbose bool) *LogHandler {
	return &LogHandler{Logger: logger, Verbose: verbose}
}

// HandleError logs a ShellError. Consent failures are expected in normal
// operation and are logged at warn level.
func (h *LogHandler) HandleError(err *ShellError) {
	if err == nil || h.Logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
		zap.Time("at", err.Timestamp),
	}
	if err.Channel != "" {
		fields = append(fields, zap.String("channel", err.Channel))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	if err.Kind == KindConsent {
		h.Logger.Warn("shell error", fields...)
		return
	}
	h.Logger.Error("shell error", fields...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil || h.Logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Any("value", err.Value),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.Logger.Error("shell panic", fields...)
}
