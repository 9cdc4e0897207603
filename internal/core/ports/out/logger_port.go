package out

// LogFields carries structured context for one log event.
type LogFields map[string]interface{}

// LoggerPort is the logging contract of the core. Events are
// dot-namespaced, e.g. "chat.message.received".
type LoggerPort interface {
	Debug(event string, fields LogFields)
	Info(event string, fields LogFields)
	Warn(event string, fields LogFields)
	Error(event string, fields LogFields)
	WithFields(fields LogFields) LoggerPort
	WithModule(module string) LoggerPort
}
