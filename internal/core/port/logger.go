package port

// Fields - структурированные данные для записи в лог.
type Fields map[string]interface{}

// LoggerPort - контракт логирования для ядра. Ядро не знает, пишем ли мы
// в stdout, в zap или во fluent-bit.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	// Error пишет сообщение вместе с объектом error.
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields возвращает логгер с уже добавленными полями (use_case, draft_id и т.п.).
	WithFields(fields Fields) LoggerPort
}
