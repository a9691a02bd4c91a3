package port

// Fields - структурированные данные для записи в лог
type Fields map[string]interface{}

// LoggerPort определяет контракт для системы логирования
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)
	// WithFields возвращает логгер с уже добавленными полями
	WithFields(fields Fields) LoggerPort
}
