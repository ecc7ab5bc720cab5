package rabbitmq

import (
	"fmt"

	"korx-catalog/internal/core/port"
	"korx-catalog/pkg/rabbitmq/rabbitmq_common"
)

// pkgLogger пропускает логи pkg/rabbitmq в LoggerPort приложения.
type pkgLogger struct {
	out port.LoggerPort
}

// NewPkgLoggerBridge оборачивает LoggerPort для ConnectionManager и Publisher.
func NewPkgLoggerBridge(logger port.LoggerPort) rabbitmq_common.Logger {
	return pkgLogger{out: logger.WithFields(port.Fields{"component": "rabbitmq"})}
}

// kvFields превращает пары ключ-значение в Fields. Нестроковый ключ
// записывается через fmt, значение без пары попадает в "extra".
func kvFields(kv []interface{}) port.Fields {
	if len(kv) == 0 {
		return nil
	}
	fields := make(port.Fields, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			fields["extra"] = kv[i]
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields[key] = kv[i+1]
	}
	return fields
}

func (l pkgLogger) Debug(msg string, kv ...interface{}) { l.out.Debug(msg, kvFields(kv)) }
func (l pkgLogger) Info(msg string, kv ...interface{})  { l.out.Info(msg, kvFields(kv)) }
func (l pkgLogger) Warn(msg string, kv ...interface{})  { l.out.Warn(msg, kvFields(kv)) }

func (l pkgLogger) Error(err error, msg string, kv ...interface{}) {
	l.out.Error(msg, err, kvFields(kv))
}
