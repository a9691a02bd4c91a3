package usecase

import (
	"errors"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

// logWriteError пишет ошибки клиента как Warn, остальные как Error
func logWriteError(logger port.LoggerPort, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict):
		logger.Warn(msg, port.Fields{"reason": err.Error()})
	default:
		logger.Error(msg, err, nil)
	}
}
