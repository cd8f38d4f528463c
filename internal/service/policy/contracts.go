package policy

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// PolicyRepository интерфейс репозитория политик
type PolicyRepository interface {
	GetByBusinessID(ctx context.Context, businessID int64) (*domain.BusinessPolicy, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
