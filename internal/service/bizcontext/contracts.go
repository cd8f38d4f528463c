package bizcontext

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	BusinessExists(ctx context.Context, businessID int64) (bool, error)
	GetBusinessIDBySlug(ctx context.Context, slug string) (int64, error)
	GetOperatingHours(ctx context.Context, businessID int64) ([]domain.OperatingHours, error)
	GetEmployees(ctx context.Context, businessID int64) ([]domain.Provider, error)
	GetOwners(ctx context.Context, businessID int64) ([]domain.Provider, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
