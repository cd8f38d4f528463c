package get_policy

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type PolicyResolver interface {
	Resolve(ctx context.Context, businessID int64) (*domain.BusinessPolicy, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
