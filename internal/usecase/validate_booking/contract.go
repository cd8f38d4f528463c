package validate_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	computeSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/compute_slots"
)

// PolicyResolver интерфейс резолвера политики бизнеса
type PolicyResolver interface {
	Resolve(ctx context.Context, businessID int64) (*domain.BusinessPolicy, error)
}

// SlotsEngine интерфейс движка расчёта слотов
type SlotsEngine interface {
	Execute(ctx context.Context, req *computeSlots.Request) (*computeSlots.Response, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
